package market

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/reservestress/internal/domain"
)

var testNow = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// dailySeries builds n consecutive daily points ending on end, one value each
func dailySeries(end time.Time, values ...float64) []domain.PricePoint {
	points := make([]domain.PricePoint, len(values))
	start := end.AddDate(0, 0, -(len(values) - 1))
	for i, v := range values {
		points[i] = domain.PricePoint{Date: start.AddDate(0, 0, i), Value: v}
	}
	return points
}

func validSnapshot() *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		Source:      SourceRemote,
		LastUpdated: testNow,
		Rates: domain.SingaporeRates{
			SORA:        0.03,
			Treasury12M: 0.035,
			FDAverage:   0.032,
			History: []domain.RatePoint{
				{Date: testNow.AddDate(0, 0, -1), SORA: 0.029, FD: 0.031},
			},
		},
		Indices: map[string]domain.IndexData{
			domain.IndexSTI: {
				CurrentPrice: 110,
				History:      dailySeries(testNow.AddDate(0, 0, -1), 100, 120, 90, 110),
			},
			domain.IndexMSCIWorld: {CurrentPrice: 170},
		},
		CurrencyRates: map[string]float64{"SGD_USD": 0.74},
		BondYields:    map[string]float64{"10y_sgs": 0.039},
	}
}

type fakeFetcher struct {
	mu       sync.Mutex
	snapshot *domain.MarketSnapshot
	err      error
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*domain.MarketSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

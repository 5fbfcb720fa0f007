package market

import (
	"time"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/pkg/formulas"
)

// DefaultMetrics are reported for an index whose history is too short to measure
var DefaultMetrics = domain.IndexMetrics{
	OneYearReturn: 0.05,
	Volatility:    0.15,
	MaxDrawdown:   -0.20,
}

// ComputeMetrics measures the trailing year of history, which must be sorted
// by date. Max drawdown is reported as a negative fraction.
func ComputeMetrics(history []domain.PricePoint) domain.IndexMetrics {
	window := trailingYear(history)
	if len(window) < 2 {
		return DefaultMetrics
	}

	prices := make([]float64, len(window))
	for i, p := range window {
		prices[i] = p.Value
	}

	metrics := domain.IndexMetrics{
		OneYearReturn: formulas.TotalReturn(prices[0], prices[len(prices)-1]),
		Volatility:    formulas.CalculateVolatility(prices),
	}
	if dd := formulas.CalculateMaxDrawdown(prices); dd != nil {
		metrics.MaxDrawdown = -*dd
	}
	return metrics
}

func trailingYear(history []domain.PricePoint) []domain.PricePoint {
	if len(history) == 0 {
		return nil
	}
	cutoff := history[len(history)-1].Date.AddDate(-1, 0, 0)
	for i, p := range history {
		if !p.Date.Before(cutoff) {
			return history[i:]
		}
	}
	return nil
}

// withMetrics fills in metrics for every index that carries history
func withMetrics(snapshot *domain.MarketSnapshot) {
	for name, index := range snapshot.Indices {
		if len(index.History) == 0 {
			continue
		}
		index.Metrics = ComputeMetrics(index.History)
		snapshot.Indices[name] = index
	}
}

func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

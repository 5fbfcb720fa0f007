// Package market maintains the benchmark rates, index levels and FX used by
// performance reporting. The stress engine never reads market data.
package market

import (
	"time"

	"github.com/aristath/reservestress/internal/domain"
)

// Snapshot sources
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback_data"
)

// FallbackSnapshot returns the built-in dataset served when neither the
// remote source nor the cache can answer.
func FallbackSnapshot(now time.Time) *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		Source:      SourceFallback,
		LastUpdated: now.UTC(),
		Rates: domain.SingaporeRates{
			SORA:        0.0325,
			Treasury12M: 0.0370,
			FDAverage:   0.0375,
		},
		Indices: map[string]domain.IndexData{
			domain.IndexSTI:         {CurrentPrice: 4200.0, Metrics: domain.IndexMetrics{OneYearReturn: 0.08}},
			domain.IndexMSCIWorld:   {CurrentPrice: 173.0, Metrics: domain.IndexMetrics{OneYearReturn: 0.12}},
			domain.IndexMSCIAsia:    {CurrentPrice: 85.0, Metrics: domain.IndexMetrics{OneYearReturn: 0.10}},
			domain.IndexGlobalBonds: {CurrentPrice: 98.0, Metrics: domain.IndexMetrics{OneYearReturn: 0.03}},
		},
		CurrencyRates: map[string]float64{
			"SGD_USD": 0.7420,
			"USD_SGD": 1.3477,
		},
		BondYields: map[string]float64{
			"2y_sgs":  0.032,
			"5y_sgs":  0.035,
			"10y_sgs": 0.039,
			"20y_sgs": 0.041,
		},
	}
}

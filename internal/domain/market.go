package domain

import "time"

// PricePoint is one daily observation of an index level
type PricePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// RatePoint is one daily observation of Singapore money-market rates
type RatePoint struct {
	Date time.Time `json:"date"`
	SORA float64   `json:"sora"`
	FD   float64   `json:"fd"`
}

// IndexMetrics are derived from an index history
type IndexMetrics struct {
	OneYearReturn float64 `json:"1y_return"`
	Volatility    float64 `json:"1y_volatility"`
	MaxDrawdown   float64 `json:"max_drawdown"`
}

// IndexData describes one benchmark index
type IndexData struct {
	CurrentPrice float64      `json:"current_price"`
	History      []PricePoint `json:"history,omitempty"`
	Metrics      IndexMetrics `json:"computed_metrics"`
}

// SingaporeRates holds the current local rate levels and their history
type SingaporeRates struct {
	SORA        float64     `json:"sora_rate"`
	Treasury12M float64     `json:"12m_treasury"`
	FDAverage   float64     `json:"fd_rates_average"`
	History     []RatePoint `json:"history,omitempty"`
}

// MarketSnapshot is the market/benchmark dataset consumed by peripheral
// reporting. The stress engine never reads it.
type MarketSnapshot struct {
	Source        string               `json:"data_source"`
	LastUpdated   time.Time            `json:"last_updated"`
	Rates         SingaporeRates       `json:"singapore_rates"`
	Indices       map[string]IndexData `json:"market_indices"`
	CurrencyRates map[string]float64   `json:"currency_rates"`
	BondYields    map[string]float64   `json:"bond_yields"`
}

// Index names tracked by the market data layer
const (
	IndexSTI         = "STI"
	IndexMSCIWorld   = "MSCI_World"
	IndexMSCIAsia    = "MSCI_Asia"
	IndexGlobalBonds = "Global_Bonds"
)

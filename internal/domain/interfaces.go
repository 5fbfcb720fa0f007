package domain

import "context"

// PortfolioSource supplies the holdings to evaluate
type PortfolioSource interface {
	Holdings(ctx context.Context) (Portfolio, error)
}

// MarketDataProvider supplies current rates, index levels and FX.
// forceRefresh bypasses any cache.
type MarketDataProvider interface {
	Snapshot(ctx context.Context, forceRefresh bool) (*MarketSnapshot, error)
}

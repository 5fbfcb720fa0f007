package testing

import (
	"context"
	"sync"

	"github.com/aristath/reservestress/internal/domain"
)

// MockPortfolioSource is a mock implementation of domain.PortfolioSource
type MockPortfolioSource struct {
	mu       sync.RWMutex
	holdings domain.Portfolio
	err      error
}

// NewMockPortfolioSource creates a mock source returning holdings
func NewMockPortfolioSource(holdings domain.Portfolio) *MockPortfolioSource {
	return &MockPortfolioSource{holdings: holdings}
}

// SetError makes every subsequent call fail with err
func (m *MockPortfolioSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Holdings returns a copy of the configured holdings
func (m *MockPortfolioSource) Holdings(ctx context.Context) (domain.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.holdings.Clone(), nil
}

// MockMarketDataProvider is a mock implementation of domain.MarketDataProvider
type MockMarketDataProvider struct {
	mu       sync.RWMutex
	snapshot *domain.MarketSnapshot
	err      error
	calls    int
}

// NewMockMarketDataProvider creates a mock provider returning snapshot
func NewMockMarketDataProvider(snapshot *domain.MarketSnapshot) *MockMarketDataProvider {
	return &MockMarketDataProvider{snapshot: snapshot}
}

// SetError makes every subsequent call fail with err
func (m *MockMarketDataProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many snapshots were requested
func (m *MockMarketDataProvider) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Snapshot returns the configured snapshot
func (m *MockMarketDataProvider) Snapshot(ctx context.Context, forceRefresh bool) (*domain.MarketSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

package clientdata

import "time"

// Default lifetimes for cached market data
const (
	// TTLMarketSnapshot is how long a fetched snapshot counts as fresh
	TTLMarketSnapshot = 7 * 24 * time.Hour

	// CleanupGrace is how long an expired snapshot remains usable as a stale fallback
	CleanupGrace = 14 * 24 * time.Hour
)

// Days converts a lifetime to whole days
func Days(d time.Duration) int {
	return int(d / (24 * time.Hour))
}

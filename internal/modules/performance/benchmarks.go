// Package performance measures the historical behaviour of the benchmarks
// behind each asset class and weights them by the current allocation.
package performance

import "github.com/aristath/reservestress/internal/domain"

// BenchmarkKind says how a benchmark series is stored
type BenchmarkKind string

const (
	BenchmarkIndex BenchmarkKind = "index" // daily index levels
	BenchmarkRate  BenchmarkKind = "rate"  // daily annual rates, compounded into an index
)

// Rate series names
const (
	RateSORA = "SORA"
	RateFD   = "FD"
)

// Benchmark identifies the series that stands in for an asset class
type Benchmark struct {
	Kind        BenchmarkKind `json:"kind"`
	Symbol      string        `json:"symbol"`
	Description string        `json:"description"`
}

// DefaultBenchmarks maps every known asset class to its benchmark
func DefaultBenchmarks() map[domain.AssetClass]Benchmark {
	return map[domain.AssetClass]Benchmark{
		domain.TimeDeposit:    {Kind: BenchmarkRate, Symbol: RateFD, Description: "Singapore fixed deposit rates"},
		domain.MMF:            {Kind: BenchmarkRate, Symbol: RateSORA, Description: "Singapore Overnight Rate Average"},
		domain.CashEquivalent: {Kind: BenchmarkRate, Symbol: RateSORA, Description: "Singapore Overnight Rate Average"},
		domain.MultiAsset:     {Kind: BenchmarkIndex, Symbol: domain.IndexMSCIWorld, Description: "MSCI World index"},
		domain.BondFund:       {Kind: BenchmarkIndex, Symbol: domain.IndexGlobalBonds, Description: "Global aggregate bond index"},
	}
}

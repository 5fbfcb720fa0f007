// Package stress implements the deterministic stress-test engine: holding
// repricing under a shock, liquidity-driven early withdrawals, metric
// aggregation, insight generation and multi-scenario comparison.
package stress

import "github.com/aristath/reservestress/internal/domain"

// RiskProfile is the static risk description of one asset class
type RiskProfile struct {
	Volatility              float64 `json:"volatility"`
	BaselineLiquidityDays   int     `json:"liquidity_days"`
	InterestRateSensitivity float64 `json:"interest_rate_sensitivity"` // multiplier in [0, 1.5]
}

// ProfileTable maps asset classes to their risk profile.
// A table is never mutated once handed to an Evaluator.
type ProfileTable map[domain.AssetClass]RiskProfile

// DefaultProfiles returns the built-in risk profile table
func DefaultProfiles() ProfileTable {
	return ProfileTable{
		domain.CashEquivalent: {Volatility: 0.001, BaselineLiquidityDays: 0, InterestRateSensitivity: 0.5},
		domain.TimeDeposit:    {Volatility: 0.005, BaselineLiquidityDays: 180, InterestRateSensitivity: 0.8},
		domain.MMF:            {Volatility: 0.02, BaselineLiquidityDays: 2, InterestRateSensitivity: 0.9},
		domain.BondFund:       {Volatility: 0.08, BaselineLiquidityDays: 5, InterestRateSensitivity: 1.2},
		domain.MultiAsset:     {Volatility: 0.15, BaselineLiquidityDays: 30, InterestRateSensitivity: 0.3},
	}
}

// Lookup returns the profile of an asset class
func (t ProfileTable) Lookup(class domain.AssetClass) (RiskProfile, bool) {
	p, ok := t[class]
	return p, ok
}

const (
	// LiquidWindowDays is the longest liquidity period still counted as available cash
	LiquidWindowDays = 30
	// BondMarketStressShare is the fraction of the multi-asset drawdown borne by bond funds
	BondMarketStressShare = 0.3
	// StrongCoverageRatio is the coverage above which a strength insight is emitted
	StrongCoverageRatio = 1.5
	// ConcentrationPct is the breakdown percentage above which a class is concentrated
	ConcentrationPct = 50.0
)

// Config is the immutable configuration of an evaluation
type Config struct {
	AnnualOpex                float64      `json:"annual_opex_requirement"`
	ReserveMonthsRequired     float64      `json:"reserve_months_required"`
	VolatilityBreachThreshold float64      `json:"volatility_breach_threshold"`
	LiquidityBreachDays       float64      `json:"liquidity_breach_days"`
	Profiles                  ProfileTable `json:"asset_risk_profiles"`
}

// DefaultConfig returns the configuration the service ships with
func DefaultConfig() Config {
	return Config{
		AnnualOpex:                2_400_000,
		ReserveMonthsRequired:     12,
		VolatilityBreachThreshold: 0.20,
		LiquidityBreachDays:       90,
		Profiles:                  DefaultProfiles(),
	}
}

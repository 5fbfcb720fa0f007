package stress

import "github.com/aristath/reservestress/internal/domain"

// AssetBreakdown is the post-stress weight of one asset class
type AssetBreakdown struct {
	AssetClass domain.AssetClass `json:"asset_class"`
	Amount     float64           `json:"amount"`
	Percentage float64           `json:"percentage"` // 0..100 of the stressed total
	Count      int               `json:"count"`
}

// Result holds every metric of one evaluation
type Result struct {
	OriginalValue         float64          `json:"original_portfolio_value"`
	StressedValue         float64          `json:"stressed_portfolio_value"`
	DeclinePct            float64          `json:"portfolio_decline_pct"`
	ReserveCoverageRatio  float64          `json:"reserve_coverage_ratio"`
	ReserveMonthsCovered  float64          `json:"reserve_months_covered"`
	MaxDrawdownPct        float64          `json:"max_drawdown_pct"`
	TimeToLiquidityDays   float64          `json:"time_to_liquidity_days"`
	VolatilityBreach      bool             `json:"volatility_breach_flag"`
	LiquidityBreach       bool             `json:"liquidity_breach_flag"`
	AnnualOpexRequirement float64          `json:"annual_opex_requirement"`
	AssetBreakdown        []AssetBreakdown `json:"asset_breakdown"` // ordered by first appearance
	StressedHoldings      domain.Portfolio `json:"stressed_holdings"`
	Withdrawals           []Withdrawal     `json:"early_withdrawals,omitempty"`
	Parameters            Parameters       `json:"stress_parameters"`
	Insights              []Insight        `json:"insights"`
}

// Breakdown returns the breakdown entry of a class
func (r Result) Breakdown(class domain.AssetClass) (AssetBreakdown, bool) {
	for _, b := range r.AssetBreakdown {
		if b.AssetClass == class {
			return b, true
		}
	}
	return AssetBreakdown{}, false
}

// Aggregate reduces the original and stressed portfolios into headline
// metrics. It is a pure function of its inputs; ratios over a zero
// denominator resolve to 0.
func Aggregate(original, stressed domain.Portfolio, params Parameters, cfg Config) Result {
	originalValue := original.TotalValue()
	stressedValue := stressed.TotalValue()

	decline := 0.0
	if originalValue != 0 {
		decline = (originalValue - stressedValue) / originalValue
	}

	coverage := 0.0
	if cfg.AnnualOpex != 0 {
		coverage = stressedValue / cfg.AnnualOpex
	}

	ttl := TimeToLiquidity(stressed, params.RedemptionFreezeDays)

	return Result{
		OriginalValue:         originalValue,
		StressedValue:         stressedValue,
		DeclinePct:            decline,
		ReserveCoverageRatio:  coverage,
		ReserveMonthsCovered:  coverage * cfg.ReserveMonthsRequired,
		MaxDrawdownPct:        decline,
		TimeToLiquidityDays:   ttl,
		VolatilityBreach:      decline > cfg.VolatilityBreachThreshold,
		LiquidityBreach:       ttl > cfg.LiquidityBreachDays,
		AnnualOpexRequirement: cfg.AnnualOpex,
		AssetBreakdown:        Breakdown(stressed),
		StressedHoldings:      stressed,
		Parameters:            params,
	}
}

// TimeToLiquidity is the stressed-value-weighted average liquidity period.
// Fund-type holdings carry the redemption freeze on top of their own period.
// An empty or zero-value portfolio yields 0.
func TimeToLiquidity(stressed domain.Portfolio, freezeDays int) float64 {
	total := stressed.TotalValue()
	if total == 0 {
		return 0
	}

	weighted := 0.0
	for _, h := range stressed {
		days := float64(h.LiquidityDays)
		if isFund(h.AssetClass) {
			days += float64(freezeDays)
		}
		weighted += h.Amount / total * days
	}
	return weighted
}

func isFund(class domain.AssetClass) bool {
	switch class {
	case domain.MMF, domain.MultiAsset, domain.BondFund:
		return true
	}
	return false
}

// Breakdown groups the stressed holdings by asset class
func Breakdown(stressed domain.Portfolio) []AssetBreakdown {
	total := stressed.TotalValue()

	index := make(map[domain.AssetClass]int)
	var out []AssetBreakdown
	for _, h := range stressed {
		i, ok := index[h.AssetClass]
		if !ok {
			i = len(out)
			index[h.AssetClass] = i
			out = append(out, AssetBreakdown{AssetClass: h.AssetClass})
		}
		out[i].Amount += h.Amount
		out[i].Count++
	}

	for i := range out {
		if total > 0 {
			out[i].Percentage = out[i].Amount / total * 100
		}
	}
	return out
}

package stress

import (
	"math"
	"sort"

	"github.com/aristath/reservestress/internal/domain"
)

// Withdrawal records one time deposit broken early to cover a liquidity gap
type Withdrawal struct {
	Index         int     `json:"index"` // position of the holding in the portfolio
	LiquidityDays int     `json:"liquidity_days"`
	Withdrawn     float64 `json:"withdrawn"`
	Penalty       float64 `json:"penalty"`
}

// Apply runs both stress passes: mark-to-market repricing, then early
// withdrawals against the annual opex requirement. The input is not modified.
func Apply(holdings domain.Portfolio, params Parameters, cfg Config) (domain.Portfolio, []Withdrawal) {
	repriced := Reprice(holdings, params, cfg.Profiles)
	return ResolveEarlyWithdrawals(repriced, params, cfg.AnnualOpex)
}

// Reprice applies the rate, market and counterparty shocks to every holding
// and returns a new portfolio. Holdings whose class has no profile pass
// through unchanged.
func Reprice(holdings domain.Portfolio, params Parameters, profiles ProfileTable) domain.Portfolio {
	out := make(domain.Portfolio, len(holdings))
	for i, h := range holdings {
		out[i] = repriceHolding(h, params, profiles)
	}
	return out
}

func repriceHolding(h domain.Holding, params Parameters, profiles ProfileTable) domain.Holding {
	profile, ok := profiles.Lookup(h.AssetClass)
	if !ok {
		return h
	}

	amount := h.Amount
	switch h.AssetClass {
	case domain.CashEquivalent, domain.MMF, domain.TimeDeposit:
		amount *= 1 + params.InterestRateShock*profile.InterestRateSensitivity
	case domain.MultiAsset:
		amount *= 1 + params.MultiAssetDrawdown
	case domain.BondFund:
		// bond prices move inversely to rates
		rateImpact := -params.InterestRateShock * profile.InterestRateSensitivity
		marketStress := params.MultiAssetDrawdown * BondMarketStressShare
		amount *= 1 + rateImpact + marketStress
	}

	amount *= 1 - params.CounterpartyRisk

	h.Amount = math.Max(0, amount)
	return h
}

// AvailableLiquidity sums holdings that are cash-like or convertible within
// LiquidWindowDays.
func AvailableLiquidity(holdings domain.Portfolio) float64 {
	total := 0.0
	for _, h := range holdings {
		if isLiquid(h) {
			total += h.Amount
		}
	}
	return total
}

func isLiquid(h domain.Holding) bool {
	switch h.AssetClass {
	case domain.CashEquivalent, domain.MMF:
		return true
	}
	return h.LiquidityDays <= LiquidWindowDays
}

// ResolveEarlyWithdrawals covers the gap between requiredLiquidity and the
// available liquidity by breaking time deposits early, shortest term first.
// Only the deposits actually broken are penalised, and only on the amount
// withdrawn. The input is not modified.
func ResolveEarlyWithdrawals(holdings domain.Portfolio, params Parameters, requiredLiquidity float64) (domain.Portfolio, []Withdrawal) {
	out := holdings.Clone()

	gap := math.Max(0, requiredLiquidity-AvailableLiquidity(holdings))
	if gap <= 0 || params.EarlyWithdrawalPenalty >= 0 {
		return out, nil
	}

	var eligible []int
	for i, h := range out {
		if h.AssetClass == domain.TimeDeposit && h.LiquidityDays > LiquidWindowDays {
			eligible = append(eligible, i)
		}
	}
	sort.SliceStable(eligible, func(a, b int) bool {
		return out[eligible[a]].LiquidityDays < out[eligible[b]].LiquidityDays
	})

	rate := math.Abs(params.EarlyWithdrawalPenalty)
	remaining := gap
	var withdrawals []Withdrawal
	for _, i := range eligible {
		if remaining <= 0 {
			break
		}
		withdrawn := math.Min(out[i].Amount, remaining)
		if withdrawn <= 0 {
			continue
		}
		penalty := withdrawn * rate
		out[i].Amount = math.Max(0, out[i].Amount-penalty)
		remaining -= withdrawn

		withdrawals = append(withdrawals, Withdrawal{
			Index:         i,
			LiquidityDays: out[i].LiquidityDays,
			Withdrawn:     withdrawn,
			Penalty:       penalty,
		})
	}

	return out, withdrawals
}

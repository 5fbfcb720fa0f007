package stress

import (
	"bytes"
	"math"
	"testing"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/internal/evaluation/workers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator(cfg Config) *Evaluator {
	return NewEvaluator(cfg, workers.NewWorkerPool(4), zerolog.Nop())
}

func TestEvaluate_WorkedExample(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnnualOpex = 1_000_000
	e := newTestEvaluator(cfg)

	params := Parameters{MultiAssetDrawdown: -0.20, EarlyWithdrawalPenalty: -0.01}
	r := e.Evaluate(examplePortfolio(), params)

	// Multi_Asset 300,000 -> 240,000; Bond_Fund carries 30% of the drawdown -> 94,000.
	// Available liquidity: cash 100,000 + MMF 200,000 + Multi_Asset 240,000 (30d boundary)
	// + Bond_Fund 94,000 (5d) = 634,000, so the gap is 366,000.
	// The 180-day deposit is broken for 366,000 at 1%: 500,000 - 3,660 = 496,340.
	require.Len(t, r.StressedHoldings, 5)
	assert.InDelta(t, 100_000, r.StressedHoldings[0].Amount, 1e-6)
	assert.InDelta(t, 496_340, r.StressedHoldings[1].Amount, 1e-6)
	assert.InDelta(t, 200_000, r.StressedHoldings[2].Amount, 1e-6)
	assert.InDelta(t, 240_000, r.StressedHoldings[3].Amount, 1e-6)
	assert.InDelta(t, 94_000, r.StressedHoldings[4].Amount, 1e-6)

	require.Len(t, r.Withdrawals, 1)
	assert.InDelta(t, 366_000, r.Withdrawals[0].Withdrawn, 1e-6)
	assert.InDelta(t, 3_660, r.Withdrawals[0].Penalty, 1e-6)

	assert.InDelta(t, 1_200_000, r.OriginalValue, 1e-6)
	assert.InDelta(t, 1_130_340, r.StressedValue, 1e-6)
	assert.InDelta(t, 69_660.0/1_200_000, r.DeclinePct, 1e-12)
	assert.Equal(t, r.DeclinePct, r.MaxDrawdownPct)
	assert.False(t, r.VolatilityBreach)

	assert.InDelta(t, 1.13034, r.ReserveCoverageRatio, 1e-9)
	assert.InDelta(t, 1.13034*12, r.ReserveMonthsCovered, 1e-9)

	expectedTTL := (496_340*180 + 200_000*2 + 240_000*30 + 94_000*5) / 1_130_340.0
	assert.InDelta(t, expectedTTL, r.TimeToLiquidityDays, 1e-9)
	assert.False(t, r.LiquidityBreach)

	require.Len(t, r.Insights, 1)
	assert.Equal(t, InsightResilience, r.Insights[0].Kind)
	assert.Equal(t, params, r.Parameters)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newTestEvaluator(DefaultConfig())
	params := PresetScenarios()[2].Parameters

	first := e.Evaluate(examplePortfolio(), params)
	second := e.Evaluate(examplePortfolio(), params)

	assert.Equal(t, first, second)
}

func TestEvaluate_DoesNotMutatePortfolio(t *testing.T) {
	e := newTestEvaluator(DefaultConfig())
	portfolio := examplePortfolio()
	before := portfolio.Clone()

	_ = e.Evaluate(portfolio, PresetScenarios()[2].Parameters)

	assert.Equal(t, before, portfolio)
}

func TestEvaluate_IdentityScenarioHasZeroDecline(t *testing.T) {
	e := newTestEvaluator(DefaultConfig())

	r := e.Evaluate(examplePortfolio(), Parameters{})

	assert.Equal(t, r.OriginalValue, r.StressedValue)
	assert.Equal(t, 0.0, r.DeclinePct)
	assert.Equal(t, examplePortfolio(), r.StressedHoldings)
}

func TestEvaluate_InflationSpikeIsNotPriced(t *testing.T) {
	e := newTestEvaluator(DefaultConfig())
	low := Parameters{MultiAssetDrawdown: -0.2, InflationSpike: 0.02}
	high := Parameters{MultiAssetDrawdown: -0.2, InflationSpike: 0.08}

	a := e.Evaluate(examplePortfolio(), low)
	b := e.Evaluate(examplePortfolio(), high)

	assert.Equal(t, a.StressedValue, b.StressedValue)
	assert.Equal(t, 0.08, b.Parameters.InflationSpike)
}

func TestEvaluate_ZeroValuePortfolio(t *testing.T) {
	e := newTestEvaluator(DefaultConfig())

	for name, portfolio := range map[string]domain.Portfolio{
		"empty":      {},
		"zero value": {{AssetClass: domain.MMF, Amount: 0, LiquidityDays: 2}},
	} {
		t.Run(name, func(t *testing.T) {
			r := e.Evaluate(portfolio, PresetScenarios()[2].Parameters)

			for _, v := range []float64{r.DeclinePct, r.ReserveCoverageRatio, r.TimeToLiquidityDays, r.ReserveMonthsCovered} {
				assert.False(t, math.IsNaN(v))
				assert.False(t, math.IsInf(v, 0))
				assert.Equal(t, 0.0, v)
			}
			for _, b := range r.AssetBreakdown {
				assert.Equal(t, 0.0, b.Percentage)
			}
			assert.False(t, r.VolatilityBreach)
			assert.False(t, r.LiquidityBreach)
		})
	}
}

func TestEvaluate_CoverageExactlyOneSetsNoFlag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnnualOpex = 1_000_000
	e := newTestEvaluator(cfg)

	r := e.Evaluate(domain.Portfolio{{AssetClass: domain.CashEquivalent, Amount: 1_000_000}}, Parameters{})

	assert.Equal(t, 1.0, r.ReserveCoverageRatio)
	assert.False(t, r.VolatilityBreach)
	assert.False(t, r.LiquidityBreach)
	for _, in := range r.Insights {
		assert.NotEqual(t, InsightReserveShortfall, in.Kind)
		assert.NotEqual(t, InsightReserveStrength, in.Kind)
	}
}

func TestEvaluate_UnprofiledClassIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profiles = ProfileTable{domain.CashEquivalent: DefaultProfiles()[domain.CashEquivalent]}
	e := newTestEvaluator(cfg)

	r := e.Evaluate(examplePortfolio(), Parameters{MultiAssetDrawdown: -0.5, CounterpartyRisk: 0.5})

	assert.InDelta(t, 50_000, r.StressedHoldings[0].Amount, 1e-9)
	assert.InDelta(t, 300_000, r.StressedHoldings[3].Amount, 1e-9)
}

func TestEvaluate_WarnsAboutUnprofiledClasses(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	delete(cfg.Profiles, domain.TimeDeposit)
	e := NewEvaluator(cfg, nil, zerolog.New(&buf))

	e.Evaluate(domain.Portfolio{
		{AssetClass: domain.TimeDeposit, Amount: 100, LiquidityDays: 90},
		{AssetClass: "Crypto", Amount: 100},
		{AssetClass: domain.MMF, Amount: 100, LiquidityDays: 1},
	}, DefaultParameters())

	logs := buf.String()
	assert.Contains(t, logs, `"asset_class":"Time_Deposit","message":"Risk profile removed from configuration`)
	assert.Contains(t, logs, `"asset_class":"Crypto","message":"Unknown asset class`)
	assert.NotContains(t, logs, `"asset_class":"MMF"`)
}

func TestEvaluate_VolatilityAndLiquidityBreaches(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnnualOpex = 100_000
	e := newTestEvaluator(cfg)

	portfolio := domain.Portfolio{
		{AssetClass: domain.MultiAsset, Amount: 800_000, LiquidityDays: 200},
		{AssetClass: domain.CashEquivalent, Amount: 200_000, LiquidityDays: 0},
	}
	r := e.Evaluate(portfolio, Parameters{MultiAssetDrawdown: -0.5, RedemptionFreezeDays: 10})

	assert.InDelta(t, 0.4, r.DeclinePct, 1e-12)
	assert.True(t, r.VolatilityBreach)
	// 400,000 at 210 days and 200,000 at 0 days
	assert.InDelta(t, 400_000.0/600_000*210, r.TimeToLiquidityDays, 1e-9)
	assert.True(t, r.LiquidityBreach)
}

func TestEvaluateScenarios_PreservesOrder(t *testing.T) {
	e := newTestEvaluator(DefaultConfig())
	set := DefaultScenarioSet(DefaultParameters())

	results := e.EvaluateScenarios(examplePortfolio(), set)

	require.Len(t, results, len(set))
	for i, sr := range results {
		assert.Equal(t, set[i].Name, sr.Name)
		assert.Equal(t, set[i].Parameters, sr.Result.Parameters)
		assert.Equal(t, e.Evaluate(examplePortfolio(), set[i].Parameters), sr.Result)
	}
	assert.Equal(t, CurrentScenarioName, results[0].Name)
}

func TestEvaluateScenarios_SequentialMatchesParallel(t *testing.T) {
	parallel := newTestEvaluator(DefaultConfig())
	sequential := NewEvaluator(DefaultConfig(), nil, zerolog.Nop())
	set := PresetScenarios()

	assert.Equal(t,
		sequential.EvaluateScenarios(examplePortfolio(), set),
		parallel.EvaluateScenarios(examplePortfolio(), set))
}

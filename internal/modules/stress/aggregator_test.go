package stress

import (
	"testing"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown_GroupsInFirstAppearanceOrder(t *testing.T) {
	stressed := domain.Portfolio{
		{AssetClass: domain.MMF, Amount: 100},
		{AssetClass: domain.TimeDeposit, Amount: 200},
		{AssetClass: domain.MMF, Amount: 300},
		{AssetClass: "Gold", Amount: 400},
	}

	out := Breakdown(stressed)

	require.Len(t, out, 3)
	assert.Equal(t, domain.MMF, out[0].AssetClass)
	assert.Equal(t, 400.0, out[0].Amount)
	assert.Equal(t, 2, out[0].Count)
	assert.InDelta(t, 40, out[0].Percentage, 1e-9)
	assert.Equal(t, domain.TimeDeposit, out[1].AssetClass)
	assert.InDelta(t, 20, out[1].Percentage, 1e-9)
	assert.Equal(t, domain.AssetClass("Gold"), out[2].AssetClass)

	total := 0.0
	for _, b := range out {
		total += b.Percentage
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestTimeToLiquidity(t *testing.T) {
	tests := []struct {
		name     string
		holdings domain.Portfolio
		freeze   int
		expected float64
	}{
		{name: "empty", expected: 0},
		{name: "zero value", holdings: domain.Portfolio{{AssetClass: domain.TimeDeposit, LiquidityDays: 365}}, expected: 0},
		{
			name: "weighted by amount",
			holdings: domain.Portfolio{
				{AssetClass: domain.CashEquivalent, Amount: 300, LiquidityDays: 0},
				{AssetClass: domain.TimeDeposit, Amount: 100, LiquidityDays: 180},
			},
			expected: 45,
		},
		{
			name: "freeze applies to funds only",
			holdings: domain.Portfolio{
				{AssetClass: domain.CashEquivalent, Amount: 100, LiquidityDays: 0},
				{AssetClass: domain.TimeDeposit, Amount: 100, LiquidityDays: 10},
				{AssetClass: domain.MMF, Amount: 100, LiquidityDays: 2},
				{AssetClass: domain.BondFund, Amount: 100, LiquidityDays: 5},
			},
			freeze:   20,
			expected: (0 + 10 + 22 + 25) / 4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TimeToLiquidity(tt.holdings, tt.freeze), 1e-9)
		})
	}
}

func TestAggregate_Thresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnnualOpex = 1000
	original := domain.Portfolio{{AssetClass: domain.CashEquivalent, Amount: 1000}}

	t.Run("decline at threshold is not a breach", func(t *testing.T) {
		stressed := domain.Portfolio{{AssetClass: domain.CashEquivalent, Amount: 800}}
		r := Aggregate(original, stressed, Parameters{}, cfg)
		assert.InDelta(t, 0.2, r.DeclinePct, 1e-12)
		assert.False(t, r.VolatilityBreach)
	})

	t.Run("gains give negative decline", func(t *testing.T) {
		stressed := domain.Portfolio{{AssetClass: domain.CashEquivalent, Amount: 1100}}
		r := Aggregate(original, stressed, Parameters{}, cfg)
		assert.InDelta(t, -0.1, r.DeclinePct, 1e-12)
		assert.InDelta(t, 1.1, r.ReserveCoverageRatio, 1e-12)
		assert.InDelta(t, 13.2, r.ReserveMonthsCovered, 1e-9)
	})

	t.Run("zero opex", func(t *testing.T) {
		zero := cfg
		zero.AnnualOpex = 0
		r := Aggregate(original, original, Parameters{}, zero)
		assert.Equal(t, 0.0, r.ReserveCoverageRatio)
		assert.Equal(t, 0.0, r.ReserveMonthsCovered)
	})
}

func TestResult_Breakdown(t *testing.T) {
	r := Aggregate(examplePortfolio(), examplePortfolio(), Parameters{}, DefaultConfig())

	b, ok := r.Breakdown(domain.TimeDeposit)
	require.True(t, ok)
	assert.Equal(t, 500_000.0, b.Amount)

	_, ok = r.Breakdown("Crypto")
	assert.False(t, ok)
}

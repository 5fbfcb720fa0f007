package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateReturns(t *testing.T) {
	assert.Empty(t, CalculateReturns(nil))
	assert.Empty(t, CalculateReturns([]float64{100}))

	returns := CalculateReturns([]float64{100, 110, 99, 0, 50})
	require.Len(t, returns, 4)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)
	assert.InDelta(t, -1.0, returns[2], 1e-12)
	assert.Equal(t, 0.0, returns[3], "zero price must not divide")
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(nil))
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{0.01}))

	flat := []float64{0.01, 0.01, 0.01}
	assert.InDelta(t, 0.0, AnnualizedVolatility(flat), 1e-12)

	vol := AnnualizedVolatility([]float64{0.01, -0.01})
	assert.InDelta(t, StdDev([]float64{0.01, -0.01})*math.Sqrt(252), vol, 1e-12)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	assert.Nil(t, CalculateMaxDrawdown([]float64{100}))

	dd := CalculateMaxDrawdown([]float64{100, 120, 90, 110, 60, 130})
	require.NotNil(t, dd)
	assert.InDelta(t, 0.5, *dd, 1e-12)

	rising := CalculateMaxDrawdown([]float64{1, 2, 3})
	require.NotNil(t, rising)
	assert.Equal(t, 0.0, *rising)
}

func TestAnnualizeReturn(t *testing.T) {
	assert.InDelta(t, 0.10, AnnualizeReturn(0.21, 2), 1e-12)
	assert.Equal(t, 0.0, AnnualizeReturn(0.5, 0))
	assert.Equal(t, 0.0, AnnualizeReturn(-1, 1))
}

func TestTotalReturn(t *testing.T) {
	assert.InDelta(t, 0.25, TotalReturn(80, 100), 1e-12)
	assert.Equal(t, 0.0, TotalReturn(0, 100))
}

func TestSharpeRatio(t *testing.T) {
	assert.InDelta(t, 0.5, SharpeRatio(0.125, 0.2, 0.025), 1e-12)
	assert.Equal(t, 0.0, SharpeRatio(0.1, 0, 0.025))
}

func TestRatesToCumulativeIndex(t *testing.T) {
	assert.Empty(t, RatesToCumulativeIndex(nil))

	index := RatesToCumulativeIndex([]float64{0.0365, 0.0365, 0.073})
	require.Len(t, index, 3)
	assert.Equal(t, 1.0, index[0])
	assert.InDelta(t, 1.0001, index[1], 1e-12)
	assert.InDelta(t, 1.0001*1.0002, index[2], 1e-12)
}

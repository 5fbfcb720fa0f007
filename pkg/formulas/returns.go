package formulas

import "math"

// TotalReturn is the simple return between two prices, 0 when start is not positive
func TotalReturn(start, end float64) float64 {
	if start <= 0 {
		return 0
	}
	return end/start - 1
}

// AnnualizeReturn converts a total return earned over years into a compound annual rate.
// Non-positive horizons yield 0.
func AnnualizeReturn(totalReturn, years float64) float64 {
	if years <= 0 || totalReturn <= -1 {
		return 0
	}
	return math.Pow(1+totalReturn, 1/years) - 1
}

// SharpeRatio is the excess return per unit of volatility, 0 when volatility is 0
func SharpeRatio(annualReturn, volatility, riskFreeRate float64) float64 {
	if volatility == 0 {
		return 0
	}
	return (annualReturn - riskFreeRate) / volatility
}

// RatesToCumulativeIndex turns a series of annual interest rates into a
// cumulative index starting at 1.0, compounding rate/365 per observation.
// The first rate only anchors the index.
func RatesToCumulativeIndex(rates []float64) []float64 {
	if len(rates) == 0 {
		return []float64{}
	}

	index := make([]float64, len(rates))
	index[0] = 1.0
	for i := 1; i < len(rates); i++ {
		index[i] = index[i-1] * (1 + rates[i]/365)
	}
	return index
}

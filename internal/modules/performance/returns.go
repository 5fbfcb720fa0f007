package performance

import (
	"time"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/pkg/formulas"
)

// Period is a return horizon
type Period string

const (
	Period1Y  Period = "1Y"
	Period3Y  Period = "3Y"
	Period5Y  Period = "5Y"
	PeriodITD Period = "ITD" // inception to date
)

// Periods lists every reported horizon in display order
var Periods = []Period{Period1Y, Period3Y, Period5Y, PeriodITD}

const daysPerYear = 365.25

// coverageSlack tolerates a series starting a few days after a period
// boundary because of weekends and holidays
const coverageSlack = 7 * 24 * time.Hour

func (p Period) years() float64 {
	switch p {
	case Period1Y:
		return 1
	case Period3Y:
		return 3
	case Period5Y:
		return 5
	}
	return 0
}

// TimeWeightedReturns annualises the series' return over each period.
// A period the series does not reach back to reports 0. The series must
// be sorted by date.
func TimeWeightedReturns(series []domain.PricePoint) map[Period]float64 {
	out := make(map[Period]float64, len(Periods))
	for _, p := range Periods {
		out[p] = 0
	}
	if len(series) < 2 {
		return out
	}

	first, last := series[0], series[len(series)-1]
	for _, p := range Periods {
		if p == PeriodITD {
			years := last.Date.Sub(first.Date).Hours() / 24 / daysPerYear
			out[p] = formulas.AnnualizeReturn(formulas.TotalReturn(first.Value, last.Value), years)
			continue
		}

		start := last.Date.AddDate(0, 0, -int(p.years()*daysPerYear))
		if first.Date.After(start.Add(coverageSlack)) {
			continue
		}
		for _, pt := range series {
			if !pt.Date.Before(start) {
				out[p] = formulas.AnnualizeReturn(formulas.TotalReturn(pt.Value, last.Value), p.years())
				break
			}
		}
	}
	return out
}

// rateIndex compounds a daily rate series into an index starting at 1.0
func rateIndex(points []domain.RatePoint, pick func(domain.RatePoint) float64) []domain.PricePoint {
	rates := make([]float64, len(points))
	for i, p := range points {
		rates[i] = pick(p)
	}
	index := formulas.RatesToCumulativeIndex(rates)

	out := make([]domain.PricePoint, len(points))
	for i, p := range points {
		out[i] = domain.PricePoint{Date: p.Date, Value: index[i]}
	}
	return out
}

func values(series []domain.PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Value
	}
	return out
}

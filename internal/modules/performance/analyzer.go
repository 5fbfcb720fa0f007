package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/pkg/formulas"
	"github.com/rs/zerolog"
)

// HistorySource supplies stored benchmark series
type HistorySource interface {
	IndexSeries(ctx context.Context, symbol string, since time.Time) ([]domain.PricePoint, error)
	RateSeries(ctx context.Context, since time.Time) ([]domain.RatePoint, error)
}

// ClassPerformance is the benchmark performance attributed to one asset class
type ClassPerformance struct {
	AssetClass   domain.AssetClass  `json:"asset_class"`
	Benchmark    Benchmark          `json:"benchmark"`
	Weight       float64            `json:"weight"`
	Amount       float64            `json:"amount"`
	Returns      map[Period]float64 `json:"returns"`
	Volatility   float64            `json:"volatility"`
	MaxDrawdown  float64            `json:"max_drawdown"` // negative fraction
	SharpeRatios map[Period]float64 `json:"sharpe_ratios"`
	Observations int                `json:"observations"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      time.Time          `json:"end_date"`
}

// Summary is the allocation-weighted view over every measured class.
// Correlation between classes is ignored.
type Summary struct {
	Returns      map[Period]float64 `json:"returns"`
	Volatility   float64            `json:"volatility"`
	MaxDrawdown  float64            `json:"max_drawdown"`
	SharpeRatios map[Period]float64 `json:"sharpe_ratios"`
}

// Report is the outcome of one analysis
type Report struct {
	AnalysisDate time.Time           `json:"analysis_date"`
	RiskFreeRate float64             `json:"risk_free_rate"`
	AssetClasses []ClassPerformance  `json:"asset_classes"`
	Summary      *Summary            `json:"portfolio_summary,omitempty"`
	Skipped      []domain.AssetClass `json:"skipped,omitempty"` // no benchmark or no history
}

// Analyzer computes performance reports for a portfolio
type Analyzer struct {
	history      HistorySource
	benchmarks   map[domain.AssetClass]Benchmark
	riskFreeRate float64
	now          func() time.Time
	log          zerolog.Logger
}

// NewAnalyzer creates a new analyzer using DefaultBenchmarks
func NewAnalyzer(history HistorySource, riskFreeRate float64, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		history:      history,
		benchmarks:   DefaultBenchmarks(),
		riskFreeRate: riskFreeRate,
		now:          time.Now,
		log:          log.With().Str("component", "performance_analyzer").Logger(),
	}
}

// Analyze measures every asset class present in the portfolio against its
// benchmark. Classes without a benchmark or without history are skipped.
func (a *Analyzer) Analyze(ctx context.Context, portfolio domain.Portfolio) (*Report, error) {
	amounts, order := groupByClass(portfolio)
	total := portfolio.TotalValue()

	report := &Report{
		AnalysisDate: a.now().UTC(),
		RiskFreeRate: a.riskFreeRate,
		AssetClasses: []ClassPerformance{},
	}

	for _, class := range order {
		benchmark, ok := a.benchmarks[class]
		if !ok {
			a.log.Warn().Str("asset_class", string(class)).Msg("No benchmark for asset class")
			report.Skipped = append(report.Skipped, class)
			continue
		}

		series, err := a.series(ctx, benchmark)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s benchmark: %w", class, err)
		}
		if len(series) < 2 {
			a.log.Warn().Str("asset_class", string(class)).Str("benchmark", benchmark.Symbol).Msg("No history available")
			report.Skipped = append(report.Skipped, class)
			continue
		}

		weight := 0.0
		if total > 0 {
			weight = amounts[class] / total
		}
		report.AssetClasses = append(report.AssetClasses, a.measure(class, benchmark, weight, amounts[class], series))
	}

	if len(report.AssetClasses) > 0 {
		report.Summary = a.summarize(report.AssetClasses)
	}
	return report, nil
}

func (a *Analyzer) series(ctx context.Context, b Benchmark) ([]domain.PricePoint, error) {
	var epoch time.Time
	if b.Kind == BenchmarkIndex {
		return a.history.IndexSeries(ctx, b.Symbol, epoch)
	}

	rates, err := a.history.RateSeries(ctx, epoch)
	if err != nil {
		return nil, err
	}
	pick := func(p domain.RatePoint) float64 { return p.SORA }
	if b.Symbol == RateFD {
		pick = func(p domain.RatePoint) float64 { return p.FD }
	}
	return rateIndex(rates, pick), nil
}

func (a *Analyzer) measure(class domain.AssetClass, b Benchmark, weight, amount float64, series []domain.PricePoint) ClassPerformance {
	prices := values(series)

	perf := ClassPerformance{
		AssetClass:   class,
		Benchmark:    b,
		Weight:       weight,
		Amount:       amount,
		Returns:      TimeWeightedReturns(series),
		Volatility:   formulas.CalculateVolatility(prices),
		Observations: len(series),
		StartDate:    series[0].Date,
		EndDate:      series[len(series)-1].Date,
	}
	if dd := formulas.CalculateMaxDrawdown(prices); dd != nil {
		perf.MaxDrawdown = -*dd
	}
	perf.SharpeRatios = a.sharpeRatios(perf.Returns, perf.Volatility)
	return perf
}

func (a *Analyzer) summarize(classes []ClassPerformance) *Summary {
	s := &Summary{Returns: make(map[Period]float64, len(Periods))}
	for _, p := range Periods {
		s.Returns[p] = 0
	}
	for _, c := range classes {
		for _, p := range Periods {
			s.Returns[p] += c.Weight * c.Returns[p]
		}
		s.Volatility += c.Weight * c.Volatility
		s.MaxDrawdown += c.Weight * c.MaxDrawdown
	}
	s.SharpeRatios = a.sharpeRatios(s.Returns, s.Volatility)
	return s
}

func (a *Analyzer) sharpeRatios(returns map[Period]float64, volatility float64) map[Period]float64 {
	out := make(map[Period]float64, len(returns))
	for p, r := range returns {
		out[p] = formulas.SharpeRatio(r, volatility, a.riskFreeRate)
	}
	return out
}

// groupByClass sums amounts per class, keeping first-appearance order
func groupByClass(portfolio domain.Portfolio) (map[domain.AssetClass]float64, []domain.AssetClass) {
	amounts := make(map[domain.AssetClass]float64)
	var order []domain.AssetClass
	for _, h := range portfolio {
		if _, seen := amounts[h.AssetClass]; !seen {
			order = append(order, h.AssetClass)
		}
		amounts[h.AssetClass] += h.Amount
	}
	return amounts, order
}


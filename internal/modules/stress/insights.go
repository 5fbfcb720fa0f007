package stress

import "fmt"

// InsightKind identifies the rule that produced an insight
type InsightKind string

const (
	InsightReserveShortfall InsightKind = "reserve_shortfall"
	InsightReserveStrength  InsightKind = "reserve_strength"
	InsightVolatilityBreach InsightKind = "volatility_breach"
	InsightLiquidityBreach  InsightKind = "liquidity_breach"
	InsightConcentration    InsightKind = "concentration"
	InsightResilience       InsightKind = "resilience"
)

// Severity grades an insight for display
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeverityPositive Severity = "positive"
)

// Insight is one human-readable finding
type Insight struct {
	Kind     InsightKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

// GenerateInsights evaluates the fixed rule list in order
func GenerateInsights(r Result, cfg Config) []Insight {
	var insights []Insight

	if r.ReserveCoverageRatio < 1.0 {
		months := (1.0 - r.ReserveCoverageRatio) * cfg.ReserveMonthsRequired
		insights = append(insights, Insight{
			Kind:     InsightReserveShortfall,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Reserve shortfall: %.1f months below requirement under stress", months),
		})
	} else if r.ReserveCoverageRatio > StrongCoverageRatio {
		months := (r.ReserveCoverageRatio - 1.0) * cfg.ReserveMonthsRequired
		insights = append(insights, Insight{
			Kind:     InsightReserveStrength,
			Severity: SeverityPositive,
			Message:  fmt.Sprintf("Strong reserve position: %.1f months above requirement", months),
		})
	}

	if r.VolatilityBreach {
		insights = append(insights, Insight{
			Kind:     InsightVolatilityBreach,
			Severity: SeverityCritical,
			Message: fmt.Sprintf("High volatility risk: %.1f%% portfolio decline exceeds %.0f%% threshold",
				r.DeclinePct*100, cfg.VolatilityBreachThreshold*100),
		})
	}

	if r.LiquidityBreach {
		insights = append(insights, Insight{
			Kind:     InsightLiquidityBreach,
			Severity: SeverityCritical,
			Message: fmt.Sprintf("Liquidity concern: %.0f days to access funds exceeds %.0f day threshold",
				r.TimeToLiquidityDays, cfg.LiquidityBreachDays),
		})
	}

	for _, b := range r.AssetBreakdown {
		if b.Percentage > ConcentrationPct {
			insights = append(insights, Insight{
				Kind:     InsightConcentration,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("High concentration: %.1f%% in %s", b.Percentage, b.AssetClass),
			})
		}
	}

	if !r.VolatilityBreach && !r.LiquidityBreach {
		insights = append(insights, Insight{
			Kind:     InsightResilience,
			Severity: SeverityPositive,
			Message:  "Portfolio demonstrates resilience under current stress scenario",
		})
	}

	return insights
}

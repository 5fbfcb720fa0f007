package stress

// CurrentScenarioName names the caller-supplied scenario in a comparison
const CurrentScenarioName = "Current"

// Scenario is a named parameter set
type Scenario struct {
	Name       string     `json:"name"`
	Parameters Parameters `json:"parameters"`
}

// ScenarioSet is an ordered collection of scenarios.
// Order is preserved through evaluation for comparison tables.
type ScenarioSet []Scenario

// ScenarioResult pairs a scenario name with its evaluation
type ScenarioResult struct {
	Name   string `json:"name"`
	Result Result `json:"result"`
}

// Names returns the scenario names in order
func (s ScenarioSet) Names() []string {
	names := make([]string, len(s))
	for i, sc := range s {
		names[i] = sc.Name
	}
	return names
}

// Lookup finds a scenario by name
func (s ScenarioSet) Lookup(name string) (Parameters, bool) {
	for _, sc := range s {
		if sc.Name == name {
			return sc.Parameters, true
		}
	}
	return Parameters{}, false
}

// PresetScenarios returns the built-in historical and graded scenarios
func PresetScenarios() ScenarioSet {
	return ScenarioSet{
		{Name: "Conservative", Parameters: Parameters{
			InterestRateShock: -0.005, InflationSpike: 0.04, MultiAssetDrawdown: -0.15,
			RedemptionFreezeDays: 5, EarlyWithdrawalPenalty: -0.005, CounterpartyRisk: 0.0,
		}},
		{Name: "Moderate Stress", Parameters: Parameters{
			InterestRateShock: -0.015, InflationSpike: 0.06, MultiAssetDrawdown: -0.25,
			RedemptionFreezeDays: 15, EarlyWithdrawalPenalty: -0.015, CounterpartyRisk: 0.0,
		}},
		{Name: "Severe Crisis", Parameters: Parameters{
			InterestRateShock: -0.02, InflationSpike: 0.08, MultiAssetDrawdown: -0.40,
			RedemptionFreezeDays: 30, EarlyWithdrawalPenalty: -0.025, CounterpartyRisk: 0.05,
		}},
		{Name: "2008 Financial Crisis", Parameters: Parameters{
			InterestRateShock: -0.02, InflationSpike: 0.035, MultiAssetDrawdown: -0.37,
			RedemptionFreezeDays: 21, EarlyWithdrawalPenalty: -0.02, CounterpartyRisk: 0.02,
		}},
		{Name: "COVID-19 Scenario", Parameters: Parameters{
			InterestRateShock: -0.015, InflationSpike: 0.02, MultiAssetDrawdown: -0.33,
			RedemptionFreezeDays: 14, EarlyWithdrawalPenalty: -0.01, CounterpartyRisk: 0.0,
		}},
	}
}

// DefaultScenarioSet puts the custom parameters first, followed by the presets
func DefaultScenarioSet(custom Parameters) ScenarioSet {
	return append(ScenarioSet{{Name: CurrentScenarioName, Parameters: custom}}, PresetScenarios()...)
}

// ComparisonRow is one line of a scenario comparison table
type ComparisonRow struct {
	Scenario             string  `json:"scenario"`
	StressedValue        float64 `json:"stressed_value"`
	DeclinePct           float64 `json:"decline_pct"`
	ReserveCoverageRatio float64 `json:"reserve_coverage_ratio"`
	TimeToLiquidityDays  float64 `json:"time_to_liquidity_days"`
	VolatilityBreach     bool    `json:"volatility_breach"`
	LiquidityBreach      bool    `json:"liquidity_breach"`
}

// Compare flattens scenario results into comparison rows, keeping order
func Compare(results []ScenarioResult) []ComparisonRow {
	rows := make([]ComparisonRow, len(results))
	for i, sr := range results {
		rows[i] = ComparisonRow{
			Scenario:             sr.Name,
			StressedValue:        sr.Result.StressedValue,
			DeclinePct:           sr.Result.DeclinePct,
			ReserveCoverageRatio: sr.Result.ReserveCoverageRatio,
			TimeToLiquidityDays:  sr.Result.TimeToLiquidityDays,
			VolatilityBreach:     sr.Result.VolatilityBreach,
			LiquidityBreach:      sr.Result.LiquidityBreach,
		}
	}
	return rows
}

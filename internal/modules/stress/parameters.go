package stress

import (
	"errors"
	"fmt"
)

// ErrParameterOutOfRange is wrapped by every RangeError
var ErrParameterOutOfRange = errors.New("stress parameter out of range")

// Parameters is one named bundle of shock controls.
//
// InflationSpike is carried through to results and reports only; no holding
// is repriced by it.
type Parameters struct {
	InterestRateShock      float64 `json:"interest_rate_shock"`
	InflationSpike         float64 `json:"inflation_spike"`
	MultiAssetDrawdown     float64 `json:"multi_asset_drawdown"`
	RedemptionFreezeDays   int     `json:"redemption_freeze_days"`
	EarlyWithdrawalPenalty float64 `json:"early_withdrawal_penalty"`
	CounterpartyRisk       float64 `json:"counterparty_risk"`
}

// Range declares the valid domain of one parameter
type Range struct {
	Name    string  `json:"name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// Parameter names
const (
	ParamInterestRateShock      = "interest_rate_shock"
	ParamInflationSpike         = "inflation_spike"
	ParamMultiAssetDrawdown     = "multi_asset_drawdown"
	ParamRedemptionFreezeDays   = "redemption_freeze_days"
	ParamEarlyWithdrawalPenalty = "early_withdrawal_penalty"
	ParamCounterpartyRisk       = "counterparty_risk"
)

// ParameterRanges lists every parameter with its documented range, in display order
var ParameterRanges = []Range{
	{Name: ParamInterestRateShock, Min: -0.02, Max: 0.02, Default: 0.0},
	{Name: ParamInflationSpike, Min: 0.02, Max: 0.08, Default: 0.035},
	{Name: ParamMultiAssetDrawdown, Min: -0.50, Max: -0.10, Default: -0.20},
	{Name: ParamRedemptionFreezeDays, Min: 0, Max: 30, Default: 0},
	{Name: ParamEarlyWithdrawalPenalty, Min: -0.03, Max: 0.0, Default: -0.01},
	{Name: ParamCounterpartyRisk, Min: 0.0, Max: 1.0, Default: 0.0},
}

// DefaultParameters returns every parameter at its declared default
func DefaultParameters() Parameters {
	return Parameters{
		InterestRateShock:      0.0,
		InflationSpike:         0.035,
		MultiAssetDrawdown:     -0.20,
		RedemptionFreezeDays:   0,
		EarlyWithdrawalPenalty: -0.01,
		CounterpartyRisk:       0.0,
	}
}

// RangeError reports a parameter outside its declared range
type RangeError struct {
	Parameter string
	Value     float64
	Min       float64
	Max       float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s = %g outside [%g, %g]", e.Parameter, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrParameterOutOfRange }

// Value returns a parameter by name
func (p Parameters) Value(name string) (float64, bool) {
	switch name {
	case ParamInterestRateShock:
		return p.InterestRateShock, true
	case ParamInflationSpike:
		return p.InflationSpike, true
	case ParamMultiAssetDrawdown:
		return p.MultiAssetDrawdown, true
	case ParamRedemptionFreezeDays:
		return float64(p.RedemptionFreezeDays), true
	case ParamEarlyWithdrawalPenalty:
		return p.EarlyWithdrawalPenalty, true
	case ParamCounterpartyRisk:
		return p.CounterpartyRisk, true
	}
	return 0, false
}

// Validate checks every parameter against ParameterRanges.
// The engine never calls it; callers police ranges upstream.
func (p Parameters) Validate() error {
	var errs []error
	for _, r := range ParameterRanges {
		v, _ := p.Value(r.Name)
		if v < r.Min || v > r.Max {
			errs = append(errs, &RangeError{Parameter: r.Name, Value: v, Min: r.Min, Max: r.Max})
		}
	}
	return errors.Join(errs...)
}

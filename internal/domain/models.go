// Package domain holds the model types shared between the stress engine and
// the infrastructure around it. It has no infrastructure dependencies.
package domain

// AssetClass tags a holding with the risk profile it is stressed under.
// The set is open: unknown classes are valid and simply carry no profile.
type AssetClass string

const (
	CashEquivalent AssetClass = "Cash_Equivalent"
	TimeDeposit    AssetClass = "Time_Deposit"
	MMF            AssetClass = "MMF"
	BondFund       AssetClass = "Bond_Fund"
	MultiAsset     AssetClass = "Multi_Asset"
)

// KnownAssetClasses lists the classes shipped with a default risk profile
var KnownAssetClasses = []AssetClass{CashEquivalent, TimeDeposit, MMF, BondFund, MultiAsset}

// Holding is one row of the portfolio
type Holding struct {
	Name          string     `json:"name,omitempty"`
	Institution   string     `json:"institution,omitempty"`
	AssetClass    AssetClass `json:"asset_class"`
	Amount        float64    `json:"amount"`         // reporting currency, never negative
	LiquidityDays int        `json:"liquidity_days"` // days normally needed to convert to cash
}

// Portfolio is an ordered list of holdings
type Portfolio []Holding

// Clone returns an independent copy of the portfolio
func (p Portfolio) Clone() Portfolio {
	if p == nil {
		return nil
	}
	out := make(Portfolio, len(p))
	copy(out, p)
	return out
}

// TotalValue sums all holding amounts
func (p Portfolio) TotalValue() float64 {
	total := 0.0
	for _, h := range p {
		total += h.Amount
	}
	return total
}

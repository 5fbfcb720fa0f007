package testing

import "github.com/aristath/reservestress/internal/domain"

// SamplePortfolioCSV is a reserve portfolio in the import file layout
const SamplePortfolioCSV = `Asset_Type,Asset_Name,Institution,Amount_SGD,Liquidity_Period_Days
Cash_Equivalent,Operating Account,DBS,100000,0
Time_Deposit,12M Fixed Deposit,OCBC,500000,180
MMF,SGD Money Market Fund,Fullerton,200000,2
Multi_Asset,Balanced Income Fund,Schroders,300000,30
Bond_Fund,Global Bond Fund,PIMCO,100000,5
`

// NewHoldingFixtures returns the holdings SamplePortfolioCSV decodes to
func NewHoldingFixtures() domain.Portfolio {
	return domain.Portfolio{
		{Name: "Operating Account", Institution: "DBS", AssetClass: domain.CashEquivalent, Amount: 100_000, LiquidityDays: 0},
		{Name: "12M Fixed Deposit", Institution: "OCBC", AssetClass: domain.TimeDeposit, Amount: 500_000, LiquidityDays: 180},
		{Name: "SGD Money Market Fund", Institution: "Fullerton", AssetClass: domain.MMF, Amount: 200_000, LiquidityDays: 2},
		{Name: "Balanced Income Fund", Institution: "Schroders", AssetClass: domain.MultiAsset, Amount: 300_000, LiquidityDays: 30},
		{Name: "Global Bond Fund", Institution: "PIMCO", AssetClass: domain.BondFund, Amount: 100_000, LiquidityDays: 5},
	}
}

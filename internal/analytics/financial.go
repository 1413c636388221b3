// backend-go/internal/analytics/financial.go
package analytics

import "github.com/andresuchdata/stockrisk/backend-go/internal/domain"

// DefaultCarryingRate is the annual carrying-cost rate applied to average
// inventory value.
const DefaultCarryingRate = 0.20

// Calculator turns a risk analysis plus cost and price parameters into
// monetary exposure.
type Calculator struct {
	carryingRate float64
}

func NewCalculator(carryingRate float64) *Calculator {
	if carryingRate <= 0 {
		carryingRate = DefaultCarryingRate
	}
	return &Calculator{carryingRate: carryingRate}
}

// Calculate derives carrying cost from mean inventory and stockout loss
// from the raw stockout-day count carried through the analysis. Using the
// raw count rather than the probability avoids double rounding.
func (c *Calculator) Calculate(risk domain.RiskAnalysis, params domain.InventoryParams) domain.FinancialImpact {
	carrying := risk.MeanInventory * params.UnitCost * c.carryingRate
	stockoutLoss := float64(risk.StockoutDays) * params.DailyDemandMean * params.SellingPrice

	return domain.FinancialImpact{
		CarryingCost: carrying,
		StockoutLoss: stockoutLoss,
		NetRiskValue: carrying + stockoutLoss,
	}
}

// PortfolioNetRisk sums per-SKU net risk values with no cross-SKU
// normalization.
func PortfolioNetRisk(impacts []domain.FinancialImpact) float64 {
	var total float64
	for _, impact := range impacts {
		total += impact.NetRiskValue
	}
	return total
}

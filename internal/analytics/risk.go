// backend-go/internal/analytics/risk.go
package analytics

import "github.com/andresuchdata/stockrisk/backend-go/internal/domain"

// Threshold defaults. The multipliers are convention, not a business rule,
// so they stay configurable.
const (
	DefaultOverstockMultiplier  = 1.5
	DefaultUnderstockMultiplier = 0.5

	lowBand    = 20.0
	mediumBand = 50.0
)

// Analyzer converts an aggregated simulation into overstock, understock,
// and stockout probabilities. A pure function of its input: it never
// mutates the simulation result and holds no per-SKU state.
type Analyzer struct {
	overstockMultiplier  float64
	understockMultiplier float64
}

func NewAnalyzer(overstockMultiplier, understockMultiplier float64) *Analyzer {
	if overstockMultiplier <= 0 {
		overstockMultiplier = DefaultOverstockMultiplier
	}
	if understockMultiplier <= 0 {
		understockMultiplier = DefaultUnderstockMultiplier
	}
	return &Analyzer{
		overstockMultiplier:  overstockMultiplier,
		understockMultiplier: understockMultiplier,
	}
}

// Analyze counts matching days over all M x N trajectory points and
// classifies each probability. The overall level is the stockout band,
// the headline metric for replenishment risk.
func (a *Analyzer) Analyze(result *domain.SimulationResult, params domain.InventoryParams) domain.RiskAnalysis {
	overstockAbove := a.overstockMultiplier * params.ReorderPoint
	understockBelow := a.understockMultiplier * params.ReorderPoint

	var overstock, understock, stockout int
	total := 0
	for _, tr := range result.Trajectories {
		for _, v := range tr.Levels {
			if v > overstockAbove {
				overstock++
			}
			if v < understockBelow {
				understock++
			}
			if v == 0 {
				stockout++
			}
			total++
		}
	}

	analysis := domain.RiskAnalysis{
		MeanInventory: result.MeanInventory,
		StockoutDays:  result.StockoutDays,
	}
	if total > 0 {
		analysis.OverstockProbability = 100 * float64(overstock) / float64(total)
		analysis.UnderstockProbability = 100 * float64(understock) / float64(total)
		analysis.StockoutProbability = 100 * float64(stockout) / float64(total)
	}
	analysis.OverstockLevel = Classify(analysis.OverstockProbability)
	analysis.UnderstockLevel = Classify(analysis.UnderstockProbability)
	analysis.StockoutLevel = Classify(analysis.StockoutProbability)
	analysis.Overall = analysis.StockoutLevel

	return analysis
}

// Classify maps a probability in [0,100] onto a risk band. The bands are
// closed at the lower bound of each higher band: 20.0 is still low.
func Classify(p float64) domain.RiskLevel {
	switch {
	case p <= lowBand:
		return domain.RiskLow
	case p <= mediumBand:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

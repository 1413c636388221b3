// backend-go/internal/domain/simulation.go
package domain

import "time"

// Trajectory is one simulated inventory path, one non-negative level per day.
type Trajectory struct {
	Levels       []float64 `json:"levels"`
	StockoutDays int       `json:"stockout_days"`
}

// SimulationResult aggregates the trajectories of one Monte Carlo run.
// Immutable once returned by the engine.
type SimulationResult struct {
	Trajectories   []Trajectory      `json:"trajectories"`
	Percentiles    map[int][]float64 `json:"percentiles"`
	MeanInventory  float64           `json:"mean_inventory"`
	StockoutDays   int               `json:"stockout_days"`
	NumSimulations int               `json:"num_simulations"`
	NumDays        int               `json:"num_days"`
	Seed           int64             `json:"seed"`
}

// RiskLevel classifies a probability band.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAnalysis is a read-only view derived from one SimulationResult.
// Probabilities are percentages in [0, 100]. MeanInventory and StockoutDays
// are carried through from the simulation so the financial calculator works
// from raw counts rather than re-derived probabilities.
type RiskAnalysis struct {
	OverstockProbability  float64   `json:"overstock_probability"`
	UnderstockProbability float64   `json:"understock_probability"`
	StockoutProbability   float64   `json:"stockout_probability"`
	OverstockLevel        RiskLevel `json:"overstock_level"`
	UnderstockLevel       RiskLevel `json:"understock_level"`
	StockoutLevel         RiskLevel `json:"stockout_level"`
	Overall               RiskLevel `json:"overall"`
	MeanInventory         float64   `json:"mean_inventory"`
	StockoutDays          int       `json:"stockout_days"`
}

// FinancialImpact is the monetary exposure derived from one RiskAnalysis.
// All three values are non-negative.
type FinancialImpact struct {
	CarryingCost float64 `json:"carrying_cost"`
	StockoutLoss float64 `json:"stockout_loss"`
	NetRiskValue float64 `json:"net_risk_value"`
}

// OptimizationResult is the recommendation produced by one optimizer run.
type OptimizationResult struct {
	SKU                     string          `json:"sku,omitempty"`
	OriginalReorderPoint    float64         `json:"original_reorder_point"`
	RecommendedReorderPoint float64         `json:"recommended_reorder_point"`
	Impact                  FinancialImpact `json:"impact"`
	Risk                    RiskAnalysis    `json:"risk"`
	OriginalImpact          FinancialImpact `json:"original_impact"`
	Savings                 float64         `json:"savings"`
	Evaluations             int             `json:"evaluations"`
	CreatedAt               time.Time       `json:"created_at,omitempty"`
}

// PortfolioEntry pairs a SKU with its optimization outcome for ranked
// presentation.
type PortfolioEntry struct {
	SKU     string             `json:"sku"`
	Result  OptimizationResult `json:"result"`
	Savings float64            `json:"savings"`
}

// PortfolioSummary is the cross-SKU aggregation: per-SKU entries sorted by
// descending savings plus the plain sum of net risk values.
type PortfolioSummary struct {
	Entries      []PortfolioEntry `json:"entries"`
	TotalNetRisk float64          `json:"total_net_risk"`
	TotalSavings float64          `json:"total_savings"`
}

// backend-go/internal/analytics/risk_test.go
package analytics

import (
	"testing"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want domain.RiskLevel
	}{
		{"zero", 0, domain.RiskLow},
		{"inside low band", 12.5, domain.RiskLow},
		{"low boundary inclusive", 20.0, domain.RiskLow},
		{"just above low", 20.0001, domain.RiskMedium},
		{"inside medium band", 35, domain.RiskMedium},
		{"medium boundary inclusive", 50.0, domain.RiskMedium},
		{"just above medium", 50.0001, domain.RiskHigh},
		{"full", 100, domain.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.p); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}
}

func TestAnalyzeCounts(t *testing.T) {
	// Reorder point 10 with default multipliers: overstock above 15,
	// understock below 5, stockout at exactly 0. 2 trajectories x 5 days.
	result := &domain.SimulationResult{
		Trajectories: []domain.Trajectory{
			{Levels: []float64{20, 16, 15, 10, 0}},
			{Levels: []float64{4, 0, 5, 15.0001, 3}},
		},
		MeanInventory: 8.8,
		StockoutDays:  2,
	}
	params := domain.InventoryParams{ReorderPoint: 10}

	analyzer := NewAnalyzer(DefaultOverstockMultiplier, DefaultUnderstockMultiplier)
	analysis := analyzer.Analyze(result, params)

	// Overstock (> 15): 20, 16, 15.0001 -> 3 of 10.
	if got, want := analysis.OverstockProbability, 30.0; got != want {
		t.Errorf("overstock probability = %v, want %v", got, want)
	}
	// Understock (< 5): 0, 4, 0, 3 -> 4 of 10.
	if got, want := analysis.UnderstockProbability, 40.0; got != want {
		t.Errorf("understock probability = %v, want %v", got, want)
	}
	// Stockout (== 0): 2 of 10.
	if got, want := analysis.StockoutProbability, 20.0; got != want {
		t.Errorf("stockout probability = %v, want %v", got, want)
	}

	if analysis.OverstockLevel != domain.RiskMedium {
		t.Errorf("overstock level = %q, want medium", analysis.OverstockLevel)
	}
	if analysis.UnderstockLevel != domain.RiskMedium {
		t.Errorf("understock level = %q, want medium", analysis.UnderstockLevel)
	}
	if analysis.StockoutLevel != domain.RiskLow {
		t.Errorf("stockout level = %q, want low", analysis.StockoutLevel)
	}
	if analysis.Overall != analysis.StockoutLevel {
		t.Errorf("overall level = %q, want stockout level %q", analysis.Overall, analysis.StockoutLevel)
	}

	// Carried through untouched for the financial calculator.
	if analysis.MeanInventory != result.MeanInventory {
		t.Errorf("mean inventory = %v, want %v", analysis.MeanInventory, result.MeanInventory)
	}
	if analysis.StockoutDays != result.StockoutDays {
		t.Errorf("stockout days = %d, want %d", analysis.StockoutDays, result.StockoutDays)
	}
}

func TestAnalyzeCustomMultipliers(t *testing.T) {
	result := &domain.SimulationResult{
		Trajectories: []domain.Trajectory{{Levels: []float64{25, 15, 8}}},
	}
	params := domain.InventoryParams{ReorderPoint: 10}

	// Overstock above 20, understock below 10.
	analyzer := NewAnalyzer(2.0, 1.0)
	analysis := analyzer.Analyze(result, params)

	if got, want := analysis.OverstockProbability, 100.0/3; got != want {
		t.Errorf("overstock probability = %v, want %v", got, want)
	}
	if got, want := analysis.UnderstockProbability, 100.0/3; got != want {
		t.Errorf("understock probability = %v, want %v", got, want)
	}
}

func TestAnalyzeEmptyResult(t *testing.T) {
	analyzer := NewAnalyzer(0, 0)
	analysis := analyzer.Analyze(&domain.SimulationResult{}, domain.InventoryParams{ReorderPoint: 10})

	if analysis.StockoutProbability != 0 || analysis.OverstockProbability != 0 || analysis.UnderstockProbability != 0 {
		t.Errorf("empty result must yield zero probabilities, got %+v", analysis)
	}
	if analysis.Overall != domain.RiskLow {
		t.Errorf("overall = %q, want low", analysis.Overall)
	}
}

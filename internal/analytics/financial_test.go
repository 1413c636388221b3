// backend-go/internal/analytics/financial_test.go
package analytics

import (
	"testing"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		carryingRate float64
		risk         domain.RiskAnalysis
		params       domain.InventoryParams
		wantCarrying float64
		wantLoss     float64
	}{
		{
			name:         "typical exposure",
			carryingRate: 0.20,
			risk:         domain.RiskAnalysis{MeanInventory: 100, StockoutDays: 3},
			params:       domain.InventoryParams{UnitCost: 2, DailyDemandMean: 10, SellingPrice: 5},
			wantCarrying: 40,
			wantLoss:     150,
		},
		{
			name:         "no stockouts means no loss",
			carryingRate: 0.20,
			risk:         domain.RiskAnalysis{MeanInventory: 50, StockoutDays: 0},
			params:       domain.InventoryParams{UnitCost: 10, DailyDemandMean: 4, SellingPrice: 25},
			wantCarrying: 100,
			wantLoss:     0,
		},
		{
			name:         "custom carrying rate",
			carryingRate: 0.35,
			risk:         domain.RiskAnalysis{MeanInventory: 200, StockoutDays: 1},
			params:       domain.InventoryParams{UnitCost: 1, DailyDemandMean: 2, SellingPrice: 3},
			wantCarrying: 70,
			wantLoss:     6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact := NewCalculator(tt.carryingRate).Calculate(tt.risk, tt.params)
			if impact.CarryingCost != tt.wantCarrying {
				t.Errorf("carrying cost = %v, want %v", impact.CarryingCost, tt.wantCarrying)
			}
			if impact.StockoutLoss != tt.wantLoss {
				t.Errorf("stockout loss = %v, want %v", impact.StockoutLoss, tt.wantLoss)
			}
			if want := tt.wantCarrying + tt.wantLoss; impact.NetRiskValue != want {
				t.Errorf("net risk = %v, want %v", impact.NetRiskValue, want)
			}
		})
	}
}

func TestCalculatorDefaultsRate(t *testing.T) {
	calc := NewCalculator(0)
	impact := calc.Calculate(
		domain.RiskAnalysis{MeanInventory: 10},
		domain.InventoryParams{UnitCost: 10},
	)
	if want := 10 * 10 * DefaultCarryingRate; impact.CarryingCost != want {
		t.Errorf("carrying cost = %v, want default-rate %v", impact.CarryingCost, want)
	}
}

func TestPortfolioNetRisk(t *testing.T) {
	impacts := []domain.FinancialImpact{
		{NetRiskValue: 100},
		{NetRiskValue: 40.5},
		{NetRiskValue: 0},
	}
	if got, want := PortfolioNetRisk(impacts), 140.5; got != want {
		t.Errorf("portfolio net risk = %v, want %v", got, want)
	}
	if got := PortfolioNetRisk(nil); got != 0 {
		t.Errorf("empty portfolio net risk = %v, want 0", got)
	}
}

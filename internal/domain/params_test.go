// backend-go/internal/domain/params_test.go
package domain

import (
	"math"
	"testing"
)

func validParams() InventoryParams {
	return InventoryParams{
		CurrentStock:      100,
		ReorderPoint:      50,
		OrderQuantity:     80,
		MeanLeadTime:      3,
		DailyDemandMean:   10,
		DailyDemandStdDev: 3,
		UnitCost:          4,
		SellingPrice:      9,
	}
}

func TestInventoryParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*InventoryParams)
		wantErr bool
	}{
		{"valid", func(p *InventoryParams) {}, false},
		{"zero current stock ok", func(p *InventoryParams) { p.CurrentStock = 0 }, false},
		{"zero std dev ok", func(p *InventoryParams) { p.DailyDemandStdDev = 0 }, false},
		{"negative current stock", func(p *InventoryParams) { p.CurrentStock = -1 }, true},
		{"zero reorder point", func(p *InventoryParams) { p.ReorderPoint = 0 }, true},
		{"zero order quantity", func(p *InventoryParams) { p.OrderQuantity = 0 }, true},
		{"negative lead time", func(p *InventoryParams) { p.MeanLeadTime = -2 }, true},
		{"zero demand mean", func(p *InventoryParams) { p.DailyDemandMean = 0 }, true},
		{"negative std dev", func(p *InventoryParams) { p.DailyDemandStdDev = -0.5 }, true},
		{"std dev equals mean", func(p *InventoryParams) { p.DailyDemandStdDev = p.DailyDemandMean }, true},
		{"std dev above mean", func(p *InventoryParams) { p.DailyDemandStdDev = p.DailyDemandMean + 1 }, true},
		{"zero unit cost", func(p *InventoryParams) { p.UnitCost = 0 }, true},
		{"zero selling price", func(p *InventoryParams) { p.SellingPrice = 0 }, true},
		{"nan field", func(p *InventoryParams) { p.OrderQuantity = math.NaN() }, true},
		{"infinite field", func(p *InventoryParams) { p.SellingPrice = math.Inf(1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected a validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

// backend-go/internal/domain/params.go
package domain

import (
	"fmt"
	"math"
	"time"
)

// Product is a stored per-SKU parameter record. The simulation core only
// reads the embedded InventoryParams; the rest is bookkeeping for the
// repository and importer.
type Product struct {
	ID        int64           `json:"id" db:"id"`
	SKU       string          `json:"sku" db:"sku"`
	Name      string          `json:"name" db:"name"`
	Params    InventoryParams `json:"params" db:"-"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// InventoryParams holds the replenishment parameters for one SKU. Every
// field is mandatory; optionality lives in the importer, not here.
type InventoryParams struct {
	CurrentStock      float64 `json:"current_stock" db:"current_stock"`
	ReorderPoint      float64 `json:"reorder_point" db:"reorder_point"`
	OrderQuantity     float64 `json:"order_quantity" db:"order_quantity"`
	MeanLeadTime      float64 `json:"mean_lead_time" db:"mean_lead_time"`
	DailyDemandMean   float64 `json:"daily_demand_mean" db:"daily_demand_mean"`
	DailyDemandStdDev float64 `json:"daily_demand_std_dev" db:"daily_demand_std_dev"`
	UnitCost          float64 `json:"unit_cost" db:"unit_cost"`
	SellingPrice      float64 `json:"selling_price" db:"selling_price"`
}

// Validate enforces the field-level rules the importer and API apply before
// handing params to the simulation core: every value finite, everything but
// current stock strictly positive, and demand std dev below demand mean.
func (p InventoryParams) Validate() error {
	fields := map[string]float64{
		"current_stock":        p.CurrentStock,
		"reorder_point":        p.ReorderPoint,
		"order_quantity":       p.OrderQuantity,
		"mean_lead_time":       p.MeanLeadTime,
		"daily_demand_mean":    p.DailyDemandMean,
		"daily_demand_std_dev": p.DailyDemandStdDev,
		"unit_cost":            p.UnitCost,
		"selling_price":        p.SellingPrice,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("field %s is not finite", name)
		}
	}
	if p.CurrentStock < 0 {
		return fmt.Errorf("current_stock must be non-negative, got %v", p.CurrentStock)
	}
	positive := map[string]float64{
		"reorder_point":     p.ReorderPoint,
		"order_quantity":    p.OrderQuantity,
		"mean_lead_time":    p.MeanLeadTime,
		"daily_demand_mean": p.DailyDemandMean,
		"unit_cost":         p.UnitCost,
		"selling_price":     p.SellingPrice,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("field %s must be strictly positive, got %v", name, v)
		}
	}
	if p.DailyDemandStdDev < 0 {
		return fmt.Errorf("daily_demand_std_dev must be non-negative, got %v", p.DailyDemandStdDev)
	}
	if p.DailyDemandStdDev >= p.DailyDemandMean {
		return fmt.Errorf("daily_demand_std_dev (%v) must be below daily_demand_mean (%v)",
			p.DailyDemandStdDev, p.DailyDemandMean)
	}
	return nil
}

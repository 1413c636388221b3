// backend-go/internal/simulation/trajectory_test.go
package simulation

import (
	"testing"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

func TestRunDepletesWithoutReplenishment(t *testing.T) {
	// Deterministic demand, lead time far beyond the horizon: pure depletion.
	// The reorder point keeps the inventory ceiling above the starting stock
	// so the series is driven by demand alone.
	params := domain.InventoryParams{
		CurrentStock:      100,
		ReorderPoint:      15,
		OrderQuantity:     50,
		MeanLeadTime:      100,
		DailyDemandMean:   10,
		DailyDemandStdDev: 0,
	}

	sim := NewSimulator(NewSource(1))
	tr := sim.Run(params, 5)

	want := []float64{90, 80, 70, 60, 50}
	if len(tr.Levels) != len(want) {
		t.Fatalf("levels length = %d, want %d", len(tr.Levels), len(want))
	}
	for i, w := range want {
		if tr.Levels[i] != w {
			t.Errorf("day %d: level = %v, want %v", i, tr.Levels[i], w)
		}
	}
	if tr.StockoutDays != 0 {
		t.Errorf("stockout days = %d, want 0", tr.StockoutDays)
	}
}

func TestRunStockoutPinsInventoryToZero(t *testing.T) {
	params := domain.InventoryParams{
		CurrentStock:      5,
		ReorderPoint:      2,
		OrderQuantity:     10,
		MeanLeadTime:      100,
		DailyDemandMean:   10,
		DailyDemandStdDev: 0,
	}

	sim := NewSimulator(NewSource(1))
	const days = 7
	tr := sim.Run(params, days)

	for i, level := range tr.Levels {
		if level != 0 {
			t.Errorf("day %d: level = %v, want exactly 0", i, level)
		}
	}
	if tr.StockoutDays != days {
		t.Errorf("stockout days = %d, want %d", tr.StockoutDays, days)
	}
}

func TestRunLevelsNeverNegative(t *testing.T) {
	params := domain.InventoryParams{
		CurrentStock:      50,
		ReorderPoint:      30,
		OrderQuantity:     60,
		MeanLeadTime:      3,
		DailyDemandMean:   12,
		DailyDemandStdDev: 4,
	}

	sim := NewSimulator(NewSource(17))
	tr := sim.Run(params, 365)

	if len(tr.Levels) != 365 {
		t.Fatalf("levels length = %d, want 365", len(tr.Levels))
	}
	for i, level := range tr.Levels {
		if level < 0 {
			t.Fatalf("day %d: negative level %v", i, level)
		}
	}
}

func TestRunInventoryCapBounds(t *testing.T) {
	// An absurd order quantity must be capped at the ceiling, not grow
	// without bound.
	params := domain.InventoryParams{
		CurrentStock:      40,
		ReorderPoint:      50,
		OrderQuantity:     1e6,
		MeanLeadTime:      2,
		DailyDemandMean:   1,
		DailyDemandStdDev: 0,
	}

	sim := NewSimulator(NewSource(5))
	tr := sim.Run(params, 30)

	ceiling := 10.0 * params.ReorderPoint
	sawArrival := false
	for i, level := range tr.Levels {
		if level > ceiling {
			t.Fatalf("day %d: level %v above ceiling %v", i, level, ceiling)
		}
		if level == ceiling {
			sawArrival = true
		}
	}
	if !sawArrival {
		t.Error("order never arrived within the horizon (lead window is at most 4 days)")
	}
}

func TestRunClipsStartingStockAboveCeiling(t *testing.T) {
	// The ceiling applies every day, including day 0: stock seeded above
	// 10x the reorder point is clipped after that day's demand is drawn.
	params := domain.InventoryParams{
		CurrentStock:      100,
		ReorderPoint:      5,
		OrderQuantity:     50,
		MeanLeadTime:      100,
		DailyDemandMean:   10,
		DailyDemandStdDev: 0,
	}

	sim := NewSimulator(NewSource(1))
	tr := sim.Run(params, 3)

	want := []float64{50, 40, 30}
	for i, w := range want {
		if tr.Levels[i] != w {
			t.Errorf("day %d: level = %v, want %v", i, tr.Levels[i], w)
		}
	}
}

func TestRunDeterministicPerSource(t *testing.T) {
	params := domain.InventoryParams{
		CurrentStock:      80,
		ReorderPoint:      40,
		OrderQuantity:     70,
		MeanLeadTime:      4,
		DailyDemandMean:   9,
		DailyDemandStdDev: 3,
	}

	a := NewSimulator(NewSource(123)).Run(params, 90)
	b := NewSimulator(NewSource(123)).Run(params, 90)

	if a.StockoutDays != b.StockoutDays {
		t.Fatalf("stockout days diverged: %d vs %d", a.StockoutDays, b.StockoutDays)
	}
	for i := range a.Levels {
		if a.Levels[i] != b.Levels[i] {
			t.Fatalf("day %d: levels diverged: %v vs %v", i, a.Levels[i], b.Levels[i])
		}
	}
}

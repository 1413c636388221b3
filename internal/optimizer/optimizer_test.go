// backend-go/internal/optimizer/optimizer_test.go
package optimizer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/andresuchdata/stockrisk/backend-go/internal/analytics"
	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/simulation"
)

func testOptimizer(cfg Config) *Optimizer {
	engine := simulation.NewEngine(4)
	analyzer := analytics.NewAnalyzer(analytics.DefaultOverstockMultiplier, analytics.DefaultUnderstockMultiplier)
	calculator := analytics.NewCalculator(analytics.DefaultCarryingRate)
	opts := simulation.Options{NumSimulations: 30, NumDays: 90}
	return New(engine, analyzer, calculator, opts, cfg)
}

func healthyParams() domain.InventoryParams {
	return domain.InventoryParams{
		CurrentStock:      200,
		ReorderPoint:      60,
		OrderQuantity:     120,
		MeanLeadTime:      3,
		DailyDemandMean:   10,
		DailyDemandStdDev: 3,
		UnitCost:          4,
		SellingPrice:      9,
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	opt := testOptimizer(DefaultConfig())

	a, err := opt.Optimize(context.Background(), healthyParams(), 42)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := opt.Optimize(context.Background(), healthyParams(), 42)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if a.RecommendedReorderPoint != b.RecommendedReorderPoint {
		t.Errorf("recommendations diverged: %v vs %v", a.RecommendedReorderPoint, b.RecommendedReorderPoint)
	}
	if a.Savings != b.Savings {
		t.Errorf("savings diverged: %v vs %v", a.Savings, b.Savings)
	}
	if a.Evaluations != b.Evaluations {
		t.Errorf("evaluation counts diverged: %d vs %d", a.Evaluations, b.Evaluations)
	}
}

func TestOptimizeRecommendationIsFeasible(t *testing.T) {
	cfg := DefaultConfig()
	opt := testOptimizer(cfg)

	result, err := opt.Optimize(context.Background(), healthyParams(), 7)
	if err != nil {
		t.Fatal(err)
	}

	if result.Risk.StockoutProbability > cfg.ServiceLevelFloor {
		t.Errorf("recommended point violates the floor: %v%% > %v%%",
			result.Risk.StockoutProbability, cfg.ServiceLevelFloor)
	}
	if result.Evaluations < 1 {
		t.Errorf("evaluations = %d, want at least 1", result.Evaluations)
	}
	if result.OriginalReorderPoint != healthyParams().ReorderPoint {
		t.Errorf("original reorder point = %v, want %v",
			result.OriginalReorderPoint, healthyParams().ReorderPoint)
	}
	if result.Savings < 0 {
		t.Errorf("savings = %v, must never be negative", result.Savings)
	}
}

func TestOptimizeInfeasibleReportsError(t *testing.T) {
	// A trickle of replenishment against heavy demand: no reachable reorder
	// point keeps stockouts under the floor within the allowed steps.
	params := domain.InventoryParams{
		CurrentStock:      10,
		ReorderPoint:      5,
		OrderQuantity:     1,
		MeanLeadTime:      10,
		DailyDemandMean:   50,
		DailyDemandStdDev: 5,
		UnitCost:          4,
		SellingPrice:      9,
	}

	cfg := DefaultConfig()
	cfg.ServiceLevelFloor = 0.0001
	cfg.MaxServiceSteps = 3
	opt := testOptimizer(cfg)

	_, err := opt.Optimize(context.Background(), params, 42)
	var infeasible *InfeasibleError
	if !errors.As(err, &infeasible) {
		t.Fatalf("err = %v, want InfeasibleError", err)
	}
	if infeasible.Floor != cfg.ServiceLevelFloor {
		t.Errorf("reported floor = %v, want %v", infeasible.Floor, cfg.ServiceLevelFloor)
	}
	if infeasible.Steps != cfg.MaxServiceSteps {
		t.Errorf("reported steps = %d, want %d", infeasible.Steps, cfg.MaxServiceSteps)
	}
	if infeasible.LastProbability <= cfg.ServiceLevelFloor {
		t.Errorf("last probability %v should still exceed the floor %v",
			infeasible.LastProbability, cfg.ServiceLevelFloor)
	}
}

func TestOptimizeInvalidParams(t *testing.T) {
	nan := healthyParams()
	nan.ReorderPoint = math.NaN()

	opt := testOptimizer(DefaultConfig())
	_, err := opt.Optimize(context.Background(), nan, 1)
	var invalid *simulation.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidParameterError", err)
	}
}

func TestOptimizeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opt := testOptimizer(DefaultConfig())
	_, err := opt.Optimize(ctx, healthyParams(), 42)
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

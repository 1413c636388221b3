// backend-go/internal/simulation/engine.go
package simulation

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

// Options configures one Monte Carlo run.
type Options struct {
	NumSimulations int
	NumDays        int
	Percentiles    []int
	Seed           int64
}

// DefaultPercentiles are the bands the dashboard renders.
var DefaultPercentiles = []int{10, 25, 50, 75, 90}

// Engine runs independent trajectories and aggregates them. Trajectories
// are evaluated across a worker pool; each one consumes its own split
// sub-stream of the random source, so the result is identical at any
// worker count.
type Engine struct {
	workers int
}

func NewEngine(workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{workers: workers}
}

// Run executes opts.NumSimulations trajectories and aggregates percentile
// bands, mean inventory, and the total stockout-day count.
func (e *Engine) Run(ctx context.Context, params domain.InventoryParams, opts Options) (*domain.SimulationResult, error) {
	if err := checkFinite(params); err != nil {
		return nil, err
	}
	if opts.NumSimulations < 1 {
		return nil, &InvalidParameterError{Field: "num_simulations", Reason: "must be at least 1"}
	}
	if opts.NumDays < 1 {
		return nil, &InvalidParameterError{Field: "num_days", Reason: "must be at least 1"}
	}
	percentiles := opts.Percentiles
	if len(percentiles) == 0 {
		percentiles = DefaultPercentiles
	}

	base := NewSource(opts.Seed)
	trajectories := make([]domain.Trajectory, opts.NumSimulations)

	workerCount := e.workers
	if workerCount > opts.NumSimulations {
		workerCount = opts.NumSimulations
	}

	jobChan := make(chan int, opts.NumSimulations)
	var wg sync.WaitGroup

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobChan {
				sim := NewSimulator(base.Split(int64(i)))
				trajectories[i] = sim.Run(params, opts.NumDays)
			}
		}()
	}

	for i := 0; i < opts.NumSimulations; i++ {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return nil, ctx.Err()
		case jobChan <- i:
		}
	}
	close(jobChan)
	wg.Wait()

	// Non-finite values are fatal to the whole call; never substitute a
	// default for a failed computation.
	for i, tr := range trajectories {
		for day, v := range tr.Levels {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &NumericalInstabilityError{Simulation: i, Day: day, Value: v}
			}
		}
	}

	result := &domain.SimulationResult{
		Trajectories:   trajectories,
		Percentiles:    make(map[int][]float64, len(percentiles)),
		NumSimulations: opts.NumSimulations,
		NumDays:        opts.NumDays,
		Seed:           opts.Seed,
	}

	var sum float64
	stockouts := 0
	for _, tr := range trajectories {
		for _, v := range tr.Levels {
			sum += v
		}
		stockouts += tr.StockoutDays
	}
	result.MeanInventory = sum / float64(opts.NumSimulations*opts.NumDays)
	result.StockoutDays = stockouts

	column := make([]float64, opts.NumSimulations)
	for _, p := range percentiles {
		result.Percentiles[p] = make([]float64, opts.NumDays)
	}
	for day := 0; day < opts.NumDays; day++ {
		for i, tr := range trajectories {
			column[i] = tr.Levels[day]
		}
		sort.Float64s(column)
		for _, p := range percentiles {
			result.Percentiles[p][day] = nearestRank(column, p)
		}
	}

	return result, nil
}

// nearestRank picks the value at rank ceil(p/100*M), 1-indexed, from an
// already sorted column. Not linear interpolation.
func nearestRank(sorted []float64, p int) float64 {
	rank := int(math.Ceil(float64(p) / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func checkFinite(params domain.InventoryParams) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"current_stock", params.CurrentStock},
		{"reorder_point", params.ReorderPoint},
		{"order_quantity", params.OrderQuantity},
		{"mean_lead_time", params.MeanLeadTime},
		{"daily_demand_mean", params.DailyDemandMean},
		{"daily_demand_std_dev", params.DailyDemandStdDev},
		{"unit_cost", params.UnitCost},
		{"selling_price", params.SellingPrice},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &InvalidParameterError{Field: f.name, Reason: "must be finite"}
		}
	}
	return nil
}

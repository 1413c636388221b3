// backend-go/internal/optimizer/optimizer.go
package optimizer

import (
	"context"
	"fmt"
	"math"

	"github.com/andresuchdata/stockrisk/backend-go/internal/analytics"
	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/simulation"
	"github.com/rs/zerolog/log"
)

// Config bounds the reorder-point search.
type Config struct {
	// ServiceLevelFloor is the maximum acceptable stockout probability in
	// percent. The walk phase must reach it before cost minimization starts.
	ServiceLevelFloor float64
	// StepFraction sizes the walk step as a fraction of mean demand over
	// one mean lead time.
	StepFraction float64
	// MaxServiceSteps bounds the walk phase; exceeding it is an
	// InfeasibleError, never a silent success.
	MaxServiceSteps int
	// SearchSpanSteps sizes the cost-minimization neighborhood in walk steps.
	SearchSpanSteps int
	// MaxCostIterations bounds the golden-section refinement.
	MaxCostIterations int
}

// DefaultConfig matches the 95% service level the product guarantees.
func DefaultConfig() Config {
	return Config{
		ServiceLevelFloor: 5.0,
		StepFraction:      0.1,
		MaxServiceSteps:   50,
		SearchSpanSteps:   10,
		MaxCostIterations: 20,
	}
}

// InfeasibleError reports that the walk phase could not push stockout
// probability under the floor within its bounded step count.
type InfeasibleError struct {
	Floor           float64
	Steps           int
	LastProbability float64
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("service level floor %.2f%% not reachable within %d steps (last stockout probability %.2f%%)",
		e.Floor, e.Steps, e.LastProbability)
}

// Optimizer searches candidate reorder points by re-running the simulation
// pipeline at each one. Each candidate evaluation is a self-contained unit
// of work with its own seed draw; cancellation between evaluations discards
// cleanly.
type Optimizer struct {
	engine     *simulation.Engine
	analyzer   *analytics.Analyzer
	calculator *analytics.Calculator
	simOpts    simulation.Options
	cfg        Config
}

func New(engine *simulation.Engine, analyzer *analytics.Analyzer, calculator *analytics.Calculator, simOpts simulation.Options, cfg Config) *Optimizer {
	if cfg.ServiceLevelFloor <= 0 {
		cfg.ServiceLevelFloor = DefaultConfig().ServiceLevelFloor
	}
	if cfg.StepFraction <= 0 {
		cfg.StepFraction = DefaultConfig().StepFraction
	}
	if cfg.MaxServiceSteps <= 0 {
		cfg.MaxServiceSteps = DefaultConfig().MaxServiceSteps
	}
	if cfg.SearchSpanSteps <= 0 {
		cfg.SearchSpanSteps = DefaultConfig().SearchSpanSteps
	}
	if cfg.MaxCostIterations <= 0 {
		cfg.MaxCostIterations = DefaultConfig().MaxCostIterations
	}
	return &Optimizer{
		engine:     engine,
		analyzer:   analyzer,
		calculator: calculator,
		simOpts:    simOpts,
		cfg:        cfg,
	}
}

type evaluation struct {
	reorderPoint float64
	risk         domain.RiskAnalysis
	impact       domain.FinancialImpact
}

func (e evaluation) feasible(floor float64) bool {
	return e.risk.StockoutProbability <= floor
}

type searchState struct {
	params      domain.InventoryParams
	seeds       *simulation.Source
	memo        map[int64]evaluation
	evaluations int
}

// Optimize recommends a reorder point that satisfies the service-level
// floor and minimizes net risk value. If the original point is feasible and
// no candidate beats it, the original is returned unchanged.
func (o *Optimizer) Optimize(ctx context.Context, params domain.InventoryParams, seed int64) (*domain.OptimizationResult, error) {
	state := &searchState{
		params: params,
		seeds:  simulation.NewSource(seed),
		memo:   make(map[int64]evaluation),
	}

	original, err := o.evaluate(ctx, state, params.ReorderPoint)
	if err != nil {
		return nil, err
	}

	step := o.cfg.StepFraction * params.DailyDemandMean * params.MeanLeadTime
	if step <= 0 {
		step = 1
	}

	// Walk phase: raise the candidate until the floor holds.
	feasiblePoint := original
	steps := 0
	for !feasiblePoint.feasible(o.cfg.ServiceLevelFloor) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if steps >= o.cfg.MaxServiceSteps {
			return nil, &InfeasibleError{
				Floor:           o.cfg.ServiceLevelFloor,
				Steps:           steps,
				LastProbability: feasiblePoint.risk.StockoutProbability,
			}
		}
		steps++
		feasiblePoint, err = o.evaluate(ctx, state, feasiblePoint.reorderPoint+step)
		if err != nil {
			return nil, err
		}
	}

	// Cost phase: golden-section refinement over a bounded neighborhood of
	// the feasible point. Candidates violating the floor are excluded from
	// consideration, never chosen as a minimum.
	best := feasiblePoint
	lo := feasiblePoint.reorderPoint
	hi := feasiblePoint.reorderPoint + float64(o.cfg.SearchSpanSteps)*step
	const invPhi = 0.6180339887498949

	a := hi - (hi-lo)*invPhi
	b := lo + (hi-lo)*invPhi
	evalA, err := o.evaluate(ctx, state, a)
	if err != nil {
		return nil, err
	}
	evalB, err := o.evaluate(ctx, state, b)
	if err != nil {
		return nil, err
	}
	best = better(best, evalA, o.cfg.ServiceLevelFloor)
	best = better(best, evalB, o.cfg.ServiceLevelFloor)

	for i := 0; i < o.cfg.MaxCostIterations && hi-lo > step/10; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if constrainedCost(evalA, o.cfg.ServiceLevelFloor) <= constrainedCost(evalB, o.cfg.ServiceLevelFloor) {
			hi = b
			b = a
			evalB = evalA
			a = hi - (hi-lo)*invPhi
			evalA, err = o.evaluate(ctx, state, a)
			if err != nil {
				return nil, err
			}
			best = better(best, evalA, o.cfg.ServiceLevelFloor)
		} else {
			lo = a
			a = b
			evalA = evalB
			b = lo + (hi-lo)*invPhi
			evalB, err = o.evaluate(ctx, state, b)
			if err != nil {
				return nil, err
			}
			best = better(best, evalB, o.cfg.ServiceLevelFloor)
		}
	}

	// A feasible original that nothing improves on stays as-is.
	recommended := best
	if original.feasible(o.cfg.ServiceLevelFloor) && original.impact.NetRiskValue <= best.impact.NetRiskValue {
		recommended = original
	}

	savings := original.impact.NetRiskValue - recommended.impact.NetRiskValue
	log.Debug().
		Float64("original", original.reorderPoint).
		Float64("recommended", recommended.reorderPoint).
		Float64("savings", savings).
		Int("evaluations", state.evaluations).
		Msg("reorder point optimization finished")

	return &domain.OptimizationResult{
		OriginalReorderPoint:    original.reorderPoint,
		RecommendedReorderPoint: recommended.reorderPoint,
		Impact:                  recommended.impact,
		Risk:                    recommended.risk,
		OriginalImpact:          original.impact,
		Savings:                 savings,
		Evaluations:             state.evaluations,
	}, nil
}

// evaluate runs the full pipeline at one candidate reorder point. Results
// are memoized per candidate within a single optimization; each fresh
// candidate consumes its own seed draw.
func (o *Optimizer) evaluate(ctx context.Context, state *searchState, reorderPoint float64) (evaluation, error) {
	key := int64(math.Round(reorderPoint * 100))
	if cached, ok := state.memo[key]; ok {
		return cached, nil
	}

	candidate := state.params
	candidate.ReorderPoint = reorderPoint

	opts := o.simOpts
	opts.Seed = state.seeds.Split(int64(state.evaluations)).Seed()
	state.evaluations++

	result, err := o.engine.Run(ctx, candidate, opts)
	if err != nil {
		return evaluation{}, err
	}
	risk := o.analyzer.Analyze(result, candidate)
	impact := o.calculator.Calculate(risk, candidate)

	eval := evaluation{reorderPoint: reorderPoint, risk: risk, impact: impact}
	state.memo[key] = eval
	return eval, nil
}

func better(current, candidate evaluation, floor float64) evaluation {
	if !candidate.feasible(floor) {
		return current
	}
	if candidate.impact.NetRiskValue < current.impact.NetRiskValue {
		return candidate
	}
	return current
}

// constrainedCost steers the golden-section bracket; infeasible points
// compare as infinitely expensive so the bracket moves away from them.
func constrainedCost(e evaluation, floor float64) float64 {
	if !e.feasible(floor) {
		return math.Inf(1)
	}
	return e.impact.NetRiskValue
}

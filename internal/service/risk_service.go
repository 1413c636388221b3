// backend-go/internal/service/risk_service.go
package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/andresuchdata/stockrisk/backend-go/internal/analytics"
	"github.com/andresuchdata/stockrisk/backend-go/internal/cache"
	"github.com/andresuchdata/stockrisk/backend-go/internal/config"
	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/optimizer"
	"github.com/andresuchdata/stockrisk/backend-go/internal/pipeline"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository"
	"github.com/andresuchdata/stockrisk/backend-go/internal/simulation"
	"github.com/andresuchdata/stockrisk/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

// RiskService composes the simulation core with its collaborators: the
// product store, the result cache, and the archive. The core itself stays
// pure; everything stateful lives out here.
type RiskService struct {
	products      repository.ProductRepository
	optimizations repository.OptimizationRepository
	cache         cache.SimulationCache
	archive       *storage.ResultArchive
	engine        *simulation.Engine
	analyzer      *analytics.Analyzer
	calculator    *analytics.Calculator
	simCfg        config.SimulationConfig
}

func NewRiskService(
	products repository.ProductRepository,
	optimizations repository.OptimizationRepository,
	cacheImpl cache.SimulationCache,
	archive *storage.ResultArchive,
	simCfg config.SimulationConfig,
) *RiskService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSimulationCache()
	}
	return &RiskService{
		products:      products,
		optimizations: optimizations,
		cache:         cacheImpl,
		archive:       archive,
		engine:        simulation.NewEngine(simCfg.Workers),
		analyzer:      analytics.NewAnalyzer(simCfg.OverstockMultiplier, simCfg.UnderstockMultiplier),
		calculator:    analytics.NewCalculator(simCfg.CarryingRate),
		simCfg:        simCfg,
	}
}

// SimulationRequest carries one simulation call. A nil Seed means "pick
// one"; results are still deterministic for any explicitly supplied seed.
// SKU is an optional label used when the result is archived.
type SimulationRequest struct {
	SKU            string
	Params         domain.InventoryParams
	NumSimulations int
	NumDays        int
	Percentiles    []int
	Seed           *int64
}

func (s *RiskService) options(req SimulationRequest) simulation.Options {
	opts := simulation.Options{
		NumSimulations: req.NumSimulations,
		NumDays:        req.NumDays,
		Percentiles:    req.Percentiles,
	}
	if opts.NumSimulations <= 0 {
		opts.NumSimulations = s.simCfg.NumSimulations
	}
	if opts.NumDays <= 0 {
		opts.NumDays = s.simCfg.NumDays
	}
	if len(opts.Percentiles) == 0 {
		opts.Percentiles = s.simCfg.Percentiles
	}
	if req.Seed != nil {
		opts.Seed = *req.Seed
	} else {
		opts.Seed = time.Now().UnixNano()
	}
	return opts
}

// Simulate runs one Monte Carlo call, consulting the cache first when the
// caller pinned the seed.
func (s *RiskService) Simulate(ctx context.Context, req SimulationRequest) (*domain.SimulationResult, error) {
	opts := s.options(req)

	if req.Seed != nil {
		if cached, ok, err := s.cache.GetResult(ctx, req.Params, opts.NumSimulations, opts.NumDays, opts.Seed); err == nil && ok {
			return cached, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("risk: cache get simulation result failed")
		}
	}

	result, err := s.engine.Run(ctx, req.Params, opts)
	if err != nil {
		return nil, err
	}

	if req.Seed != nil {
		if err := s.cache.SetResult(ctx, req.Params, opts.NumSimulations, opts.NumDays, opts.Seed, result); err != nil {
			log.Warn().Err(err).Msg("risk: cache set simulation result failed")
		}
	}

	label := req.SKU
	if label == "" {
		label = "adhoc"
	}
	if err := s.archive.ArchiveSimulation(ctx, label, result); err != nil {
		log.Warn().Err(err).Str("sku", label).Msg("risk: failed to archive simulation result")
	}

	return result, nil
}

// Analyze derives risk probabilities from a simulation result. Pure.
func (s *RiskService) Analyze(result *domain.SimulationResult, params domain.InventoryParams) domain.RiskAnalysis {
	return s.analyzer.Analyze(result, params)
}

// Impact derives monetary exposure from a risk analysis. Pure.
func (s *RiskService) Impact(risk domain.RiskAnalysis, params domain.InventoryParams) domain.FinancialImpact {
	return s.calculator.Calculate(risk, params)
}

// Assessment bundles one full pipeline pass.
type Assessment struct {
	Result *domain.SimulationResult `json:"result"`
	Risk   domain.RiskAnalysis      `json:"risk"`
	Impact domain.FinancialImpact   `json:"impact"`
}

// Assess runs simulate, analyze, and impact in one call.
func (s *RiskService) Assess(ctx context.Context, req SimulationRequest) (*Assessment, error) {
	result, err := s.Simulate(ctx, req)
	if err != nil {
		return nil, err
	}
	risk := s.analyzer.Analyze(result, req.Params)
	impact := s.calculator.Calculate(risk, req.Params)
	return &Assessment{Result: result, Risk: risk, Impact: impact}, nil
}

// Optimize recommends a reorder point for ad hoc params.
func (s *RiskService) Optimize(ctx context.Context, params domain.InventoryParams, serviceLevelFloor float64, seed *int64) (*domain.OptimizationResult, error) {
	cfg := optimizer.DefaultConfig()
	cfg.ServiceLevelFloor = s.simCfg.ServiceLevelFloor
	cfg.StepFraction = s.simCfg.OptimizerStep
	cfg.MaxServiceSteps = s.simCfg.OptimizerMaxSteps
	if serviceLevelFloor > 0 {
		cfg.ServiceLevelFloor = serviceLevelFloor
	}

	opts := simulation.Options{
		NumSimulations: s.simCfg.NumSimulations,
		NumDays:        s.simCfg.NumDays,
		Percentiles:    s.simCfg.Percentiles,
	}

	var baseSeed int64
	if seed != nil {
		baseSeed = *seed
	} else {
		baseSeed = time.Now().UnixNano()
	}

	opt := optimizer.New(s.engine, s.analyzer, s.calculator, opts, cfg)
	return opt.Optimize(ctx, params, baseSeed)
}

// OptimizeSKU optimizes a stored product, persists the recommendation, and
// archives it.
func (s *RiskService) OptimizeSKU(ctx context.Context, sku string, seed *int64) (*domain.OptimizationResult, error) {
	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	result, err := s.Optimize(ctx, product.Params, 0, seed)
	if err != nil {
		return nil, err
	}
	result.SKU = sku

	if s.optimizations != nil {
		if err := s.optimizations.Save(ctx, result); err != nil {
			log.Warn().Err(err).Str("sku", sku).Msg("risk: failed to persist optimization result")
		}
	}
	if err := s.archive.ArchiveOptimization(ctx, sku, result); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("risk: failed to archive optimization result")
	}

	return result, nil
}

// OptimizationHistory returns the persisted recommendations for one SKU,
// newest first.
func (s *RiskService) OptimizationHistory(ctx context.Context, sku string, limit int) ([]domain.OptimizationResult, error) {
	if s.optimizations == nil {
		return nil, fmt.Errorf("optimization history is not available")
	}
	return s.optimizations.ListBySKU(ctx, sku, limit)
}

// LatestOptimizations returns the most recent recommendations across all
// SKUs, newest first.
func (s *RiskService) LatestOptimizations(ctx context.Context, limit int) ([]domain.OptimizationResult, error) {
	if s.optimizations == nil {
		return nil, fmt.Errorf("optimization history is not available")
	}
	return s.optimizations.ListLatest(ctx, limit)
}

// Portfolio optimizes every stored product independently and ranks the
// outcomes by descending savings. Each SKU gets its own seed derived from
// the base seed and the SKU itself, so a SKU's result does not depend on
// what else is in the portfolio and worker scheduling cannot reorder the
// math.
func (s *RiskService) Portfolio(ctx context.Context, seed *int64, limit int) (*domain.PortfolioSummary, error) {
	products, _, err := s.products.List(ctx, limit, 0)
	if err != nil {
		return nil, err
	}

	var baseSeed int64
	if seed != nil {
		baseSeed = *seed
	} else {
		baseSeed = time.Now().UnixNano()
	}

	jobs := make([]pipeline.Job, len(products))
	for i, product := range products {
		jobs[i] = pipeline.Job{
			SKU:    product.SKU,
			Params: product.Params,
			Seed:   skuSeed(baseSeed, product.SKU),
		}
	}

	runnerCfg := pipeline.DefaultConfig()
	runnerCfg.WorkerCount = s.simCfg.Workers
	runner := pipeline.NewRunner(func(ctx context.Context, job pipeline.Job) (*domain.OptimizationResult, error) {
		return s.Optimize(ctx, job.Params, 0, &job.Seed)
	}, runnerCfg)

	results, report, err := runner.Run(ctx, jobs)
	if err != nil {
		return nil, err
	}
	for _, outcome := range report.Outcomes {
		if outcome.Status == pipeline.JobStatusFailed {
			log.Warn().Err(outcome.Err).Str("sku", outcome.SKU).
				Msg("risk: portfolio optimization failed for SKU")
		}
	}

	summary := &domain.PortfolioSummary{Entries: make([]domain.PortfolioEntry, 0, len(products))}
	for i, result := range results {
		if result == nil {
			continue
		}
		result.SKU = jobs[i].SKU

		summary.Entries = append(summary.Entries, domain.PortfolioEntry{
			SKU:     result.SKU,
			Result:  *result,
			Savings: result.Savings,
		})
		summary.TotalNetRisk += result.Impact.NetRiskValue
		summary.TotalSavings += result.Savings
	}

	SortBySavings(summary.Entries)
	return summary, nil
}

// SortBySavings orders portfolio entries by descending potential savings;
// ties break on SKU for a stable listing.
func SortBySavings(entries []domain.PortfolioEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Savings != entries[j].Savings {
			return entries[i].Savings > entries[j].Savings
		}
		return entries[i].SKU < entries[j].SKU
	})
}

func skuSeed(base int64, sku string) int64 {
	h := fnv.New64a()
	h.Write([]byte(sku))
	return base ^ int64(h.Sum64()&0x7fffffffffffffff)
}

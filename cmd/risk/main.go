// cmd/risk/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockrisk/backend-go/internal/analytics"
	"github.com/andresuchdata/stockrisk/backend-go/internal/cache"
	"github.com/andresuchdata/stockrisk/backend-go/internal/config"
	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/optimizer"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockrisk/backend-go/internal/service"
	"github.com/andresuchdata/stockrisk/backend-go/internal/simulation"
)

func paramFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "current-stock", Usage: "Current on-hand inventory", Required: true},
		&cli.Float64Flag{Name: "reorder-point", Usage: "Reorder trigger level", Required: true},
		&cli.Float64Flag{Name: "order-quantity", Usage: "Replenishment order size", Required: true},
		&cli.Float64Flag{Name: "mean-lead-time", Usage: "Mean supplier lead time in days", Required: true},
		&cli.Float64Flag{Name: "demand-mean", Usage: "Mean daily demand", Required: true},
		&cli.Float64Flag{Name: "demand-std-dev", Usage: "Daily demand standard deviation", Required: true},
		&cli.Float64Flag{Name: "unit-cost", Usage: "Unit cost", Required: true},
		&cli.Float64Flag{Name: "selling-price", Usage: "Unit selling price", Required: true},
	}
}

func simFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "simulations", Usage: "Number of Monte Carlo trajectories", Value: 100},
		&cli.IntFlag{Name: "days", Usage: "Horizon length in days", Value: 365},
		&cli.Int64Flag{Name: "seed", Usage: "Random seed (same seed, same result)", Value: 42},
	}
}

func paramsFromFlags(c *cli.Context) domain.InventoryParams {
	return domain.InventoryParams{
		CurrentStock:      c.Float64("current-stock"),
		ReorderPoint:      c.Float64("reorder-point"),
		OrderQuantity:     c.Float64("order-quantity"),
		MeanLeadTime:      c.Float64("mean-lead-time"),
		DailyDemandMean:   c.Float64("demand-mean"),
		DailyDemandStdDev: c.Float64("demand-std-dev"),
		UnitCost:          c.Float64("unit-cost"),
		SellingPrice:      c.Float64("selling-price"),
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSimulate(c *cli.Context) error {
	params := paramsFromFlags(c)
	simCfg := config.Load().Simulation

	engine := simulation.NewEngine(simCfg.Workers)
	opts := simulation.Options{
		NumSimulations: c.Int("simulations"),
		NumDays:        c.Int("days"),
		Percentiles:    simCfg.Percentiles,
		Seed:           c.Int64("seed"),
	}
	result, err := engine.Run(c.Context, params, opts)
	if err != nil {
		return err
	}

	analyzer := analytics.NewAnalyzer(simCfg.OverstockMultiplier, simCfg.UnderstockMultiplier)
	risk := analyzer.Analyze(result, params)
	impact := analytics.NewCalculator(simCfg.CarryingRate).Calculate(risk, params)

	// Trajectories are too bulky for terminal output.
	result.Trajectories = nil
	return printJSON(map[string]any{
		"simulation": result,
		"risk":       risk,
		"impact":     impact,
	})
}

func runOptimize(c *cli.Context) error {
	params := paramsFromFlags(c)
	simCfg := config.Load().Simulation

	engine := simulation.NewEngine(simCfg.Workers)
	analyzer := analytics.NewAnalyzer(simCfg.OverstockMultiplier, simCfg.UnderstockMultiplier)
	calculator := analytics.NewCalculator(simCfg.CarryingRate)
	opts := simulation.Options{
		NumSimulations: c.Int("simulations"),
		NumDays:        c.Int("days"),
		Percentiles:    simCfg.Percentiles,
	}

	cfg := optimizer.DefaultConfig()
	cfg.ServiceLevelFloor = c.Float64("floor")
	cfg.StepFraction = simCfg.OptimizerStep
	cfg.MaxServiceSteps = simCfg.OptimizerMaxSteps

	opt := optimizer.New(engine, analyzer, calculator, opts, cfg)
	result, err := opt.Optimize(c.Context, params, c.Int64("seed"))
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runPortfolio(c *cli.Context) error {
	cfg := config.Load()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	products := postgres.NewProductRepository(db)
	optimizations := postgres.NewOptimizationRepository(db)
	riskService := service.NewRiskService(products, optimizations, cache.NewNoopSimulationCache(), nil, cfg.Simulation)

	var seed *int64
	if c.IsSet("seed") {
		s := c.Int64("seed")
		seed = &s
	}
	summary, err := riskService.Portfolio(c.Context, seed, c.Int("limit"))
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "risk",
		Usage: "Inventory risk simulation and reorder point optimization",
		Commands: []*cli.Command{
			{
				Name:   "simulate",
				Usage:  "Run a Monte Carlo simulation for one set of parameters",
				Flags:  append(paramFlags(), simFlags()...),
				Action: runSimulate,
			},
			{
				Name:  "optimize",
				Usage: "Search for a cheaper reorder point under the stockout floor",
				Flags: append(append(paramFlags(), simFlags()...),
					&cli.Float64Flag{Name: "floor", Usage: "Max stockout probability (percent)", Value: 5.0},
				),
				Action: runOptimize,
			},
			{
				Name:  "portfolio",
				Usage: "Optimize every stored SKU and summarize savings",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "seed", Usage: "Base random seed"},
					&cli.IntFlag{Name: "limit", Usage: "Max SKUs to process (0 = all)", Value: 0},
				},
				Action: runPortfolio,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

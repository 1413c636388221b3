package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load product parameters into the database",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create the products and optimization_results tables",
				Flags: []cli.Flag{
					newDBURLFlag(),
				},
				Action: runInit,
			},
			{
				Name:  "products",
				Usage: "Seed products from parameter CSV files",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing parameter CSV files",
						Value:   "./data/seeds/products",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files to process concurrently",
						Value: 4,
					},
				},
				Action: runSeedProducts,
			},
			{
				Name:  "fetch",
				Usage: "Download parameter CSV files from object storage",
				Flags: append(storageFlags(),
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix to download",
						Value: "parameters/",
					},
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Local directory to download into",
						Value:   "./data/seeds/products",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				),
				Action: runFetch,
			},
			{
				Name:  "pipeline",
				Usage: "Fetch parameter files from object storage and seed them",
				Flags: append(append(storageFlags(), newDBURLFlag()),
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix to download",
						Value: "parameters/",
					},
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Local directory to download into",
						Value:   "./data/seeds/products",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files to process concurrently",
						Value: 4,
					},
				),
				Action: func(c *cli.Context) error {
					if err := runFetch(c); err != nil {
						return fmt.Errorf("error fetching parameter files: %w", err)
					}
					if err := runSeedProducts(c); err != nil {
						return fmt.Errorf("error seeding products: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id BIGSERIAL PRIMARY KEY,
	sku TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	current_stock DOUBLE PRECISION NOT NULL,
	reorder_point DOUBLE PRECISION NOT NULL,
	order_quantity DOUBLE PRECISION NOT NULL,
	mean_lead_time DOUBLE PRECISION NOT NULL,
	daily_demand_mean DOUBLE PRECISION NOT NULL,
	daily_demand_std_dev DOUBLE PRECISION NOT NULL,
	unit_cost DOUBLE PRECISION NOT NULL,
	selling_price DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS optimization_results (
	id BIGSERIAL PRIMARY KEY,
	sku TEXT NOT NULL,
	original_reorder_point DOUBLE PRECISION NOT NULL,
	recommended_reorder_point DOUBLE PRECISION NOT NULL,
	carrying_cost DOUBLE PRECISION NOT NULL,
	stockout_loss DOUBLE PRECISION NOT NULL,
	net_risk_value DOUBLE PRECISION NOT NULL,
	savings DOUBLE PRECISION NOT NULL,
	evaluations INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_optimization_results_sku_created
	ON optimization_results (sku, created_at DESC);
`

func runInit(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(c.Context, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Println("Schema created")
	return nil
}

const upsertProduct = `
INSERT INTO products (
	sku, name, current_stock, reorder_point, order_quantity, mean_lead_time,
	daily_demand_mean, daily_demand_std_dev, unit_cost, selling_price, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
ON CONFLICT (sku) DO UPDATE SET
	name = EXCLUDED.name,
	current_stock = EXCLUDED.current_stock,
	reorder_point = EXCLUDED.reorder_point,
	order_quantity = EXCLUDED.order_quantity,
	mean_lead_time = EXCLUDED.mean_lead_time,
	daily_demand_mean = EXCLUDED.daily_demand_mean,
	daily_demand_std_dev = EXCLUDED.daily_demand_std_dev,
	unit_cost = EXCLUDED.unit_cost,
	selling_price = EXCLUDED.selling_price,
	updated_at = now()
`

func runSeedProducts(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	files, err := collectCSVFiles(c.String("data-dir"))
	if err != nil {
		return fmt.Errorf("failed to collect CSV files: %w", err)
	}
	if len(files) == 0 {
		log.Printf("No CSV files found in %s", c.String("data-dir"))
		return nil
	}

	return processFilesWithWorkers(c.Context, files, c.Int("workers"), func(path string) error {
		log.Printf("Seeding products from %s", path)
		return seedProductFile(c.Context, db, path)
	})
}

func seedProductFile(ctx context.Context, db *sql.DB, path string) error {
	products, rejected, err := readProductCSV(path)
	if err != nil {
		return err
	}
	for _, msg := range rejected {
		log.Printf("%s: %s", path, msg)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertProduct)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.SKU, p.Name,
			p.Params.CurrentStock, p.Params.ReorderPoint, p.Params.OrderQuantity,
			p.Params.MeanLeadTime, p.Params.DailyDemandMean, p.Params.DailyDemandStdDev,
			p.Params.UnitCost, p.Params.SellingPrice,
		); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("Seeded %d products from %s (%d rejected)", len(products), path, len(rejected))
	return nil
}

func readProductCSV(path string) ([]domain.Product, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	header, records, err := readCSV(file)
	if err != nil {
		return nil, nil, err
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"sku", "current_stock", "reorder_point", "order_quantity",
		"mean_lead_time", "daily_demand_mean", "daily_demand_std_dev", "unit_cost", "selling_price"} {
		if _, ok := colMap[col]; !ok {
			return nil, nil, fmt.Errorf("%s: missing required column %s", path, col)
		}
	}

	getValue := func(record []string, col string) string {
		if idx, ok := colMap[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var products []domain.Product
	var rejected []string
	for i, record := range records {
		params := domain.InventoryParams{}
		parseErr := func() error {
			fields := []struct {
				col  string
				dest *float64
			}{
				{"current_stock", &params.CurrentStock},
				{"reorder_point", &params.ReorderPoint},
				{"order_quantity", &params.OrderQuantity},
				{"mean_lead_time", &params.MeanLeadTime},
				{"daily_demand_mean", &params.DailyDemandMean},
				{"daily_demand_std_dev", &params.DailyDemandStdDev},
				{"unit_cost", &params.UnitCost},
				{"selling_price", &params.SellingPrice},
			}
			for _, f := range fields {
				v, err := strconv.ParseFloat(getValue(record, f.col), 64)
				if err != nil {
					return fmt.Errorf("column %s is not numeric", f.col)
				}
				*f.dest = v
			}
			return params.Validate()
		}()

		sku := getValue(record, "sku")
		switch {
		case sku == "":
			rejected = append(rejected, fmt.Sprintf("row %d: sku is empty", i+2))
		case parseErr != nil:
			rejected = append(rejected, fmt.Sprintf("row %d: %v", i+2, parseErr))
		default:
			products = append(products, domain.Product{
				SKU:    sku,
				Name:   getValue(record, "name"),
				Params: params,
			})
		}
	}
	return products, rejected, nil
}

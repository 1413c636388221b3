// backend-go/internal/repository/postgres/product_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository"
)

type productRow struct {
	ID                int64     `db:"id"`
	SKU               string    `db:"sku"`
	Name              string    `db:"name"`
	CurrentStock      float64   `db:"current_stock"`
	ReorderPoint      float64   `db:"reorder_point"`
	OrderQuantity     float64   `db:"order_quantity"`
	MeanLeadTime      float64   `db:"mean_lead_time"`
	DailyDemandMean   float64   `db:"daily_demand_mean"`
	DailyDemandStdDev float64   `db:"daily_demand_std_dev"`
	UnitCost          float64   `db:"unit_cost"`
	SellingPrice      float64   `db:"selling_price"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:        r.ID,
		SKU:       r.SKU,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Params: domain.InventoryParams{
			CurrentStock:      r.CurrentStock,
			ReorderPoint:      r.ReorderPoint,
			OrderQuantity:     r.OrderQuantity,
			MeanLeadTime:      r.MeanLeadTime,
			DailyDemandMean:   r.DailyDemandMean,
			DailyDemandStdDev: r.DailyDemandStdDev,
			UnitCost:          r.UnitCost,
			SellingPrice:      r.SellingPrice,
		},
	}
}

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, current_stock, reorder_point, order_quantity,
		       mean_lead_time, daily_demand_mean, daily_demand_std_dev,
		       unit_cost, selling_price, created_at, updated_at
		FROM products
		WHERE sku = $1
	`

	var row productRow
	if err := r.db.GetContext(ctx, &row, query, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s not found", sku)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", sku, err)
	}

	product := row.toDomain()
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, limit, offset int) ([]domain.Product, int, error) {
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products`); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// limit <= 0 means no cap.
	query := `
		SELECT id, sku, name, current_stock, reorder_point, order_quantity,
		       mean_lead_time, daily_demand_mean, daily_demand_std_dev,
		       unit_cost, selling_price, created_at, updated_at
		FROM products
		ORDER BY sku
		LIMIT ALL OFFSET $1
	`
	args := []any{offset}
	if limit > 0 {
		query = `
		SELECT id, sku, name, current_stock, reorder_point, order_quantity,
		       mean_lead_time, daily_demand_mean, daily_demand_std_dev,
		       unit_cost, selling_price, created_at, updated_at
		FROM products
		ORDER BY sku
		LIMIT $1 OFFSET $2
	`
		args = []any{limit, offset}
	}

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, total, nil
}

const upsertProductQuery = `
	INSERT INTO products (
		sku, name, current_stock, reorder_point, order_quantity,
		mean_lead_time, daily_demand_mean, daily_demand_std_dev,
		unit_cost, selling_price, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	ON CONFLICT (sku)
	DO UPDATE SET
		name = EXCLUDED.name,
		current_stock = EXCLUDED.current_stock,
		reorder_point = EXCLUDED.reorder_point,
		order_quantity = EXCLUDED.order_quantity,
		mean_lead_time = EXCLUDED.mean_lead_time,
		daily_demand_mean = EXCLUDED.daily_demand_mean,
		daily_demand_std_dev = EXCLUDED.daily_demand_std_dev,
		unit_cost = EXCLUDED.unit_cost,
		selling_price = EXCLUDED.selling_price,
		updated_at = NOW()
`

func (r *productRepository) Upsert(ctx context.Context, product *domain.Product) error {
	_, err := r.db.ExecContext(ctx, upsertProductQuery,
		product.SKU,
		product.Name,
		product.Params.CurrentStock,
		product.Params.ReorderPoint,
		product.Params.OrderQuantity,
		product.Params.MeanLeadTime,
		product.Params.DailyDemandMean,
		product.Params.DailyDemandStdDev,
		product.Params.UnitCost,
		product.Params.SellingPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", product.SKU, err)
	}
	return nil
}

func (r *productRepository) UpsertBatch(ctx context.Context, products []domain.Product) (int, error) {
	saved := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertProductQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, product := range products {
			_, err := stmt.ExecContext(ctx,
				product.SKU,
				product.Name,
				product.Params.CurrentStock,
				product.Params.ReorderPoint,
				product.Params.OrderQuantity,
				product.Params.MeanLeadTime,
				product.Params.DailyDemandMean,
				product.Params.DailyDemandStdDev,
				product.Params.UnitCost,
				product.Params.SellingPrice,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert product %s: %w", product.SKU, err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

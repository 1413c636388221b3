// backend-go/internal/repository/postgres/optimization_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository"
)

type optimizationRow struct {
	ID                      int64     `db:"id"`
	SKU                     string    `db:"sku"`
	OriginalReorderPoint    float64   `db:"original_reorder_point"`
	RecommendedReorderPoint float64   `db:"recommended_reorder_point"`
	CarryingCost            float64   `db:"carrying_cost"`
	StockoutLoss            float64   `db:"stockout_loss"`
	NetRiskValue            float64   `db:"net_risk_value"`
	OriginalNetRiskValue    float64   `db:"original_net_risk_value"`
	Savings                 float64   `db:"savings"`
	StockoutProbability     float64   `db:"stockout_probability"`
	CreatedAt               time.Time `db:"created_at"`
}

func (r optimizationRow) toDomain() domain.OptimizationResult {
	return domain.OptimizationResult{
		SKU:                     r.SKU,
		OriginalReorderPoint:    r.OriginalReorderPoint,
		RecommendedReorderPoint: r.RecommendedReorderPoint,
		Impact: domain.FinancialImpact{
			CarryingCost: r.CarryingCost,
			StockoutLoss: r.StockoutLoss,
			NetRiskValue: r.NetRiskValue,
		},
		OriginalImpact: domain.FinancialImpact{
			NetRiskValue: r.OriginalNetRiskValue,
		},
		Risk: domain.RiskAnalysis{
			StockoutProbability: r.StockoutProbability,
		},
		Savings:   r.Savings,
		CreatedAt: r.CreatedAt,
	}
}

type optimizationRepository struct {
	db *DB
}

func NewOptimizationRepository(db *DB) repository.OptimizationRepository {
	return &optimizationRepository{db: db}
}

func (r *optimizationRepository) Save(ctx context.Context, result *domain.OptimizationResult) error {
	query := `
		INSERT INTO optimization_results (
			sku, original_reorder_point, recommended_reorder_point,
			carrying_cost, stockout_loss, net_risk_value,
			original_net_risk_value, savings, stockout_probability, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		result.SKU,
		result.OriginalReorderPoint,
		result.RecommendedReorderPoint,
		result.Impact.CarryingCost,
		result.Impact.StockoutLoss,
		result.Impact.NetRiskValue,
		result.OriginalImpact.NetRiskValue,
		result.Savings,
		result.Risk.StockoutProbability,
	)
	if err != nil {
		return fmt.Errorf("failed to save optimization result for %s: %w", result.SKU, err)
	}
	return nil
}

func (r *optimizationRepository) ListBySKU(ctx context.Context, sku string, limit int) ([]domain.OptimizationResult, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, sku, original_reorder_point, recommended_reorder_point,
		       carrying_cost, stockout_loss, net_risk_value,
		       original_net_risk_value, savings, stockout_probability, created_at
		FROM optimization_results
		WHERE sku = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var rows []optimizationRow
	if err := r.db.SelectContext(ctx, &rows, query, sku, limit); err != nil {
		return nil, fmt.Errorf("failed to list optimization results for %s: %w", sku, err)
	}

	results := make([]domain.OptimizationResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toDomain())
	}
	return results, nil
}

func (r *optimizationRepository) ListLatest(ctx context.Context, limit int) ([]domain.OptimizationResult, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT DISTINCT ON (sku)
		       id, sku, original_reorder_point, recommended_reorder_point,
		       carrying_cost, stockout_loss, net_risk_value,
		       original_net_risk_value, savings, stockout_probability, created_at
		FROM optimization_results
		ORDER BY sku, created_at DESC
		LIMIT $1
	`

	var rows []optimizationRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list latest optimization results: %w", err)
	}

	results := make([]domain.OptimizationResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toDomain())
	}
	return results, nil
}

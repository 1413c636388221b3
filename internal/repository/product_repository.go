// backend-go/internal/repository/product_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

// ProductRepository is the data-store collaborator: it supplies validated
// per-SKU parameter records and accepts optimization outcomes. The
// simulation core itself never persists anything.
type ProductRepository interface {
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	// List returns up to limit products ordered by SKU plus the total
	// count. A limit of zero or less returns every product.
	List(ctx context.Context, limit, offset int) ([]domain.Product, int, error)
	Upsert(ctx context.Context, product *domain.Product) error
	UpsertBatch(ctx context.Context, products []domain.Product) (int, error)
}

// OptimizationRepository persists optimizer recommendations per run.
type OptimizationRepository interface {
	Save(ctx context.Context, result *domain.OptimizationResult) error
	ListBySKU(ctx context.Context, sku string, limit int) ([]domain.OptimizationResult, error)
	ListLatest(ctx context.Context, limit int) ([]domain.OptimizationResult, error)
}

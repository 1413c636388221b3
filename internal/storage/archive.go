// backend-go/internal/storage/archive.go
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

// ResultArchive uploads completed simulation and optimization outputs as
// JSON documents for later inspection. A nil archive is valid and archives
// nothing.
type ResultArchive struct {
	store ObjectStorage
}

func NewResultArchive(store ObjectStorage) *ResultArchive {
	return &ResultArchive{store: store}
}

func (a *ResultArchive) ArchiveSimulation(ctx context.Context, sku string, result *domain.SimulationResult) error {
	if a == nil || a.store == nil {
		return nil
	}
	key := fmt.Sprintf("simulations/%s/%s-seed%d.json", sku, time.Now().UTC().Format("20060102T150405"), result.Seed)
	return a.putJSON(ctx, key, result)
}

func (a *ResultArchive) ArchiveOptimization(ctx context.Context, sku string, result *domain.OptimizationResult) error {
	if a == nil || a.store == nil {
		return nil
	}
	key := fmt.Sprintf("optimizations/%s/%s.json", sku, time.Now().UTC().Format("20060102T150405"))
	return a.putJSON(ctx, key, result)
}

func (a *ResultArchive) putJSON(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode archive payload: %w", err)
	}
	return a.store.PutObject(ctx, key, data, "application/json")
}

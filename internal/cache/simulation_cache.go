// backend-go/internal/cache/simulation_cache.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockrisk/backend-go/internal/config"
	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	simulationResultKeyPrefix = "simulation:result"
	simulationScanBatchSize   = 100
)

// SimulationCache stores completed simulation results keyed by the exact
// inputs that produced them. Safe because results are deterministic given
// params, options, and seed.
type SimulationCache interface {
	GetResult(ctx context.Context, params domain.InventoryParams, numSimulations, numDays int, seed int64) (*domain.SimulationResult, bool, error)
	SetResult(ctx context.Context, params domain.InventoryParams, numSimulations, numDays int, seed int64, result *domain.SimulationResult) error
	InvalidateAll(ctx context.Context) error
}

type redisSimulationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSimulationCache struct{}

func NewSimulationCache(cfg config.CacheConfig) (SimulationCache, error) {
	if !cfg.Enabled {
		return &noopSimulationCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSimulationCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSimulationCache() SimulationCache {
	return &noopSimulationCache{}
}

func (c *redisSimulationCache) GetResult(ctx context.Context, params domain.InventoryParams, numSimulations, numDays int, seed int64) (*domain.SimulationResult, bool, error) {
	key := buildSimulationResultKey(params, numSimulations, numDays, seed)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.SimulationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode simulation result cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisSimulationCache) SetResult(ctx context.Context, params domain.InventoryParams, numSimulations, numDays int, seed int64, result *domain.SimulationResult) error {
	key := buildSimulationResultKey(params, numSimulations, numDays, seed)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode simulation result cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSimulationCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, simulationResultKeyPrefix, simulationScanBatchSize)
}

func (n *noopSimulationCache) GetResult(ctx context.Context, params domain.InventoryParams, numSimulations, numDays int, seed int64) (*domain.SimulationResult, bool, error) {
	return nil, false, nil
}

func (n *noopSimulationCache) SetResult(ctx context.Context, params domain.InventoryParams, numSimulations, numDays int, seed int64, result *domain.SimulationResult) error {
	return nil
}

func (n *noopSimulationCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildSimulationResultKey(params domain.InventoryParams, numSimulations, numDays int, seed int64) string {
	return fmt.Sprintf("%s:%s", simulationResultKeyPrefix, simulationInputHash(params, numSimulations, numDays, seed))
}

// simulationInputHash hashes the fields in a fixed order so the key does
// not depend on struct encoding details.
func simulationInputHash(params domain.InventoryParams, numSimulations, numDays int, seed int64) string {
	payload := fmt.Sprintf("%v|%v|%v|%v|%v|%v|%v|%v|%d|%d|%d",
		params.CurrentStock,
		params.ReorderPoint,
		params.OrderQuantity,
		params.MeanLeadTime,
		params.DailyDemandMean,
		params.DailyDemandStdDev,
		params.UnitCost,
		params.SellingPrice,
		numSimulations,
		numDays,
		seed,
	)
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

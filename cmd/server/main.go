// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockrisk/backend-go/internal/api"
	"github.com/andresuchdata/stockrisk/backend-go/internal/cache"
	"github.com/andresuchdata/stockrisk/backend-go/internal/config"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockrisk/backend-go/internal/service"
	"github.com/andresuchdata/stockrisk/backend-go/internal/storage"
	"github.com/andresuchdata/stockrisk/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	var simCache cache.SimulationCache
	if cfg.Cache.Enabled {
		simCache, err = cache.NewSimulationCache(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Redis unavailable, running without result cache")
			simCache = cache.NewNoopSimulationCache()
		}
	} else {
		simCache = cache.NewNoopSimulationCache()
	}

	var archive *storage.ResultArchive
	if cfg.Archive.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, running without archive")
		} else {
			archive = storage.NewResultArchive(minioClient)
		}
	}

	products := postgres.NewProductRepository(db)
	optimizations := postgres.NewOptimizationRepository(db)
	riskService := service.NewRiskService(products, optimizations, simCache, archive, cfg.Simulation)

	router := api.NewRouter(&api.Services{
		RiskService: riskService,
		Products:    products,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

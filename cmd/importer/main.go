// backend-go/cmd/importer/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/stockrisk/backend-go/internal/config"
	"github.com/andresuchdata/stockrisk/backend-go/internal/importer"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockrisk/backend-go/pkg/logger"
)

// The importer runs beside the main API server: it exposes manual
// list/download/ingest endpoints and polls the configured Drive folder
// for new parameter sheets.
func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	driveService, err := importer.NewDriveService(cfg.Importer.CredentialsJSON)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	products := postgres.NewProductRepository(db)
	ingestService := importer.NewIngestService(driveService, products)

	r := mux.NewRouter()
	handler := importer.NewHandler(driveService, ingestService)
	handler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Importer.FolderID != "" {
		watcher := importer.NewWatcher(driveService, ingestService, importer.DownloadOptions{
			FolderID:    cfg.Importer.FolderID,
			DownloadDir: cfg.Importer.DataDir,
		}, time.Duration(cfg.Importer.PollSeconds)*time.Second)
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}
	g.Go(func() error {
		logger.Log.Info().Str("addr", addr).Msg("Importer server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Log.Fatal().Err(err).Msg("Importer exited with error")
	}
	logger.Log.Info().Msg("Importer exiting")
}

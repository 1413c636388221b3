// backend-go/internal/importer/watcher.go
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DownloadOptions controls how parameter sheets are pulled from Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Watcher polls a Drive folder for parameter sheets and feeds every CSV it
// finds through the ingest service. A full folder sweep runs on start and
// then once per interval until the context is cancelled.
type Watcher struct {
	driveService  *DriveService
	ingestService *IngestService
	opts          DownloadOptions
	interval      time.Duration
}

func NewWatcher(driveService *DriveService, ingestService *IngestService, opts DownloadOptions, interval time.Duration) *Watcher {
	return &Watcher{
		driveService:  driveService,
		ingestService: ingestService,
		opts:          opts,
		interval:      interval,
	}
}

// Run blocks until ctx is cancelled. Sweep failures are logged, not fatal:
// the next tick retries.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.Sweep(ctx); err != nil {
		log.Error().Err(err).Msg("initial sweep failed")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				log.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

// Sweep downloads every CSV in the watched folder and ingests it.
func (w *Watcher) Sweep(ctx context.Context) error {
	paths, err := w.downloadFolderCSV(ctx)
	if err != nil {
		return err
	}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		result, err := w.ingestService.IngestCSV(ctx, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		log.Info().
			Str("file", filepath.Base(path)).
			Int("saved", result.Saved).
			Int("rejected", result.Rejected).
			Msg("sheet processed")
	}
	return nil
}

func (w *Watcher) downloadFolderCSV(ctx context.Context) ([]string, error) {
	if w.opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(w.opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := w.driveService.ListFiles(w.opts.FolderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if strings.ToLower(filepath.Ext(f.Name)) != ".csv" {
			continue
		}

		localPath := filepath.Join(w.opts.DownloadDir, f.Name)
		out, err := os.Create(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create local file %s: %w", localPath, err)
		}
		if err := w.driveService.DownloadFile(f.ID, out); err != nil {
			out.Close()
			return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}
		out.Close()
		localPaths = append(localPaths, localPath)
	}
	return localPaths, nil
}

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/stockrisk/backend-go/internal/config"
	"github.com/andresuchdata/stockrisk/backend-go/internal/storage"
	"github.com/urfave/cli/v2"
)

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "storage-endpoint",
			Usage:   "S3-compatible storage endpoint",
			EnvVars: []string{"ARCHIVE_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "storage-access-key",
			Usage:   "Storage access key",
			EnvVars: []string{"ARCHIVE_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "storage-secret-key",
			Usage:   "Storage secret key",
			EnvVars: []string{"ARCHIVE_SECRET_KEY"},
		},
		&cli.StringFlag{
			Name:    "storage-bucket",
			Usage:   "Storage bucket name",
			EnvVars: []string{"ARCHIVE_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "storage-region",
			Usage:   "Storage region",
			Value:   "us-east-1",
			EnvVars: []string{"ARCHIVE_REGION"},
		},
		&cli.BoolFlag{
			Name:    "storage-use-ssl",
			Usage:   "Use TLS when talking to storage",
			Value:   true,
			EnvVars: []string{"ARCHIVE_USE_SSL"},
		},
	}
}

// runFetch downloads every CSV object under the prefix into data-dir,
// preserving the key structure below the prefix.
func runFetch(c *cli.Context) error {
	client, err := storage.NewMinioClient(config.ArchiveConfig{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		Region:    c.String("storage-region"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	destDir := c.String("data-dir")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure download dir %s: %w", destDir, err)
	}

	prefix := c.String("prefix")
	objects, err := client.ListObjects(c.Context, prefix)
	if err != nil {
		return fmt.Errorf("failed to list objects under %q: %w", prefix, err)
	}

	downloaded := 0
	for _, obj := range objects {
		if !strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			continue
		}

		data, err := client.GetObject(c.Context, obj.Key)
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", obj.Key, err)
		}

		localPath := filepath.Join(destDir, objectRelativePath(prefix, obj.Key))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return fmt.Errorf("failed to ensure dir for %s: %w", localPath, err)
		}
		if err := os.WriteFile(localPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", localPath, err)
		}
		downloaded++
	}

	log.Printf("Downloaded %d parameter files to %s", downloaded, destDir)
	return nil
}

func objectRelativePath(prefix, key string) string {
	rel := strings.TrimPrefix(key, prefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		rel = filepath.Base(key)
	}
	return filepath.FromSlash(rel)
}

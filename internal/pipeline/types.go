package pipeline

import (
	"time"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

// Job is one unit of portfolio work: optimize a single SKU with its own
// seed. Jobs are independent, so workers can pick them up in any order
// without affecting each other's results.
type Job struct {
	SKU    string
	Params domain.InventoryParams
	Seed   int64
}

// JobStatus tracks one job through the run.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobOutcome records how one job finished.
type JobOutcome struct {
	SKU      string
	Status   JobStatus
	Attempts int
	Err      error
	Duration time.Duration
}

// Config holds tuning for a portfolio run.
type Config struct {
	WorkerCount   int           // Number of concurrent workers
	RetryAttempts int           // Number of retries on failure
	RetryBackoff  time.Duration // Backoff duration between retries
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:   4,
		RetryAttempts: 1,
		RetryBackoff:  time.Second,
	}
}

// Report summarizes a finished run.
type Report struct {
	Total     int
	Succeeded int
	Failed    int
	Outcomes  []JobOutcome
	Duration  time.Duration
}

package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/pkg/logger"
)

var log = logger.Component("pipeline")

// OptimizeFunc evaluates one job and returns the optimization result.
type OptimizeFunc func(ctx context.Context, job Job) (*domain.OptimizationResult, error)

// Runner fans portfolio jobs out over a fixed worker pool. Results come
// back in job order regardless of which worker handled them; a failed job
// is retried per config and then reported, never aborting the whole run.
type Runner struct {
	optimize OptimizeFunc
	config   Config
}

func NewRunner(optimize OptimizeFunc, config Config) *Runner {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.RetryAttempts < 0 {
		config.RetryAttempts = 0
	}
	return &Runner{
		optimize: optimize,
		config:   config,
	}
}

type jobSlot struct {
	index int
	job   Job
}

// Run processes all jobs and returns results indexed like the input, with
// nil entries where the job failed. The only error it returns itself is
// context cancellation.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]*domain.OptimizationResult, *Report, error) {
	start := time.Now()
	results := make([]*domain.OptimizationResult, len(jobs))
	outcomes := make([]JobOutcome, len(jobs))

	jobChan := make(chan jobSlot, len(jobs))
	var wg sync.WaitGroup

	for i := 0; i < r.config.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for slot := range jobChan {
				results[slot.index], outcomes[slot.index] = r.runJob(ctx, slot.job)
			}
		}()
	}

	enqueueErr := func() error {
		for i, job := range jobs {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobChan <- jobSlot{index: i, job: job}:
			}
		}
		return nil
	}()
	close(jobChan)
	wg.Wait()

	if enqueueErr != nil {
		return nil, nil, enqueueErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	report := &Report{
		Total:    len(jobs),
		Outcomes: outcomes,
		Duration: time.Since(start),
	}
	for _, o := range outcomes {
		switch o.Status {
		case JobStatusCompleted:
			report.Succeeded++
		case JobStatusFailed:
			report.Failed++
		}
	}
	return results, report, nil
}

func (r *Runner) runJob(ctx context.Context, job Job) (*domain.OptimizationResult, JobOutcome) {
	start := time.Now()
	outcome := JobOutcome{SKU: job.SKU, Status: JobStatusPending}

	var result *domain.OptimizationResult
	var err error
	for attempt := 0; attempt <= r.config.RetryAttempts; attempt++ {
		if ctx.Err() != nil {
			err = ctx.Err()
			break
		}
		if attempt > 0 {
			log.Warn().Err(err).Str("sku", job.SKU).Int("attempt", attempt).
				Msg("retrying portfolio job")
			select {
			case <-ctx.Done():
			case <-time.After(r.config.RetryBackoff):
			}
			if ctx.Err() != nil {
				err = ctx.Err()
				break
			}
		}
		outcome.Attempts = attempt + 1
		result, err = r.optimize(ctx, job)
		if err == nil {
			break
		}
	}

	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Status = JobStatusFailed
		outcome.Err = err
		return nil, outcome
	}
	outcome.Status = JobStatusCompleted
	return result, outcome
}

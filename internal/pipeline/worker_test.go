package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
)

func TestRunnerKeepsJobOrder(t *testing.T) {
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{SKU: fmt.Sprintf("SKU-%02d", i), Seed: int64(i)}
	}

	runner := NewRunner(func(ctx context.Context, job Job) (*domain.OptimizationResult, error) {
		return &domain.OptimizationResult{Savings: float64(job.Seed)}, nil
	}, Config{WorkerCount: 5})

	results, report, err := runner.Run(context.Background(), jobs)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("result count = %d, want %d", len(results), len(jobs))
	}
	for i, result := range results {
		if result == nil {
			t.Fatalf("slot %d: nil result", i)
		}
		if result.Savings != float64(i) {
			t.Errorf("slot %d: savings = %v, result landed in the wrong slot", i, result.Savings)
		}
	}
	if report.Succeeded != len(jobs) || report.Failed != 0 {
		t.Errorf("report = %d succeeded / %d failed, want %d / 0",
			report.Succeeded, report.Failed, len(jobs))
	}
}

func TestRunnerFailedJobDoesNotAbortRun(t *testing.T) {
	jobs := []Job{{SKU: "OK-1"}, {SKU: "BAD"}, {SKU: "OK-2"}}
	wantErr := errors.New("boom")

	runner := NewRunner(func(ctx context.Context, job Job) (*domain.OptimizationResult, error) {
		if job.SKU == "BAD" {
			return nil, wantErr
		}
		return &domain.OptimizationResult{SKU: job.SKU}, nil
	}, Config{WorkerCount: 2})

	results, report, err := runner.Run(context.Background(), jobs)
	if err != nil {
		t.Fatal(err)
	}

	if results[0] == nil || results[2] == nil {
		t.Error("healthy jobs must still produce results")
	}
	if results[1] != nil {
		t.Error("failed job must produce a nil result")
	}
	if report.Succeeded != 2 || report.Failed != 1 {
		t.Errorf("report = %d succeeded / %d failed, want 2 / 1", report.Succeeded, report.Failed)
	}
	if outcome := report.Outcomes[1]; outcome.Status != JobStatusFailed || !errors.Is(outcome.Err, wantErr) {
		t.Errorf("outcome = %+v, want failed with the job error", outcome)
	}
}

func TestRunnerRetriesBeforeFailing(t *testing.T) {
	var calls atomic.Int32
	runner := NewRunner(func(ctx context.Context, job Job) (*domain.OptimizationResult, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("transient")
		}
		return &domain.OptimizationResult{SKU: job.SKU}, nil
	}, Config{WorkerCount: 1, RetryAttempts: 2})

	results, report, err := runner.Run(context.Background(), []Job{{SKU: "FLAKY"}})
	if err != nil {
		t.Fatal(err)
	}
	if results[0] == nil {
		t.Fatal("job should succeed on the third attempt")
	}
	if got := report.Outcomes[0].Attempts; got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if report.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", report.Succeeded)
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(func(ctx context.Context, job Job) (*domain.OptimizationResult, error) {
		return &domain.OptimizationResult{}, nil
	}, Config{WorkerCount: 1})

	_, _, err := runner.Run(ctx, []Job{{SKU: "A"}, {SKU: "B"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/Tomas-vilte/MateReview/internal/domain/errors"
	"github.com/Tomas-vilte/MateReview/internal/domain/models"
	"github.com/Tomas-vilte/MateReview/internal/domain/ports"
	"github.com/Tomas-vilte/MateReview/internal/logger"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrencyBudget = 4
	defaultTaskTimeout       = 2 * time.Minute
	defaultMaxRetries        = 3
	defaultRetryBaseDelay    = time.Second
	defaultRetryMaxDelay     = 30 * time.Second
)

// ReasonRunDeadline is the failure reason of every task still incomplete
// when the run deadline expires. Callers use it to tell a dead run (zero
// successes, deadline hit) apart from ordinary backend failures.
const ReasonRunDeadline = "run_deadline_exceeded"

// Config tunes how a batch of tasks is executed. Zero values are
// replaced with safe defaults by New.
type Config struct {
	ConcurrencyBudget int
	TaskTimeout       time.Duration
	RunDeadline       time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
}

func (c Config) withDefaults() Config {
	if c.ConcurrencyBudget <= 0 {
		c.ConcurrencyBudget = defaultConcurrencyBudget
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = defaultTaskTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = defaultRetryBaseDelay
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = defaultRetryMaxDelay
	}
	return c
}

// Orchestrator runs AgentTasks against their AgentClients under a
// concurrency budget, returning exactly one AgentOutcome per task. A
// failing task never blocks or cancels its siblings.
type Orchestrator struct {
	clients map[models.AgentKind]ports.AgentClient
	cfg     Config
}

func New(clients map[models.AgentKind]ports.AgentClient, cfg Config) *Orchestrator {
	return &Orchestrator{
		clients: clients,
		cfg:     cfg.withDefaults(),
	}
}

// Run executes every task and collects their outcomes. Tasks beyond the
// budget queue in submission order. When the run deadline expires, any
// still-incomplete task is marked as a timeout failure and Run returns
// without waiting for in-flight backend calls.
func (o *Orchestrator) Run(ctx context.Context, tasks []models.AgentTask) map[models.TaskID]models.AgentOutcome {
	outcomes := make(map[models.TaskID]models.AgentOutcome, len(tasks))
	if len(tasks) == 0 {
		return outcomes
	}

	runCtx := ctx
	if o.cfg.RunDeadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.cfg.RunDeadline)
		defer cancel()
	}

	log := logger.FromContext(ctx)
	log.Info("dispatching agent tasks",
		"tasks", len(tasks),
		"budget", o.cfg.ConcurrencyBudget,
		"task_timeout", o.cfg.TaskTimeout)

	// One slot per task, written at most once by its own goroutine. The
	// slice is only read after g.Wait, so no extra synchronization is
	// needed at the fan-in point.
	results := make([]models.AgentOutcome, len(tasks))

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(min(o.cfg.ConcurrencyBudget, len(tasks)))

	for i, task := range tasks {
		g.Go(func() error {
			// Always nil: a task failure lives in its outcome, it must
			// not cancel the group.
			results[i] = o.executeTask(gctx, task)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, outcome := range results {
		outcomes[outcome.TaskID] = outcome
		if outcome.Failed() {
			failed++
		}
	}

	log.Info("agent tasks finished",
		"tasks", len(tasks),
		"failed", failed)

	return outcomes
}

// executeTask drives one task to a terminal state: findings on success,
// a typed failure once retries are exhausted or the error is permanent.
func (o *Orchestrator) executeTask(ctx context.Context, task models.AgentTask) models.AgentOutcome {
	log := logger.FromContext(ctx).With(
		"task", string(task.ID),
		"agent", string(task.Kind))
	start := time.Now()

	client, ok := o.clients[task.Kind]
	if !ok {
		log.Error("no client registered for agent kind")
		return failedOutcome(task, 0, start, models.TaskFailure{
			Kind:   models.FailureBackendError,
			Reason: "no_client",
		})
	}

	var lastFailure models.TaskFailure
	attempts := 0

	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			// Run deadline expired before this attempt could start.
			return failedOutcome(task, attempts, start, runDeadlineFailure())
		}
		attempts++

		findings, err := o.attempt(ctx, client, task)
		if err == nil {
			log.Debug("task completed",
				"attempt", attempts,
				"findings", len(findings))
			return models.AgentOutcome{
				TaskID:   task.ID,
				Kind:     task.Kind,
				Findings: findings,
				Metrics:  models.AgentMetrics{Attempts: attempts, Duration: time.Since(start)},
			}
		}

		failure, retryable := o.classifyFailure(err)
		lastFailure = failure

		if ctx.Err() != nil {
			return failedOutcome(task, attempts, start, runDeadlineFailure())
		}
		if !retryable {
			log.Warn("task failed permanently",
				"attempt", attempts,
				"failure", string(failure.Kind),
				"reason", failure.Reason)
			break
		}
		if attempt == o.cfg.MaxRetries {
			log.Warn("retry budget exhausted",
				"attempts", attempts,
				"failure", string(failure.Kind),
				"reason", failure.Reason)
			break
		}

		delay := backoffDelay(o.cfg.RetryBaseDelay, o.cfg.RetryMaxDelay, attempt)
		log.Warn("retrying task",
			"attempt", attempts,
			"max_retries", o.cfg.MaxRetries,
			"delay", delay,
			"reason", failure.Reason)
		if err := sleepContext(ctx, delay); err != nil {
			return failedOutcome(task, attempts, start, runDeadlineFailure())
		}
	}

	return failedOutcome(task, attempts, start, lastFailure)
}

// attempt runs a single bounded call against the backend. On timeout the
// attempt is abandoned: the in-flight call is cancelled through its
// context and its eventual result is discarded, never awaited. The inner
// goroutine exits on its own thanks to the buffered channel.
func (o *Orchestrator) attempt(ctx context.Context, client ports.AgentClient, task models.AgentTask) ([]models.Finding, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.TaskTimeout)
	defer cancel()

	type attemptResult struct {
		findings []models.Finding
		err      error
	}

	done := make(chan attemptResult, 1)
	go func() {
		findings, err := client.Analyze(attemptCtx, task.Scope, task.Kind)
		done <- attemptResult{findings: findings, err: err}
	}()

	select {
	case res := <-done:
		return res.findings, res.err
	case <-attemptCtx.Done():
		return nil, attemptCtx.Err()
	}
}

// classifyFailure maps an attempt error to its typed failure and whether
// it deserves another attempt. Unclassified errors are permanent.
func (o *Orchestrator) classifyFailure(err error) (models.TaskFailure, bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.TaskFailure{
			Kind:   models.FailureTimeout,
			Reason: fmt.Sprintf("attempt timed out after %s", o.cfg.TaskTimeout),
		}, true
	}
	if errors.Is(err, context.Canceled) {
		return models.TaskFailure{Kind: models.FailureTimeout, Reason: "canceled"}, false
	}

	var backendErr *domainErrors.BackendError
	if errors.As(err, &backendErr) {
		kind := models.FailureBackendError
		if backendErr.Reason == domainErrors.BackendReasonMalformed {
			kind = models.FailureMalformed
		}
		return models.TaskFailure{Kind: kind, Reason: backendErr.Reason}, backendErr.Transient
	}

	return models.TaskFailure{Kind: models.FailureBackendError, Reason: "unexpected_error"}, false
}

func runDeadlineFailure() models.TaskFailure {
	return models.TaskFailure{
		Kind:   models.FailureTimeout,
		Reason: ReasonRunDeadline,
	}
}

func failedOutcome(task models.AgentTask, attempts int, start time.Time, failure models.TaskFailure) models.AgentOutcome {
	return models.AgentOutcome{
		TaskID:  task.ID,
		Kind:    task.Kind,
		Failure: &failure,
		Metrics: models.AgentMetrics{Attempts: attempts, Duration: time.Since(start)},
	}
}

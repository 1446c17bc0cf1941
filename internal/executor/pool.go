package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/fanout/internal/util"
	"golang.org/x/sync/semaphore"
)

// Pool bounds how many timeout races run at once.
// Slots are handed out in submission order and freed when a race resolves, so a
// command abandoned on timeout keeps running outside the bound until it exits.
type Pool struct {
	// workers is the number of race slots
	workers int

	// timeout is the deadline each race gets
	timeout time.Duration

	// exec runs the rendered commands
	exec ShellExecutor

	// sem holds one unit per running race; its waiters are served FIFO
	sem *semaphore.Weighted

	// logger for structured logging
	logger *slog.Logger

	// onComplete is called from the worker goroutine after each outcome is recorded
	onComplete func(Outcome)

	// mu orders Submit's shutdown check and wg.Add against Shutdown
	mu sync.RWMutex
	wg sync.WaitGroup

	active   atomic.Int32
	running  atomic.Int32
	shutdown atomic.Bool
}

// PoolOption configures a Pool
type PoolOption func(*Pool)

// WithOnComplete registers fn to be called once per resolved task, from the goroutine
// that resolved it. Calls may be concurrent.
func WithOnComplete(fn func(Outcome)) PoolOption {
	return func(p *Pool) {
		p.onComplete = fn
	}
}

// NewPool creates a pool with workers race slots, each race bounded by timeout.
// workers must be positive; anything else is a configuration error.
func NewPool(workers int, exec ShellExecutor, timeout time.Duration, logger *slog.Logger, opts ...PoolOption) (*Pool, error) {
	if workers <= 0 {
		return nil, util.NewValidationError("threadCount", workers, "must be a positive integer")
	}
	if exec == nil {
		return nil, fmt.Errorf("pool needs a shell executor")
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		workers: workers,
		timeout: timeout,
		exec:    exec,
		sem:     semaphore.NewWeighted(int64(workers)),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Handle yields the outcome of one submitted task
type Handle struct {
	task     Task
	admitted bool
	done     chan struct{}
	outcome  Outcome
}

func newResolvedHandle(outcome Outcome) *Handle {
	h := &Handle{
		task:    Task{Index: outcome.Index, Host: outcome.Host, Command: outcome.Command},
		done:    make(chan struct{}),
		outcome: outcome,
	}
	close(h.done)
	return h
}

// Task returns the task this handle belongs to
func (h *Handle) Task() Task {
	return h.task
}

// Admitted reports whether the task got a slot and its race was started.
// A task canceled while queued is never admitted.
func (h *Handle) Admitted() bool {
	return h.admitted
}

// Done is closed once the outcome is available
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Outcome blocks until the task has resolved and returns its outcome
func (h *Handle) Outcome() Outcome {
	<-h.done
	return h.outcome
}

// Wait returns the outcome, or ctx's error if ctx ends first
func (h *Handle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-h.done:
		return h.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Submit waits for a free slot, starts the task's race and returns its handle.
// Callers blocked in Submit are admitted in the order they arrived.
// If ctx ends while waiting, the handle is already resolved as KindCanceled.
// The only error is util.ErrShutdown after Shutdown has been called.
func (p *Pool) Submit(ctx context.Context, task Task) (*Handle, error) {
	p.mu.RLock()
	if p.shutdown.Load() {
		p.mu.RUnlock()
		return nil, fmt.Errorf("cannot submit task for %q: %w", task.Host, util.ErrShutdown)
	}
	p.wg.Add(1)
	p.mu.RUnlock()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		defer p.wg.Done()
		p.logger.Debug("task canceled while waiting for a slot", "index", task.Index, "host", task.Host)
		outcome := Outcome{
			Index:   task.Index,
			Host:    task.Host,
			Command: task.Command,
			Kind:    KindCanceled,
			Err:     fmt.Errorf("%w while queued: %w", util.ErrCanceled, err),
		}
		p.complete(outcome)
		return newResolvedHandle(outcome), nil
	}

	h := &Handle{task: task, admitted: true, done: make(chan struct{})}
	p.active.Add(1)

	p.logger.Debug("task admitted",
		"index", task.Index,
		"host", task.Host,
		"active", p.active.Load(),
		"workers", p.workers)

	go func() {
		defer p.wg.Done()

		outcome := race(ctx, p.exec, task, p.timeout, &p.running)

		h.outcome = outcome
		close(h.done)

		p.active.Add(-1)
		p.sem.Release(1)

		p.logOutcome(outcome)
		p.complete(outcome)
	}()

	return h, nil
}

func (p *Pool) complete(outcome Outcome) {
	if p.onComplete != nil {
		p.onComplete(outcome)
	}
}

func (p *Pool) logOutcome(o Outcome) {
	switch o.Kind {
	case KindSuccess:
		p.logger.Debug("task succeeded",
			"index", o.Index,
			"host", o.Host,
			"exit_code", o.ExitCode,
			"duration", o.Duration)
	case KindTimedOut:
		p.logger.Warn("task timed out, command abandoned",
			"index", o.Index,
			"host", o.Host,
			"timeout", p.timeout)
	default:
		p.logger.Warn("task failed",
			"index", o.Index,
			"host", o.Host,
			"kind", o.Kind.String(),
			"error", o.Err)
	}
}

// Shutdown stops accepting tasks and waits for submitted races to resolve.
// Commands abandoned by their race are not waited for.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.shutdown.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return fmt.Errorf("pool already shut down")
	}
	p.mu.Unlock()

	idle := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(idle)
	}()

	select {
	case <-idle:
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}

	if n := p.running.Load(); n > 0 {
		p.logger.Warn("abandoned commands still running", "count", n)
	}
	return nil
}

// IsShutdown returns true if the pool has been shut down
func (p *Pool) IsShutdown() bool {
	return p.shutdown.Load()
}

// WorkerCount returns the number of race slots
func (p *Pool) WorkerCount() int {
	return p.workers
}

// Active returns the number of races currently holding a slot
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Running returns the number of commands whose executor call has not returned,
// including commands abandoned after a timeout
func (p *Pool) Running() int {
	return int(p.running.Load())
}

package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aryankumar/fanout/internal/config"
)

// Dispatcher turns a run configuration into one outcome per hostname
type Dispatcher struct {
	exec       ShellExecutor
	logger     *slog.Logger
	progressFn func(completed, total int)
	startFn    func(Task)
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithExecutor replaces the platform shell
func WithExecutor(exec ShellExecutor) Option {
	return func(d *Dispatcher) {
		if exec != nil {
			d.exec = exec
		}
	}
}

// WithLogger sets the logger handed to the pool
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithProgress registers fn to be told after every resolved task how many of the
// total have resolved. Calls are serialized.
func WithProgress(fn func(completed, total int)) Option {
	return func(d *Dispatcher) {
		d.progressFn = fn
	}
}

// WithStartHook registers fn to be called with each task as it is admitted to a slot.
// Tasks canceled while queued never reach fn.
// Calls happen on the dispatching goroutine, in submission order.
func WithStartHook(fn func(Task)) Option {
	return func(d *Dispatcher) {
		d.startFn = fn
	}
}

// NewDispatcher creates a dispatcher that runs commands through the platform shell
// unless WithExecutor says otherwise
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		exec:   NewShell(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BuildTasks renders one task per hostname, in hostname order
func BuildTasks(cfg config.RunConfig) []Task {
	tasks := make([]Task, len(cfg.Hostnames))
	for i, host := range cfg.Hostnames {
		tasks[i] = Task{
			Index:   i,
			Host:    host,
			Command: Render(cfg.CommandTemplate, cfg.PlaceholderTag, host),
		}
	}
	return tasks
}

// Run validates cfg, runs every hostname's command through a pool of cfg.WorkerCount
// slots and returns the outcomes in hostname order: result[i] belongs to cfg.Hostnames[i].
//
// The returned error is non-nil only for an invalid configuration, in which case no
// command was started. Failures of individual commands are reported in their outcome.
func (d *Dispatcher) Run(ctx context.Context, cfg config.RunConfig) ([]Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	results := make([]Outcome, len(cfg.Hostnames))
	if len(cfg.Hostnames) == 0 {
		d.logger.Debug("no hostnames configured, nothing to run")
		return results, nil
	}

	total := len(cfg.Hostnames)
	var (
		progressMu sync.Mutex
		completed  int
	)
	onComplete := func(Outcome) {
		if d.progressFn == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		completed++
		d.progressFn(completed, total)
	}

	pool, err := NewPool(cfg.WorkerCount, d.exec, cfg.Timeout(), d.logger, WithOnComplete(onComplete))
	if err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	d.logger.Info("starting run",
		"hosts", total,
		"workers", cfg.WorkerCount,
		"timeout", cfg.Timeout())
	startTime := time.Now()

	tasks := BuildTasks(cfg)
	handles := make([]*Handle, len(tasks))
	for i, task := range tasks {
		h, err := pool.Submit(ctx, task)
		if err != nil {
			// The pool is private to this run, so this only happens if it was shut down underneath us.
			handles[i] = newResolvedHandle(Outcome{
				Index:   task.Index,
				Host:    task.Host,
				Command: task.Command,
				Kind:    KindCanceled,
				Err:     err,
			})
			continue
		}
		handles[i] = h
		if d.startFn != nil && h.Admitted() {
			d.startFn(task)
		}
	}

	for i, h := range handles {
		results[i] = h.Outcome()
	}

	if err := pool.Shutdown(context.Background()); err != nil {
		d.logger.Warn("pool shutdown", "error", err)
	}

	summary := Summarize(results)
	failedHosts := make([]string, 0, summary.Failed())
	for _, o := range FilterFailed(results) {
		failedHosts = append(failedHosts, o.Host)
	}
	d.logger.Info("run completed",
		"total", summary.Total,
		"successful", summary.Successful,
		"launch_failures", summary.LaunchFailures,
		"timed_out", summary.TimedOut,
		"canceled", summary.Canceled,
		"failed_hosts", failedHosts,
		"duration", time.Since(startTime))

	return results, nil
}

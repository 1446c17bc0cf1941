package executor

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aryankumar/fanout/internal/util"
)

type execResult struct {
	out Output
	err error
}

// Race runs task.Command on exec and waits for whichever comes first: the command
// finishing, timeout elapsing, or ctx being cancelled.
//
// A command that loses the race is abandoned, not killed. Its process keeps running and
// its result is dropped into a channel only this call owns, so it can never surface in
// another task's outcome.
//
// A timeout of zero or less has already elapsed when the race starts: the outcome is
// KindTimedOut and the command is never launched.
func Race(ctx context.Context, exec ShellExecutor, task Task, timeout time.Duration) Outcome {
	return race(ctx, exec, task, timeout, nil)
}

// race is Race with an optional gauge of executor calls that have not returned yet,
// abandoned ones included.
func race(ctx context.Context, exec ShellExecutor, task Task, timeout time.Duration, running *atomic.Int32) Outcome {
	start := time.Now()
	outcome := Outcome{
		Index:   task.Index,
		Host:    task.Host,
		Command: task.Command,
	}

	if timeout <= 0 {
		outcome.Kind = KindTimedOut
		outcome.Err = timeoutError(timeout)
		return outcome
	}

	if err := ctx.Err(); err != nil {
		outcome.Kind = KindCanceled
		outcome.Err = fmt.Errorf("%w before start: %w", util.ErrCanceled, err)
		return outcome
	}

	done := make(chan execResult, 1)
	if running != nil {
		running.Add(1)
	}
	go func() {
		out, err := exec.Execute(task.Command)
		if running != nil {
			running.Add(-1)
		}
		done <- execResult{out: out, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			outcome.Kind = KindLaunchFailure
			outcome.Err = res.err
		} else {
			outcome.Kind = KindSuccess
			outcome.Stdout = strings.TrimSpace(string(res.out.Stdout))
			outcome.Stderr = strings.TrimSpace(string(res.out.Stderr))
			outcome.ExitCode = res.out.ExitCode
		}
	case <-timer.C:
		outcome.Kind = KindTimedOut
		outcome.Err = timeoutError(timeout)
	case <-ctx.Done():
		outcome.Kind = KindCanceled
		outcome.Err = fmt.Errorf("%w: %w", util.ErrCanceled, ctx.Err())
	}

	outcome.Duration = time.Since(start)
	return outcome
}

func timeoutError(timeout time.Duration) error {
	return fmt.Errorf("%w after %s", util.ErrTimeout, timeout)
}

package executor

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// quietLogger keeps warn-level pool logs for timeouts out of test output
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoExecutor returns the command text as stdout
func echoExecutor() ExecutorFunc {
	return func(command string) (Output, error) {
		return Output{Stdout: []byte(command)}, nil
	}
}

// sleepExecutor sleeps for d and then echoes the command
func sleepExecutor(d time.Duration) ExecutorFunc {
	return func(command string) (Output, error) {
		time.Sleep(d)
		return Output{Stdout: []byte(command)}, nil
	}
}

// gatedExecutor blocks every call until gate is closed
func gatedExecutor(gate <-chan struct{}) ExecutorFunc {
	return func(command string) (Output, error) {
		<-gate
		return Output{Stdout: []byte(command)}, nil
	}
}

// failingExecutor fails to launch any command containing marker
func failingExecutor(marker string) ExecutorFunc {
	return func(command string) (Output, error) {
		if strings.Contains(command, marker) {
			return Output{}, &LaunchError{Command: command, Err: errors.New("fork/exec /bin/sh: resource temporarily unavailable")}
		}
		return Output{Stdout: []byte(command)}, nil
	}
}

// peakTracker records the highest number of concurrent calls it has seen
type peakTracker struct {
	running atomic.Int32
	peak    atomic.Int32
}

func (p *peakTracker) executor(d time.Duration) ExecutorFunc {
	return func(command string) (Output, error) {
		cur := p.running.Add(1)
		for {
			prev := p.peak.Load()
			if cur <= prev || p.peak.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(d)
		p.running.Add(-1)
		return Output{Stdout: []byte(command)}, nil
	}
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(d time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

package executor

import (
	"fmt"
	"strings"
	"time"

	"github.com/aryankumar/fanout/internal/util"
)

// CountByKind returns the number of outcomes of the given kind
func CountByKind(results []Outcome, kind Kind) int {
	count := 0
	for _, r := range results {
		if r.Kind == kind {
			count++
		}
	}
	return count
}

// CountSuccessful returns the number of commands that ran to completion
func CountSuccessful(results []Outcome) int {
	return CountByKind(results, KindSuccess)
}

// FilterByKind returns the outcomes of the given kind, in their original order
func FilterByKind(results []Outcome, kind Kind) []Outcome {
	filtered := make([]Outcome, 0, len(results))
	for _, r := range results {
		if r.Kind == kind {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterFailed returns every outcome that is not a success
func FilterFailed(results []Outcome) []Outcome {
	filtered := make([]Outcome, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// NonZeroExit returns successful outcomes whose command exited with a non-zero status
func NonZeroExit(results []Outcome) []Outcome {
	filtered := make([]Outcome, 0)
	for _, r := range FilterByKind(results, KindSuccess) {
		if r.ExitCode != 0 {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// AverageDuration calculates the average duration of all outcomes
func AverageDuration(results []Outcome) time.Duration {
	if len(results) == 0 {
		return 0
	}

	var total time.Duration
	for _, r := range results {
		total += r.Duration
	}

	return total / time.Duration(len(results))
}

// MaxDuration returns the maximum duration among all outcomes
func MaxDuration(results []Outcome) time.Duration {
	if len(results) == 0 {
		return 0
	}

	max := results[0].Duration
	for _, r := range results {
		if r.Duration > max {
			max = r.Duration
		}
	}
	return max
}

// Errors returns the cause of every failed outcome, tagged with its host
func Errors(results []Outcome) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, util.WrapHostError(r.Host, r.Err))
		}
	}
	return errs
}

// Summary provides a summary of run outcomes
type Summary struct {
	Total          int
	Successful     int
	LaunchFailures int
	TimedOut       int
	Canceled       int
	NonZeroExit    int
	AvgDuration    time.Duration
	MaxDuration    time.Duration
}

// Failed returns the number of outcomes that are not successes
func (s Summary) Failed() int {
	return s.Total - s.Successful
}

// Summarize creates a summary of the outcomes
func Summarize(results []Outcome) Summary {
	return Summary{
		Total:          len(results),
		Successful:     CountSuccessful(results),
		LaunchFailures: CountByKind(results, KindLaunchFailure),
		TimedOut:       CountByKind(results, KindTimedOut),
		Canceled:       CountByKind(results, KindCanceled),
		NonZeroExit:    len(NonZeroExit(results)),
		AvgDuration:    AverageDuration(results),
		MaxDuration:    MaxDuration(results),
	}
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Launch failures: %d, ", s.LaunchFailures))
	sb.WriteString(fmt.Sprintf("Timed out: %d", s.TimedOut))

	if s.Canceled > 0 {
		sb.WriteString(fmt.Sprintf(", Canceled: %d", s.Canceled))
	}

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}

// AllSuccessful returns true if every command ran to completion
func AllSuccessful(results []Outcome) bool {
	return CountSuccessful(results) == len(results)
}

// Package executor runs one shell command template against many hostnames.
//
// The package is built from four pieces, each usable on its own:
//
//   - Render substitutes a hostname for the placeholder tag in the command template.
//   - ShellExecutor runs a rendered command; Shell is the sh -c / cmd /C implementation.
//   - Race waits for one command against a deadline and reports which came first.
//   - Pool bounds how many races run at once and admits them in submission order.
//
// Dispatcher ties them together: it renders one task per hostname, submits every task
// to a Pool and reassembles the outcomes in hostname order.
//
// # Basic Usage
//
//	cfg := config.RunConfig{
//	    Hostnames:       []string{"a", "b"},
//	    CommandTemplate: "echo HOST",
//	    PlaceholderTag:  "HOST",
//	    WorkerCount:     2,
//	    TimeoutMillis:   1000,
//	}
//
//	results, err := executor.NewDispatcher().Run(ctx, cfg)
//	if err != nil {
//	    // invalid configuration, nothing was run
//	}
//	for i, r := range results {
//	    fmt.Println(cfg.Hostnames[i], r.Kind, r.Stdout)
//	}
//
// # Outcomes
//
// Every task ends in exactly one Outcome:
//
//   - KindSuccess: the shell ran and exited. A non-zero exit code is still a success;
//     it is reported in ExitCode.
//   - KindLaunchFailure: the shell could not be started. Err is a *LaunchError.
//   - KindTimedOut: the deadline elapsed first. Err matches util.ErrTimeout.
//   - KindCanceled: the run context ended first, e.g. on SIGINT. Err matches util.ErrCanceled.
//
// One task's failure never affects another task's outcome and never fails the run.
// Run returns an error only when the configuration is invalid, before anything starts.
//
// # Timeouts Do Not Kill
//
// A command that loses its race is abandoned, not terminated. Its process runs on
// unobserved and its eventual output is discarded. The abandoned command no longer
// holds a pool slot; Pool.Running reports how many executor calls are still live.
//
// # Ordering
//
// Results are always in hostname order, whatever order the commands finish in. Slots
// are granted in submission order by a FIFO semaphore (golang.org/x/sync/semaphore).
package executor

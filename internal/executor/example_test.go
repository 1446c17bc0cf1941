package executor_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aryankumar/fanout/internal/config"
	"github.com/aryankumar/fanout/internal/executor"
)

// Example runs a command template against two hosts through a fake executor
func Example() {
	cfg := config.RunConfig{
		Hostnames:       []string{"a", "b"},
		CommandTemplate: "echo HOST",
		PlaceholderTag:  "HOST",
		WorkerCount:     2,
		TimeoutMillis:   1000,
	}

	echo := executor.ExecutorFunc(func(command string) (executor.Output, error) {
		return executor.Output{Stdout: []byte(strings.TrimPrefix(command, "echo ") + "\n")}, nil
	})

	d := executor.NewDispatcher(
		executor.WithExecutor(echo),
		executor.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	results, err := d.Run(context.Background(), cfg)
	if err != nil {
		fmt.Println("invalid configuration:", err)
		return
	}

	for i, r := range results {
		fmt.Printf("%s: %s %q\n", cfg.Hostnames[i], r.Kind, r.Stdout)
	}
	// Output:
	// a: success "a"
	// b: success "b"
}

// ExampleRender shows literal placeholder substitution
func ExampleRender() {
	fmt.Println(executor.Render("ssh {{host}} uptime > {{host}}.log", "{{host}}", "web-1"))
	fmt.Println(executor.Render("uptime", "{{host}}", "web-1"))
	// Output:
	// ssh web-1 uptime > web-1.log
	// uptime
}

// ExampleRace shows a command losing against its deadline
func ExampleRace() {
	slow := executor.ExecutorFunc(func(command string) (executor.Output, error) {
		time.Sleep(200 * time.Millisecond)
		return executor.Output{}, nil
	})

	task := executor.Task{Index: 0, Host: "db-1", Command: "pg_isready -h db-1"}
	outcome := executor.Race(context.Background(), slow, task, 10*time.Millisecond)

	fmt.Println(outcome.Host, outcome.Kind)
	// Output:
	// db-1 timed-out
}

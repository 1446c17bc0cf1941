package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aryankumar/fanout/internal/config"
	"github.com/aryankumar/fanout/internal/executor"
	"github.com/aryankumar/fanout/internal/history"
	"github.com/aryankumar/fanout/internal/output"
	"github.com/aryankumar/fanout/internal/util"
	"github.com/spf13/cobra"
)

// ErrRunFailed is returned with --fail-on-error when at least one host did not succeed
var ErrRunFailed = errors.New("one or more commands did not complete")

// completedLine is printed after a text-format run
const completedLine = "Program completed!"

type rootOptions struct {
	configPath  string
	historyPath string
	output      string
	verbose     bool
	noColor     bool
	wide        bool
	failOnError bool

	// executor replaces the system shell; tests only
	executor executor.ShellExecutor
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&rootOptions{})
}

func newRootCmdWithOptions(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fanout",
		Short: "fanout - run one shell command against many hosts",
		Long: `fanout renders a shell command template once per hostname and runs the
commands in parallel with a bounded number of workers and a per-command timeout.

Results are reported in hostname order, whatever order the commands finish in.
A command that exceeds its timeout is reported as timed out; its process is not
killed and keeps running unobserved.`,
		Example: `  fanout --config hosts.json
  fanout -c hosts.yaml -o table -p 20 --timeout-ms 5000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFanout(cmd, opts)
		},
	}

	// Define persistent flags
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", string(output.FormatText), "output format ("+formatNames()+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	// Run flags
	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to the run configuration file (JSON or YAML)")
	rootCmd.Flags().IntP("parallel", "p", config.DefaultThreadCount, "number of commands run at once (overrides threadCount)")
	rootCmd.Flags().Int64("timeout-ms", config.DefaultTimeoutMs, "per-command timeout in milliseconds (overrides timeoutMs)")
	rootCmd.Flags().StringVar(&opts.historyPath, "history", "", "record the run in this SQLite database")
	rootCmd.Flags().BoolVar(&opts.wide, "wide", false, "show command and output columns in table format")
	rootCmd.Flags().BoolVar(&opts.failOnError, "fail-on-error", false, "exit non-zero when any command fails to launch, times out or is canceled")
	_ = rootCmd.MarkFlagRequired("config")
	registerFlagCompletions(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// runFanout loads the configuration, dispatches every host and prints the outcomes
func runFanout(cmd *cobra.Command, opts *rootOptions) error {
	format, err := output.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	loader := config.NewLoader(opts.configPath)
	if err := loader.BindFlag(config.KeyThreadCount, cmd.Flags().Lookup("parallel")); err != nil {
		return err
	}
	if err := loader.BindFlag(config.KeyTimeoutMs, cmd.Flags().Lookup("timeout-ms")); err != nil {
		return err
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	slog.Debug("loaded configuration",
		"file", loader.ConfigFileUsed(),
		"hosts", len(cfg.Hostnames),
		"workers", cfg.WorkerCount,
		"timeout", cfg.Timeout())

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	dispatchOpts := []executor.Option{
		executor.WithLogger(slog.Default()),
		executor.WithProgress(func(completed, total int) {
			slog.Debug("progress", "completed", completed, "total", total)
		}),
	}
	if opts.executor != nil {
		dispatchOpts = append(dispatchOpts, executor.WithExecutor(opts.executor))
	}
	if format == output.FormatText {
		dispatchOpts = append(dispatchOpts, executor.WithStartHook(func(task executor.Task) {
			fmt.Fprintln(stdout, output.RunningLine(task.Command))
		}))
	}

	startedAt := time.Now()
	results, err := executor.NewDispatcher(dispatchOpts...).Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format,
		output.WithNoColor(opts.noColor),
		output.WithWide(opts.wide),
		output.WithErrWriter(stderr),
	)
	if err := formatter.FormatRun(stdout, results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if opts.historyPath != "" {
		if err := recordRun(cmd, opts.historyPath, cfg, startedAt, results); err != nil {
			return err
		}
	}

	if opts.failOnError && !executor.AllSuccessful(results) {
		summary := executor.Summarize(results)
		return fmt.Errorf("%w (%d of %d): %w", ErrRunFailed, summary.Failed(), summary.Total,
			util.CombineErrors(executor.Errors(results)...))
	}

	if format == output.FormatText {
		fmt.Fprintln(stdout, completedLine)
	}
	return nil
}

// recordRun appends the finished run to the history database
func recordRun(cmd *cobra.Command, path string, cfg config.RunConfig, startedAt time.Time, results []executor.Outcome) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	// the run context may already be canceled; the results are still worth keeping
	id, err := store.Record(context.WithoutCancel(cmd.Context()), cfg, startedAt, results)
	if err != nil {
		return fmt.Errorf("failed to record run history: %w", err)
	}
	slog.Debug("recorded run", "id", id, "database", path)
	return nil
}

func formatNames() string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	// Run start/finish logs are info level and only shown with --verbose
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}

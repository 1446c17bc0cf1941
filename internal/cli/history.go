package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aryankumar/fanout/internal/executor"
	"github.com/aryankumar/fanout/internal/history"
	"github.com/aryankumar/fanout/internal/output"
	"github.com/spf13/cobra"
)

type historyOptions struct {
	dbPath    string
	limit     int
	noHeaders bool
}

// newHistoryCmd creates the history command
func newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "List recorded runs or show one run's results",
		Long: `List runs recorded with --history, newest first.

With a RUN_ID, print the stored outcome of every host in that run, in hostname order.`,
		Example: `  fanout history --db runs.db
  fanout history --db runs.db 12 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.dbPath, "db", "", "path to the history database")
	cmd.Flags().IntVar(&opts.limit, "limit", history.DefaultLimit, "maximum number of runs to list")
	cmd.Flags().BoolVar(&opts.noHeaders, "no-headers", false, "omit table headers")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagFilename("db", "db", "sqlite")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *historyOptions, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	store, err := history.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	formatter := output.NewFormatter(format, output.WithNoHeaders(opts.noHeaders))

	if len(args) == 0 {
		runs, err := store.ListRuns(ctx, opts.limit)
		if err != nil {
			return err
		}
		return formatter.Format(w, runList(runs))
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}
	if _, err := store.GetRun(ctx, id); err != nil {
		return err
	}
	entries, err := store.Entries(ctx, id)
	if err != nil {
		return err
	}
	return formatter.Format(w, entryList(entries))
}

// runList prints as one row per recorded run
type runList []history.Run

func (runList) Headers() []string {
	return []string{"ID", "STARTED", "HOSTS", "OK", "FAILED", "DURATION", "COMMAND"}
}

func (l runList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Format(time.DateTime),
			strconv.Itoa(r.HostCount),
			strconv.Itoa(r.Successful),
			strconv.Itoa(r.Failed),
			r.Duration().Round(time.Millisecond).String(),
			r.Command,
		})
	}
	return rows
}

// entryList prints as one row per host of a single run
type entryList []history.Entry

func (entryList) Headers() []string {
	return []string{"HOST", "STATUS", "EXIT", "DURATION", "OUTPUT"}
}

func (l entryList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		exit := "-"
		if e.Status == executor.KindSuccess.String() {
			exit = strconv.Itoa(e.ExitCode)
		}

		out := e.Error
		if out == "" {
			out = strings.TrimSpace(e.Stdout)
		}
		if out == "" {
			out = strings.TrimSpace(e.Stderr)
		}
		if i := strings.IndexByte(out, '\n'); i >= 0 {
			out = out[:i]
		}

		rows = append(rows, []string{e.Host, e.Status, exit, e.Duration.String(), out})
	}
	return rows
}

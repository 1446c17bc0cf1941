package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aryankumar/fanout/internal/executor"
	"github.com/olekukonko/tablewriter"
)

// maxCellWidth bounds the OUTPUT and COMMAND columns in wide mode
const maxCellWidth = 50

var statusLabels = map[executor.Kind]string{
	executor.KindSuccess:       "Success",
	executor.KindLaunchFailure: "LaunchFailed",
	executor.KindTimedOut:      "TimedOut",
	executor.KindCanceled:      "Canceled",
}

// TableFormatter formats output as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case Tabular:
		return f.FormatRows(w, v.Headers(), v.Rows())
	case nil:
		return nil
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// FormatRun outputs one row per outcome followed by a summary line
func (f *TableFormatter) FormatRun(w io.Writer, results []executor.Outcome) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"HOST", "STATUS", "EXIT", "DURATION"}
	if f.options.Wide {
		headers = append(headers, "COMMAND", "OUTPUT")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	for _, result := range results {
		table.Append(f.formatOutcomeRow(result, colors))
	}

	table.Render()

	f.printSummary(w, results, colors)

	return nil
}

// formatOutcomeRow formats a single outcome as a table row
func (f *TableFormatter) formatOutcomeRow(o executor.Outcome, colors *ColorScheme) []string {
	host := o.Host
	if !colors.Disabled {
		host = colors.Host(host)
	}

	status := statusLabel(o.Kind)
	if !colors.Disabled {
		status = colors.OutcomeColor(o)(status)
	}

	exit := "-"
	if o.OK() {
		exit = strconv.Itoa(o.ExitCode)
	}

	duration := o.Duration.Round(time.Millisecond).String()
	if !colors.Disabled {
		duration = colors.Duration(duration)
	}

	row := []string{host, status, exit, duration}

	if f.options.Wide {
		out := ""
		switch {
		case o.Err != nil:
			out = o.Err.Error()
		case strings.TrimSpace(o.Stdout) != "":
			out = strings.TrimSpace(o.Stdout)
		default:
			out = strings.TrimSpace(o.Stderr)
		}
		row = append(row, truncate(o.Command), truncate(firstLine(out)))
	}

	return row
}

func statusLabel(kind executor.Kind) string {
	if label, ok := statusLabels[kind]; ok {
		return label
	}
	return kind.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string) string {
	if len(s) > maxCellWidth {
		return s[:maxCellWidth-3] + "..."
	}
	return s
}

// FormatRows renders pre-built rows under the given headers
func (f *TableFormatter) FormatRows(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	table := f.createTable(w)
	if !f.options.NoHeaders {
		table.SetHeader(headers)
	}
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// createTable creates a new borderless, tab-padded table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the outcomes
func (f *TableFormatter) printSummary(w io.Writer, results []executor.Outcome, colors *ColorScheme) {
	summary := executor.Summarize(results)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := fmt.Sprintf("%d successful", summary.Successful)
	if !colors.Disabled {
		successText = colors.Success(successText)
	}

	failedText := fmt.Sprintf("%d failed", summary.Failed())
	if !colors.Disabled && summary.Failed() > 0 {
		failedText = colors.Error(failedText)
	}

	parts := []string{successText, failedText}

	if summary.TimedOut > 0 {
		timedOut := fmt.Sprintf("%d timed out", summary.TimedOut)
		if !colors.Disabled {
			timedOut = colors.Warning(timedOut)
		}
		parts = append(parts, timedOut)
	}

	durationText := fmt.Sprintf("avg=%s", summary.AvgDuration.Round(time.Millisecond))
	if !colors.Disabled {
		durationText = colors.Duration(durationText)
	}
	parts = append(parts, durationText)

	fmt.Fprintln(w, strings.Join(parts, ", "))
}

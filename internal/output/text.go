package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aryankumar/fanout/internal/executor"
)

// TextFormatter prints one line per outcome:
//
//	Command completion: [stdout: '...', stderr: '...']
//	Command error: ...
//
// Error lines go to Options.ErrWriter when it is set.
type TextFormatter struct {
	options *Options
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(opts *Options) *TextFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TextFormatter{
		options: opts,
	}
}

// Format prints tabular data as a plain table and anything else with its default formatting
func (f *TextFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case Tabular:
		table := NewTableFormatter(&Options{NoColor: true, NoHeaders: f.options.NoHeaders})
		return table.FormatRows(w, v.Headers(), v.Rows())
	case nil:
		return nil
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// FormatRun prints a completion or error line for every outcome, in order
func (f *TextFormatter) FormatRun(w io.Writer, results []executor.Outcome) error {
	errW := f.options.ErrWriter
	if errW == nil {
		errW = w
	}

	for _, o := range results {
		if o.OK() {
			if _, err := fmt.Fprintln(w, CompletionLine(o)); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(errW, ErrorLine(o)); err != nil {
			return err
		}
	}
	return nil
}

// RunningLine is printed when a command is handed to a worker
func RunningLine(command string) string {
	return "Running command: " + command
}

// CompletionLine describes a command that ran to completion
func CompletionLine(o executor.Outcome) string {
	return fmt.Sprintf("Command completion: [stdout: '%s', stderr: '%s']",
		strings.TrimSpace(o.Stdout), strings.TrimSpace(o.Stderr))
}

// ErrorLine describes a command that did not run to completion
func ErrorLine(o executor.Outcome) string {
	if o.Err == nil {
		return "Command error: " + o.Kind.String()
	}
	return "Command error: " + o.Err.Error()
}

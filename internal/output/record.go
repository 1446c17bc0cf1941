package output

import (
	"strings"
	"time"

	"github.com/aryankumar/fanout/internal/executor"
)

// Record is the structured form of one outcome, shared by the JSON and YAML formatters
type Record struct {
	Host     string `json:"host" yaml:"host"`
	Command  string `json:"command" yaml:"command"`
	Status   string `json:"status" yaml:"status"`
	Stdout   string `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	ExitCode *int   `json:"exitCode,omitempty" yaml:"exitCode,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Duration string `json:"duration" yaml:"duration"`
}

// NewRecord converts an outcome. Output is trimmed; the exit code is only set for successes.
func NewRecord(o executor.Outcome) Record {
	r := Record{
		Host:     o.Host,
		Command:  o.Command,
		Status:   o.Kind.String(),
		Duration: o.Duration.Round(time.Millisecond).String(),
	}

	if o.OK() {
		code := o.ExitCode
		r.ExitCode = &code
		r.Stdout = strings.TrimSpace(o.Stdout)
		r.Stderr = strings.TrimSpace(o.Stderr)
	} else if o.Err != nil {
		r.Error = o.Err.Error()
	}

	return r
}

// NewRecords converts outcomes, keeping their order
func NewRecords(results []executor.Outcome) []Record {
	records := make([]Record, len(results))
	for i, o := range results {
		records[i] = NewRecord(o)
	}
	return records
}

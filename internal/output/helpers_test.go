package output

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aryankumar/fanout/internal/executor"
	"github.com/aryankumar/fanout/internal/util"
)

// sampleOutcomes covers every outcome kind, including a non-zero exit
func sampleOutcomes() []executor.Outcome {
	return []executor.Outcome{
		{
			Index: 0, Host: "web-1", Command: "uptime web-1",
			Kind: executor.KindSuccess, Stdout: " up 3 days\n", Stderr: "",
			Duration: 120 * time.Millisecond,
		},
		{
			Index: 1, Host: "web-2", Command: "uptime web-2",
			Kind: executor.KindSuccess, Stderr: "host unreachable\n", ExitCode: 255,
			Duration: 80 * time.Millisecond,
		},
		{
			Index: 2, Host: "db-1", Command: "uptime db-1",
			Kind:     executor.KindTimedOut,
			Err:      fmt.Errorf("%w after %s", util.ErrTimeout, time.Second),
			Duration: time.Second,
		},
		{
			Index: 3, Host: "db-2", Command: "uptime db-2",
			Kind:     executor.KindLaunchFailure,
			Err:      &executor.LaunchError{Command: "uptime db-2", Err: errors.New("exec: \"sh\": executable file not found in $PATH")},
			Duration: time.Millisecond,
		},
	}
}

type hostLoad struct {
	Host string  `json:"host" yaml:"host"`
	Load float64 `json:"load" yaml:"load"`
}

// hostLoads is a small Tabular value for Format tests
type hostLoads []hostLoad

func (hostLoads) Headers() []string {
	return []string{"HOST", "LOAD"}
}

func (h hostLoads) Rows() [][]string {
	rows := make([][]string, 0, len(h))
	for _, r := range h {
		rows = append(rows, []string{r.Host, strconv.FormatFloat(r.Load, 'f', 2, 64)})
	}
	return rows
}

func sampleLoads() hostLoads {
	return hostLoads{{Host: "web-1", Load: 0.5}, {Host: "db-1", Load: 2.25}}
}

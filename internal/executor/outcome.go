package executor

import (
	"fmt"
	"time"
)

// Kind tags which way a task ended
type Kind int

const (
	// KindSuccess means the shell ran and exited, whatever its exit code
	KindSuccess Kind = iota
	// KindLaunchFailure means the shell could not be started
	KindLaunchFailure
	// KindTimedOut means the deadline elapsed before the command finished
	KindTimedOut
	// KindCanceled means the run context was cancelled before the command finished
	KindCanceled
)

var kindNames = map[Kind]string{
	KindSuccess:       "success",
	KindLaunchFailure: "launch-failure",
	KindTimedOut:      "timed-out",
	KindCanceled:      "canceled",
}

// String returns the lower-case name used in logs and structured output
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText lets JSON and YAML encoders print the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Task is one hostname's unit of work
type Task struct {
	// Index is the hostname's position in the configured list
	Index int

	// Host is the hostname the command was rendered for
	Host string

	// Command is the rendered shell command
	Command string
}

// Outcome is the result of one task. Exactly one outcome exists per task and it is
// never modified after the race that produced it returns.
type Outcome struct {
	// Index, Host and Command identify the task this outcome belongs to
	Index   int
	Host    string
	Command string

	// Kind says which of the outcome variants this is
	Kind Kind

	// Stdout, Stderr and ExitCode are set for KindSuccess only.
	// Both streams have surrounding whitespace trimmed; the raw bytes stay in Output.
	Stdout   string
	Stderr   string
	ExitCode int

	// Err is the cause for every kind except KindSuccess
	Err error

	// Duration is how long the task waited for its command
	Duration time.Duration
}

// OK reports whether the command ran to completion
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

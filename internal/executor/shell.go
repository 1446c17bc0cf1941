package executor

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/aryankumar/fanout/internal/util"
)

// Output is what a finished shell process left behind
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ShellExecutor runs one command string to completion.
// Only failing to start the shell is an error; a non-zero exit status is a normal Output.
// Implementations may block for as long as the command runs.
type ShellExecutor interface {
	Execute(command string) (Output, error)
}

// ExecutorFunc adapts a plain function to ShellExecutor
type ExecutorFunc func(command string) (Output, error)

// Execute calls f(command)
func (f ExecutorFunc) Execute(command string) (Output, error) {
	return f(command)
}

// LaunchError reports that the shell for a command could not be started.
// It matches util.ErrLaunchFailed and the underlying cause under errors.Is.
type LaunchError struct {
	Command string
	Err     error
}

// Error implements the error interface
func (e *LaunchError) Error() string {
	return fmt.Sprintf("%v: %v", util.ErrLaunchFailed, e.Err)
}

// Unwrap exposes both the launch sentinel and the cause
func (e *LaunchError) Unwrap() []error {
	return []error{util.ErrLaunchFailed, e.Err}
}

// Shell runs commands through the platform command interpreter
type Shell struct {
	// Path is the interpreter, "sh" or "cmd"
	Path string

	// Flag precedes the command string, "-c" or "/C"
	Flag string
}

// NewShell returns the interpreter for the running platform
func NewShell() *Shell {
	if runtime.GOOS == "windows" {
		return &Shell{Path: "cmd", Flag: "/C"}
	}
	return &Shell{Path: "sh", Flag: "-c"}
}

// Execute runs command as the single argument after s.Flag and waits for it to exit.
// The process is not tied to any deadline; callers that stop waiting leave it running.
func (s *Shell) Execute(command string) (Output, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.Command(s.Path, s.Flag, command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Output{}, &LaunchError{Command: command, Err: err}
		}
	}

	return Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

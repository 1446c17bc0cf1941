package executor

import (
	"errors"
	"io/fs"
	"runtime"
	"strings"
	"testing"

	"github.com/aryankumar/fanout/internal/util"
)

func TestNewShell(t *testing.T) {
	sh := NewShell()
	if runtime.GOOS == "windows" {
		if sh.Path != "cmd" || sh.Flag != "/C" {
			t.Errorf("unexpected windows shell %+v", sh)
		}
		return
	}
	if sh.Path != "sh" || sh.Flag != "-c" {
		t.Errorf("unexpected POSIX shell %+v", sh)
	}
}

func TestShell_Execute(t *testing.T) {
	skipWithoutPOSIXShell(t)

	tests := []struct {
		name       string
		command    string
		wantStdout string
		wantStderr string
		wantExit   int
	}{
		{name: "stdout", command: "echo hello", wantStdout: "hello"},
		{name: "stderr", command: "echo warn >&2", wantStderr: "warn"},
		{name: "non-zero exit", command: "exit 4", wantExit: 4},
		{name: "whole string goes to the shell", command: "echo a && echo b", wantStdout: "a\nb"},
		{name: "command not found is a shell result", command: "definitely-not-a-command-xyz", wantExit: 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewShell().Execute(tt.command)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.TrimSpace(string(out.Stdout)); got != tt.wantStdout {
				t.Errorf("stdout %q, want %q", got, tt.wantStdout)
			}
			if tt.wantStderr != "" {
				if got := strings.TrimSpace(string(out.Stderr)); got != tt.wantStderr {
					t.Errorf("stderr %q, want %q", got, tt.wantStderr)
				}
			}
			if out.ExitCode != tt.wantExit {
				t.Errorf("exit code %d, want %d", out.ExitCode, tt.wantExit)
			}
		})
	}
}

func TestShell_Execute_LaunchError(t *testing.T) {
	sh := &Shell{Path: "/nonexistent/fanout-test-shell", Flag: "-c"}

	_, err := sh.Execute("echo hi")
	if err == nil {
		t.Fatal("expected launch error")
	}

	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("expected *LaunchError, got %T", err)
	}
	if launchErr.Command != "echo hi" {
		t.Errorf("unexpected command %q", launchErr.Command)
	}
	if !util.IsLaunchError(err) {
		t.Error("expected error to match ErrLaunchFailed")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected the underlying not-exist cause to be kept, got %v", err)
	}
}

func TestExecutorFunc(t *testing.T) {
	var got string
	f := ExecutorFunc(func(command string) (Output, error) {
		got = command
		return Output{ExitCode: 1}, nil
	})

	out, err := f.Execute("probe")
	if err != nil || out.ExitCode != 1 || got != "probe" {
		t.Errorf("ExecutorFunc did not forward the call: %v %+v %q", err, out, got)
	}
}

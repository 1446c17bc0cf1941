package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestHostError(t *testing.T) {
	baseErr := errors.New("exec: \"sh\": executable file not found in $PATH")
	hostErr := WrapHostError("web-1", baseErr)

	if hostErr == nil {
		t.Fatal("expected error, got nil")
	}

	expectedMsg := `host "web-1": exec: "sh": executable file not found in $PATH`
	if hostErr.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, hostErr.Error())
	}

	if !errors.Is(hostErr, baseErr) {
		t.Error("expected host error to wrap base error")
	}

	if WrapHostError("web-1", nil) != nil {
		t.Error("expected nil when wrapping nil")
	}
}

func TestMultiError(t *testing.T) {
	t.Run("empty multi-error", func(t *testing.T) {
		m := &MultiError{}
		if m.ErrorOrNil() != nil {
			t.Error("expected nil for empty multi-error")
		}
		if m.Error() != "no errors" {
			t.Errorf("unexpected message %q", m.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		m := &MultiError{}
		m.Add(errors.New("test error"))

		if m.Error() != "test error" {
			t.Errorf("expected %q, got %q", "test error", m.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := CombineErrors(errors.New("error 1"), nil, errors.New("error 2"), errors.New("error 3"))

		msg := err.Error()
		if !strings.Contains(msg, "3 errors occurred") {
			t.Errorf("expected message to contain '3 errors occurred', got %q", msg)
		}
		if !strings.Contains(msg, "error 1") {
			t.Errorf("expected message to contain 'error 1', got %q", msg)
		}
	})

	t.Run("all nil combines to nil", func(t *testing.T) {
		if err := CombineErrors(nil, nil); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("many errors truncation", func(t *testing.T) {
		m := &MultiError{}
		for i := 0; i < 20; i++ {
			m.Add(fmt.Errorf("error %d", i+1))
		}

		msg := m.Error()
		if !strings.Contains(msg, "and 10 more errors") {
			t.Errorf("expected truncation message, got %q", msg)
		}
	})

	t.Run("errors.Is sees members", func(t *testing.T) {
		err := CombineErrors(errors.New("other"), NewValidationError("threadCount", 0, "must be positive"))
		if !IsConfigError(err) {
			t.Error("expected multi-error holding a validation error to be a config error")
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with value", func(t *testing.T) {
		err := NewValidationError("threadCount", 0, "must be positive")
		expectedMsg := `validation failed for field "threadCount" (value: 0): must be positive`
		if err.Error() != expectedMsg {
			t.Errorf("expected %q, got %q", expectedMsg, err.Error())
		}
	})

	t.Run("without value", func(t *testing.T) {
		err := NewValidationError("cmdToRun", nil, "is required")
		expectedMsg := `validation failed for field "cmdToRun": is required`
		if err.Error() != expectedMsg {
			t.Errorf("expected %q, got %q", expectedMsg, err.Error())
		}
	})

	t.Run("is a config error", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", NewValidationError("timeoutMs", -1, "must not be negative"))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Error("expected validation error to match ErrInvalidConfig")
		}

		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Field != "timeoutMs" {
			t.Errorf("expected errors.As to find the validation error, got %v", vErr)
		}
	})
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isConfig bool
		timeout  bool
		canceled bool
		launch   bool
	}{
		{name: "nil", err: nil},
		{name: "config", err: fmt.Errorf("x: %w", ErrInvalidConfig), isConfig: true},
		{name: "timeout", err: WrapHostError("h", ErrTimeout), timeout: true},
		{name: "canceled", err: WrapHostError("h", ErrCanceled), canceled: true},
		{name: "launch", err: fmt.Errorf("start sh: %w", ErrLaunchFailed), launch: true},
		{name: "unrelated", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigError(tt.err); got != tt.isConfig {
				t.Errorf("IsConfigError = %v, want %v", got, tt.isConfig)
			}
			if got := IsTimeout(tt.err); got != tt.timeout {
				t.Errorf("IsTimeout = %v, want %v", got, tt.timeout)
			}
			if got := IsCanceled(tt.err); got != tt.canceled {
				t.Errorf("IsCanceled = %v, want %v", got, tt.canceled)
			}
			if got := IsLaunchError(tt.err); got != tt.launch {
				t.Errorf("IsLaunchError = %v, want %v", got, tt.launch)
			}
		})
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "nil", err: nil, contains: ""},
		{name: "config", err: NewValidationError("threadCount", 0, "must be positive"), contains: "Invalid configuration"},
		{name: "timeout", err: ErrTimeout, contains: "--timeout-ms"},
		{name: "canceled", err: ErrCanceled, contains: "interrupted"},
		{name: "launch", err: ErrLaunchFailed, contains: "shell could not be started"},
		{name: "shutdown", err: ErrShutdown, contains: "shut down"},
		{name: "unknown", err: errors.New("something odd"), contains: "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FriendlyError(tt.err)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FriendlyError() = %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestCauses(t *testing.T) {
	root := errors.New("open cfg.json: no such file or directory")
	err := fmt.Errorf("loading config: %w", fmt.Errorf("reading config file: %w", root))

	causes := Causes(err)
	if len(causes) != 2 {
		t.Fatalf("expected 2 causes, got %d: %v", len(causes), causes)
	}
	if causes[1] != root {
		t.Errorf("expected innermost cause to be the root error, got %v", causes[1])
	}

	t.Run("joined errors end the chain", func(t *testing.T) {
		a, b := errors.New("a"), errors.New("b")
		joined := fmt.Errorf("invalid config: %w", CombineErrors(a, b))

		causes := Causes(joined)
		if len(causes) != 3 {
			t.Fatalf("expected multi-error plus 2 members, got %v", causes)
		}
		if causes[1] != a || causes[2] != b {
			t.Errorf("unexpected members: %v", causes[1:])
		}
	})

	t.Run("no wrapping", func(t *testing.T) {
		if got := Causes(root); len(got) != 0 {
			t.Errorf("expected no causes, got %v", got)
		}
	})
}

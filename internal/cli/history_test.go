package cli

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aryankumar/fanout/internal/history"
)

func TestHistory_RecordAndList(t *testing.T) {
	configPath := writeConfig(t, "run.json", echoConfig)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	for i := 0; i < 2; i++ {
		if _, _, err := runRoot(t, &rootOptions{executor: echoExecutor()}, "-c", configPath, "--history", dbPath, "-o", "json"); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	t.Run("list runs", func(t *testing.T) {
		stdout, _, err := runRoot(t, &rootOptions{}, "history", "--db", dbPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"ID", "STARTED", "COMMAND", "echo HOST"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("history output missing %q\nGot: %s", want, stdout)
			}
		}
		if strings.Count(stdout, "echo HOST") != 2 {
			t.Errorf("expected two runs listed\nGot: %s", stdout)
		}
	})

	t.Run("list runs without headers", func(t *testing.T) {
		stdout, _, err := runRoot(t, &rootOptions{}, "history", "--db", dbPath, "--no-headers")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(stdout, "STARTED") {
			t.Errorf("headers printed despite --no-headers\nGot: %s", stdout)
		}
		if strings.Count(stdout, "echo HOST") != 2 {
			t.Errorf("expected two runs listed\nGot: %s", stdout)
		}
	})

	t.Run("list runs as json with limit", func(t *testing.T) {
		stdout, _, err := runRoot(t, &rootOptions{}, "history", "--db", dbPath, "--limit", "1", "-o", "json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var runs []history.Run
		if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if len(runs) != 1 || runs[0].ID != 2 || runs[0].Successful != 2 {
			t.Errorf("unexpected runs %+v", runs)
		}
	})

	t.Run("show run", func(t *testing.T) {
		stdout, _, err := runRoot(t, &rootOptions{}, "history", "--db", dbPath, "1", "-o", "table")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"HOST", "STATUS", "success"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("run output missing %q\nGot: %s", want, stdout)
			}
		}
		if strings.Index(stdout, "\na") > strings.Index(stdout, "\nb") {
			t.Errorf("entries out of hostname order\nGot: %s", stdout)
		}
	})
}

func TestHistory_Errors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	tests := []struct {
		name        string
		args        []string
		wantErr     error
		errContains string
	}{
		{name: "missing db flag", args: []string{"history"}, errContains: `required flag(s) "db" not set`},
		{name: "bad run id", args: []string{"history", "--db", dbPath, "abc"}, errContains: "invalid run id"},
		{name: "unknown run", args: []string{"history", "--db", dbPath, "7"}, wantErr: history.ErrRunNotFound},
		{name: "too many args", args: []string{"history", "--db", dbPath, "1", "2"}, errContains: "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runRoot(t, &rootOptions{}, tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
			}
		})
	}
}

func TestHistory_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := runRoot(t, &rootOptions{}, "history", "--db", dbPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No results") {
		t.Errorf("expected empty listing, got %q", stdout)
	}
}

// Package history records finished runs in a SQLite database so earlier
// results can be listed and inspected after the process exits.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aryankumar/fanout/internal/config"
	"github.com/aryankumar/fanout/internal/executor"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// DefaultLimit is used by ListRuns when limit <= 0
const DefaultLimit = 20

// ErrRunNotFound is returned when a run id does not exist
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid            TEXT    NOT NULL UNIQUE,
	command         TEXT    NOT NULL,
	hostname_tag    TEXT    NOT NULL,
	worker_count    INTEGER NOT NULL,
	timeout_ms      INTEGER NOT NULL,
	host_count      INTEGER NOT NULL,
	successful      INTEGER NOT NULL,
	failed          INTEGER NOT NULL,
	started_at_ms   INTEGER NOT NULL,
	finished_at_ms  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx          INTEGER NOT NULL,
	host         TEXT    NOT NULL,
	command      TEXT    NOT NULL,
	status       TEXT    NOT NULL,
	stdout       TEXT    NOT NULL,
	stderr       TEXT    NOT NULL,
	exit_code    INTEGER NOT NULL,
	error_text   TEXT    NOT NULL,
	duration_ms  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id, idx);
`

// Run is one recorded invocation
type Run struct {
	ID          int64     `json:"id" yaml:"id"`
	UUID        string    `json:"uuid" yaml:"uuid"`
	Command     string    `json:"command" yaml:"command"`
	HostnameTag string    `json:"hostnameTag" yaml:"hostnameTag"`
	WorkerCount int       `json:"workerCount" yaml:"workerCount"`
	TimeoutMs   int64     `json:"timeoutMs" yaml:"timeoutMs"`
	HostCount   int       `json:"hostCount" yaml:"hostCount"`
	Successful  int       `json:"successful" yaml:"successful"`
	Failed      int       `json:"failed" yaml:"failed"`
	StartedAt   time.Time `json:"startedAt" yaml:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt" yaml:"finishedAt"`
}

// Duration is the wall-clock time of the run
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Entry is one host's stored outcome
type Entry struct {
	Index      int           `json:"index" yaml:"index"`
	Host       string        `json:"host" yaml:"host"`
	Command    string        `json:"command" yaml:"command"`
	Status     string        `json:"status" yaml:"status"`
	Stdout     string        `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	ExitCode   int           `json:"exitCode" yaml:"exitCode"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration   time.Duration `json:"-" yaml:"-"`
	DurationMs int64         `json:"durationMs" yaml:"durationMs"`
}

// Store persists runs in a SQLite database
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history database path is empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", path, err)
	}
	// one connection keeps ":memory:" databases alive across calls and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished run and its outcomes in one transaction and returns the run id.
// Each run is also tagged with a random UUID.
func (s *Store) Record(ctx context.Context, cfg config.RunConfig, startedAt time.Time, results []executor.Outcome) (int64, error) {
	summary := executor.Summarize(results)
	runUUID := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO runs(uuid,command,hostname_tag,worker_count,timeout_ms,host_count,successful,failed,started_at_ms,finished_at_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		runUUID.String(), cfg.CommandTemplate, cfg.PlaceholderTag, cfg.WorkerCount, cfg.TimeoutMillis,
		len(results), summary.Successful, summary.Failed(),
		startedAt.UnixMilli(), s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results(run_id,idx,host,command,status,stdout,stderr,exit_code,error_text,duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range results {
		errText := ""
		if o.Err != nil {
			errText = o.Err.Error()
		}
		if _, err := stmt.ExecContext(ctx, runID, o.Index, o.Host, o.Command, o.Kind.String(),
			o.Stdout, o.Stderr, o.ExitCode, errText, o.Duration.Milliseconds()); err != nil {
			return 0, fmt.Errorf("failed to insert result for %s: %w", o.Host, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit history: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id,uuid,command,hostname_tag,worker_count,timeout_ms,host_count,successful,failed,started_at_ms,finished_at_ms
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by id
func (s *Store) GetRun(ctx context.Context, id int64) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,uuid,command,hostname_tag,worker_count,timeout_ms,host_count,successful,failed,started_at_ms,finished_at_ms
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return run, err
}

// Entries returns the stored outcomes of a run in hostname order
func (s *Store) Entries(ctx context.Context, runID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT idx,host,command,status,stdout,stderr,exit_code,error_text,duration_ms
		FROM results WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Index, &e.Host, &e.Command, &e.Status, &e.Stdout, &e.Stderr, &e.ExitCode, &e.Error, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		e.Duration = time.Duration(e.DurationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                   Run
		startedMs, finishedMs int64
	)
	err := row.Scan(&run.ID, &run.UUID, &run.Command, &run.HostnameTag, &run.WorkerCount, &run.TimeoutMs,
		&run.HostCount, &run.Successful, &run.Failed, &startedMs, &finishedMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.StartedAt = time.UnixMilli(startedMs)
	run.FinishedAt = time.UnixMilli(finishedMs)
	return run, nil
}

// Package journal keeps a SQLite history of rebase and cascade runs.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusHalted  = "halted"
	StatusFailed  = "failed"
	StatusAborted = "aborted"
)

// Run is one rebase or cascade invocation, including resumptions via continue.
type Run struct {
	ID         string
	Operation  string
	Start      string
	Status     string
	Summary    string
	StartedAt  time.Time
	FinishedAt *time.Time
	Steps      []Step
}

// Step is the recorded outcome of one branch within a run
type Step struct {
	Branch  string
	Parent  string
	Outcome string
	Reason  string
}

// Journal is the run history database
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal at path and initializes its schema.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	j := &Journal{db: db, now: time.Now}
	if err := j.Initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	return j.db.Close()
}

// Initialize creates the database schema
func (j *Journal) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		start_branch TEXT NOT NULL,
		status TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		finished_at TEXT
	);

	CREATE TABLE IF NOT EXISTS steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		branch TEXT NOT NULL,
		parent TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_steps_run ON steps(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}
	return nil
}

// BeginRun records a new running run and returns its id.
func (j *Journal) BeginRun(ctx context.Context, operation, start string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, operation, start_branch, status, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, operation, start, StatusRunning, formatTime(j.now()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// RecordStep appends a branch outcome to a run.
func (j *Journal) RecordStep(ctx context.Context, runID string, step Step) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO steps (run_id, branch, parent, outcome, reason)
		VALUES (?, ?, ?, ?, ?)`,
		runID, step.Branch, step.Parent, step.Outcome, step.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record step: %w", err)
	}
	return nil
}

// FinishRun sets the final status of a run. A halted run may be finished again when
// it is continued or aborted.
func (j *Journal) FinishRun(ctx context.Context, runID, status, summary string) error {
	var finished any
	if status != StatusRunning && status != StatusHalted {
		finished = formatTime(j.now())
	}
	res, err := j.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, summary = ?, finished_at = ? WHERE id = ?`,
		status, summary, finished, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// Run returns one run with its steps. id may be a unique prefix of the run id.
func (j *Journal) Run(ctx context.Context, id string) (*Run, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, operation, start_branch, status, summary, started_at, finished_at
		FROM runs WHERE id = ? OR id LIKE ?
		ORDER BY id = ? DESC, started_at DESC LIMIT 1`, id, id+"%", id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	if err := j.loadSteps(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Runs returns the most recent runs first, at most limit of them (0 means all).
func (j *Journal) Runs(ctx context.Context, limit int) ([]*Run, error) {
	query := `
		SELECT id, operation, start_branch, status, summary, started_at, finished_at
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, run := range runs {
		if err := j.loadSteps(ctx, run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (j *Journal) loadSteps(ctx context.Context, run *Run) error {
	rows, err := j.db.QueryContext(ctx, `
		SELECT branch, parent, outcome, reason FROM steps WHERE run_id = ? ORDER BY id`, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load steps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s Step
		if err := rows.Scan(&s.Branch, &s.Parent, &s.Outcome, &s.Reason); err != nil {
			return err
		}
		run.Steps = append(run.Steps, s)
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	if err := row.Scan(&run.ID, &run.Operation, &run.Start, &run.Status, &run.Summary, &started, &finished); err != nil {
		return nil, err
	}
	run.StartedAt = parseTime(started)
	if finished.Valid {
		t := parseTime(finished.String)
		run.FinishedAt = &t
	}
	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

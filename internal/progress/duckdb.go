package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DB is a Store backed by a DuckDB database file.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the DuckDB database at path and applies the schema.
// An empty path or ":memory:" opens a transient in-memory database.
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := path
	if path == ":memory:" {
		dsn = ""
	}
	if dsn != "" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create progress directory: %w", err)
		}
	}
	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	if err := EnsureSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply progress schema: %w", err)
	}
	return &DB{db: conn, now: time.Now}, nil
}

// NewDB wraps an open connection whose schema is already applied.
func NewDB(conn *sql.DB) *DB {
	return &DB{db: conn, now: time.Now}
}

func (d *DB) Save(ctx context.Context, p Progress) error {
	p, err := normalize(p)
	if err != nil {
		return err
	}
	passed, err := json.Marshal(p.PassedTestCases)
	if err != nil {
		return fmt.Errorf("encode passed test cases: %w", err)
	}
	var lastAttempt sql.NullTime
	if !p.LastAttempt.IsZero() {
		lastAttempt = sql.NullTime{Time: p.LastAttempt, Valid: true}
	}
	if _, err := d.db.ExecContext(
		ctx,
		`INSERT INTO progress (question_id, completed, time_spent_ms, last_attempt_at, passed_test_cases)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (question_id) DO UPDATE SET
		   completed = excluded.completed,
		   time_spent_ms = excluded.time_spent_ms,
		   last_attempt_at = excluded.last_attempt_at,
		   passed_test_cases = excluded.passed_test_cases`,
		p.QuestionID,
		p.Completed,
		p.TimeSpentMs(),
		lastAttempt,
		string(passed),
	); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (d *DB) Get(ctx context.Context, questionID string) (*Progress, error) {
	row := d.db.QueryRowContext(
		ctx,
		`SELECT question_id, completed, time_spent_ms, last_attempt_at, passed_test_cases
		 FROM progress WHERE question_id = ?`,
		questionID,
	)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

func (d *DB) List(ctx context.Context) ([]Progress, error) {
	rows, err := d.db.QueryContext(
		ctx,
		`SELECT question_id, completed, time_spent_ms, last_attempt_at, passed_test_cases
		 FROM progress ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()
	out := []Progress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("list progress: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return out, nil
}

func (d *DB) Clear(ctx context.Context, questionID string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM attempts WHERE question_id = ?`, questionID); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, `DELETE FROM progress WHERE question_id = ?`, questionID); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

func (d *DB) ClearAll(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM attempts`); err != nil {
		return fmt.Errorf("clear attempts: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

func (d *DB) RecordAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	a, err := fillAttempt(a, d.now)
	if err != nil {
		return Attempt{}, err
	}
	if _, err := d.db.ExecContext(
		ctx,
		`INSERT INTO attempts (attempt_id, question_id, passed, total, success, error_kind, duration_ms, attempted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.QuestionID,
		a.Passed,
		a.Total,
		a.Success,
		a.ErrorKind,
		a.Duration.Milliseconds(),
		a.At,
	); err != nil {
		return Attempt{}, fmt.Errorf("record attempt: %w", err)
	}
	return a, nil
}

func (d *DB) Attempts(ctx context.Context, questionID string) ([]Attempt, error) {
	rows, err := d.db.QueryContext(
		ctx,
		`SELECT attempt_id, question_id, passed, total, success, error_kind, duration_ms, attempted_at
		 FROM attempts WHERE question_id = ? ORDER BY attempted_at, attempt_id`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		var a Attempt
		var durationMs int64
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Passed, &a.Total, &a.Success, &a.ErrorKind, &durationMs, &a.At); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		a.At = a.At.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (Progress, error) {
	var p Progress
	var timeSpentMs int64
	var lastAttempt sql.NullTime
	var passed string
	if err := row.Scan(&p.QuestionID, &p.Completed, &timeSpentMs, &lastAttempt, &passed); err != nil {
		return Progress{}, err
	}
	p.TimeSpent = time.Duration(timeSpentMs) * time.Millisecond
	if lastAttempt.Valid {
		p.LastAttempt = lastAttempt.Time.UTC()
	}
	if err := json.Unmarshal([]byte(passed), &p.PassedTestCases); err != nil {
		return Progress{}, fmt.Errorf("decode passed test cases: %w", err)
	}
	if p.PassedTestCases == nil {
		p.PassedTestCases = []string{}
	}
	return p, nil
}

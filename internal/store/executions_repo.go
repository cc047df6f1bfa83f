package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrExecutionNotFound is returned when an execution id does not exist.
var ErrExecutionNotFound = errors.New("execution not found")

// Execution is an audit record of one plan or agent invocation.
type Execution struct {
	ID         string
	Source     string
	Intent     string
	OK         bool
	Error      *string
	DurationMS int64
	CreatedAt  time.Time
}

// InsertExecution records one execution.
func (s *Store) InsertExecution(ctx context.Context, e *Execution) error {
	e.CreatedAt = time.Now().UTC()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO executions (id, source, intent, ok, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Source, e.Intent, boolToInt(e.OK), nullableString(e.Error), e.DurationMS,
		e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// GetExecution loads one execution by id.
func (s *Store) GetExecution(ctx context.Context, id string) (*Execution, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, source, intent, ok, error, duration_ms, created_at
		FROM executions WHERE id = ?
	`, id)
	e, err := scanExecution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExecutionNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListExecutions returns the most recent executions, newest first.
func (s *Store) ListExecutions(ctx context.Context, limit, offset int) ([]*Execution, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, source, intent, ok, error, duration_ms, created_at
		FROM executions
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()
	var executions []*Execution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}
	return executions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExecution(row rowScanner) (*Execution, error) {
	var (
		e         Execution
		ok        int
		errText   sql.NullString
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.Source, &e.Intent, &ok, &errText, &e.DurationMS, &createdAt); err != nil {
		return nil, err
	}
	e.OK = ok != 0
	if errText.Valid {
		e.Error = &errText.String
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = parsed
	return &e, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

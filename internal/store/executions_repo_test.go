package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.DB.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s.DB.Close())

	// Reopening must not re-apply migrations.
	s, err = Open(ctx, dir)
	require.NoError(t, err)
	defer s.DB.Close()

	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestInsertAndGetExecution(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	errMsg := "no_match"
	exec := &Execution{
		ID:         "exec-1",
		Source:     "http",
		Intent:     "update",
		OK:         false,
		Error:      &errMsg,
		DurationMS: 42,
	}
	require.NoError(t, s.InsertExecution(ctx, exec))
	assert.False(t, exec.CreatedAt.IsZero())

	got, err := s.GetExecution(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, "http", got.Source)
	assert.Equal(t, "update", got.Intent)
	assert.False(t, got.OK)
	require.NotNil(t, got.Error)
	assert.Equal(t, "no_match", *got.Error)
	assert.Equal(t, int64(42), got.DurationMS)
	assert.WithinDuration(t, exec.CreatedAt, got.CreatedAt, time.Second)
}

func TestGetExecutionNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetExecution(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrExecutionNotFound)
}

func TestListExecutionsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"exec-a", "exec-b", "exec-c"} {
		exec := &Execution{ID: id, Source: "agent", Intent: "query", OK: true, DurationMS: int64(i)}
		require.NoError(t, s.InsertExecution(ctx, exec))
		time.Sleep(2 * time.Millisecond)
	}

	executions, err := s.ListExecutions(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, executions, 2)
	assert.Equal(t, "exec-c", executions[0].ID)
	assert.Equal(t, "exec-b", executions[1].ID)

	executions, err = s.ListExecutions(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, "exec-a", executions[0].ID)
}

func TestListExecutionsDefaultLimit(t *testing.T) {
	s := openTestStore(t)

	executions, err := s.ListExecutions(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestInsertExecutionNilError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertExecution(ctx, &Execution{
		ID: "exec-ok", Source: "mcp", Intent: "create", OK: true, DurationMS: 7,
	}))

	got, err := s.GetExecution(ctx, "exec-ok")
	require.NoError(t, err)
	assert.True(t, got.OK)
	assert.Nil(t, got.Error)
}

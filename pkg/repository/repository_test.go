package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates in-memory repositories, single connection keeps the memory db shared
func setupTestDB(t *testing.T) (repos *Repositories, cleanup func()) {
	t.Helper()
	cfg := Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	}
	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	return repos, func() { assert.NoError(t, repos.Close()) }
}

func TestNewRepositories(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repos.Ping(context.Background()))
	assert.NotNil(t, repos.Source)
	assert.NotNil(t, repos.Finding)

	// schema is idempotent
	require.NoError(t, initSchema(context.Background(), repos.DB))

	var tables []string
	err := repos.DB.Select(&tables, "SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"findings", "sources"}, tables)
}

func TestNewRepositories_InvalidDSN(t *testing.T) {
	_, err := NewRepositories(context.Background(), Config{DSN: "file:/non-existent-dir/sub/db.sqlite?mode=ro"})
	require.Error(t, err)
}

func TestRepositories_Close(t *testing.T) {
	repos, err := NewRepositories(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, repos.Close())
	assert.Error(t, repos.Ping(context.Background()))
}

func TestCriticalError(t *testing.T) {
	originalErr := fmt.Errorf("test error message")
	critErr := &criticalError{err: originalErr}

	assert.Equal(t, "test error message", critErr.Error())
	assert.True(t, errors.Is(critErr, errCritical))
	assert.True(t, errors.Is(critErr, originalErr))
}

func TestIsLockError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"sqlite busy error", fmt.Errorf("SQLITE_BUSY: database is busy"), true},
		{"database locked error", fmt.Errorf("database is locked"), true},
		{"table locked error", fmt.Errorf("database table is locked"), true},
		{"non-lock error", fmt.Errorf("syntax error"), false},
		{"empty error message", fmt.Errorf(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLockError(tt.err))
		})
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("retries lock errors", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on other errors", func(t *testing.T) {
		calls := 0
		sentinel := errors.New("constraint failed")
		err := withRetry(context.Background(), func() error {
			calls++
			return fmt.Errorf("insert: %w", sentinel)
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.True(t, errors.Is(err, sentinel))
		assert.Equal(t, "insert: constraint failed", err.Error())
	})

	t.Run("gives up on persistent lock", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		require.Error(t, err)
		assert.Greater(t, calls, 2)
		assert.Contains(t, err.Error(), "SQLITE_BUSY")
	})
}

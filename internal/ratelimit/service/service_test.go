package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meetingintel/internal/ratelimit/models"
	"meetingintel/internal/ratelimit/store/window"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("store down")
}

func (failingStore) Reset(context.Context, string) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(nil, testLogger())
	require.Error(t, err)
}

func TestCheckDefaultsTenPerMinute(t *testing.T) {
	checker, err := New(window.NewInMemoryWindowStore(), testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		result, err := checker.Check(ctx, "203.0.113.9")
		require.NoError(t, err)
		require.True(t, result.Allowed, "request %d should be allowed", i+1)
	}

	result, err := checker.Check(ctx, "203.0.113.9")
	require.NoError(t, err)
	require.False(t, result.Allowed)
	require.Equal(t, 10, result.Limit)
}

func TestCheckCustomPolicy(t *testing.T) {
	checker, err := New(window.NewInMemoryWindowStore(), testLogger(),
		WithLimit(2), WithWindow(30*time.Second))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		result, err := checker.Check(ctx, "caller")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	result, err := checker.Check(ctx, "caller")
	require.NoError(t, err)
	require.False(t, result.Allowed)
	require.Equal(t, 2, result.Limit)
}

func TestCheckPropagatesStoreError(t *testing.T) {
	checker, err := New(failingStore{}, testLogger())
	require.NoError(t, err)

	_, err = checker.Check(context.Background(), "caller")
	require.Error(t, err)
}

func TestCallersDoNotShareBudget(t *testing.T) {
	checker, err := New(window.NewInMemoryWindowStore(), testLogger(), WithLimit(1))
	require.NoError(t, err)

	ctx := context.Background()
	result, err := checker.Check(ctx, "caller-a")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = checker.Check(ctx, "caller-b")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = checker.Check(ctx, "caller-a")
	require.NoError(t, err)
	require.False(t, result.Allowed)
}

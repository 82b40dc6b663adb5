package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"meetingintel/internal/ratelimit/metrics"
	"meetingintel/internal/ratelimit/models"
	"meetingintel/pkg/platform/privacy"
)

// WindowStore is the persistence contract for fixed-window counters.
// Implementations live in store/window (in-memory and Redis).
type WindowStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
}

// Checker applies the per-caller fixed-window policy: a caller gets at most
// `limit` requests per window, counted from their first request.
type Checker struct {
	store   WindowStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	limit   int
	window  time.Duration
}

// Option configures the Checker.
type Option func(*Checker)

// WithLimit overrides the default of 10 requests per window.
func WithLimit(limit int) Option {
	return func(c *Checker) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithWindow overrides the default 60-second window.
func WithWindow(window time.Duration) Option {
	return func(c *Checker) {
		if window > 0 {
			c.window = window
		}
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Checker) {
		c.metrics = m
	}
}

// New builds a Checker. The store is required.
func New(store WindowStore, logger *slog.Logger, opts ...Option) (*Checker, error) {
	if store == nil {
		return nil, errors.New("window store is required")
	}

	c := &Checker{
		store:  store,
		logger: logger,
		limit:  10,
		window: time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check runs the fixed-window decision for one caller.
func (c *Checker) Check(ctx context.Context, callerID string) (*models.RateLimitResult, error) {
	result, err := c.store.Allow(ctx, callerID, c.limit, c.window)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordStoreError()
		}
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.RecordCheck(result.Allowed)
	}

	if !result.Allowed {
		c.logger.WarnContext(ctx, "rate limit exceeded",
			"caller_prefix", privacy.AnonymizeIP(callerID),
			"limit", c.limit,
			"window_seconds", int(c.window.Seconds()),
		)
	}

	return result, nil
}

package window

import (
	"context"
	"sync"
	"time"

	"meetingintel/internal/ratelimit/models"
)

// InMemoryWindowStore implements WindowStore with a fixed-window counter per
// key. The window starts at a caller's first request and resets once it
// elapses, which admits bursts of up to 2x the limit across a boundary; that
// imprecision is the accepted policy, not a bug to fix with a sliding window.
//
// State is process-local. Multi-instance deployments that need one shared
// budget use RedisWindowStore instead.
type InMemoryWindowStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
}

// windowEntry tracks one caller's count within the current window.
type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewInMemoryWindowStore creates a new in-memory fixed-window store.
func NewInMemoryWindowStore() *InMemoryWindowStore {
	return &InMemoryWindowStore{
		entries: make(map[string]*windowEntry),
	}
}

// Allow checks if a request is allowed and increments the counter. Denials
// leave the entry untouched, so the count never exceeds the limit.
func (s *InMemoryWindowStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[key]
	if e == nil || now.After(e.resetAt) {
		e = &windowEntry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = e
		return allowed(e, limit), nil
	}

	if e.count >= limit {
		return denied(e, limit, now), nil
	}

	e.count++
	return allowed(e, limit), nil
}

// Reset clears the counter for a key.
func (s *InMemoryWindowStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// CurrentCount returns the in-window request count for a key.
func (s *InMemoryWindowStore) CurrentCount(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[key]
	if e == nil || time.Now().After(e.resetAt) {
		return 0, nil
	}
	return e.count, nil
}

func allowed(e *windowEntry, limit int) *models.RateLimitResult {
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - e.count,
		ResetAt:   e.resetAt,
	}
}

func denied(e *windowEntry, limit int, now time.Time) *models.RateLimitResult {
	retryAfter := int(e.resetAt.Sub(now).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    e.resetAt,
		RetryAfter: retryAfter,
	}
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"meetingintel/internal/ratelimit/models"
	"meetingintel/pkg/platform/httputil"
	"meetingintel/pkg/platform/privacy"
	"meetingintel/pkg/requestcontext"
)

// RateLimitedMessage is the fixed user-facing text for limited callers.
const RateLimitedMessage = "Demasiadas solicitudes. Intenta nuevamente en 1 minuto."

// RateLimiter decides whether a caller may proceed.
type RateLimiter interface {
	Check(ctx context.Context, callerID string) (*models.RateLimitResult, error)
}

// Middleware gates requests behind the per-caller rate limiter. It runs
// before any other work in the handler chain, so limited callers never reach
// parsing or the provider.
type Middleware struct {
	limiter RateLimiter
	logger  *slog.Logger
}

func New(limiter RateLimiter, logger *slog.Logger) *Middleware {
	return &Middleware{limiter: limiter, logger: logger}
}

// Limit enforces the rate limit keyed on the caller identity extracted by
// the metadata middleware. Store failures fail open: throttling is a guard
// rail and must not take the endpoint down with it.
func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		callerID := requestcontext.CallerID(ctx)

		result, err := m.limiter.Check(ctx, callerID)
		if err != nil {
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"error", err,
				"caller_prefix", privacy.AnonymizeIP(callerID),
			)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)

		if !result.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, &httputil.ErrorResponse{
				OK:    false,
				Error: RateLimitedMessage,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// Package httptransport wires the middleware chain and routes. Transport
// stays thin: everything behavioral lives in the domain packages.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meetingintel/internal/audit"
	insightshandler "meetingintel/internal/insights/handler"
	"meetingintel/internal/platform/metrics"
	ratelimitmw "meetingintel/internal/ratelimit/middleware"
	"meetingintel/pkg/platform/httputil"
	"meetingintel/pkg/platform/middleware/metadata"
	"meetingintel/pkg/platform/middleware/request"
)

// HealthCheck reports the readiness of one dependency.
type HealthCheck func(ctx context.Context) error

// Deps carries everything the router needs. Insights, RateLimit, Metadata,
// and Audit are required; the rest degrade gracefully when nil.
type Deps struct {
	Logger         *slog.Logger
	Insights       *insightshandler.Handler
	RateLimit      *ratelimitmw.Middleware
	Metadata       *metadata.Middleware
	Audit          *audit.Publisher
	Metrics        *metrics.Metrics
	HealthChecks   map[string]HealthCheck
	RequestTimeout time.Duration
}

// NewRouter builds the full handler chain:
// recovery, request ID, caller metadata, request log, metrics, timeout,
// content-type gate, and per-route registration. The rate limiter guards
// only the analysis endpoint so probes never consume caller budget.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(deps.Logger))
	r.Use(request.RequestID)
	r.Use(deps.Metadata.Handler)
	r.Use(audit.Middleware(deps.Audit))
	if deps.Metrics != nil {
		r.Use(observeRequests(deps.Metrics))
	}
	if deps.RequestTimeout > 0 {
		r.Use(request.Timeout(deps.RequestTimeout))
	}
	r.Use(request.ContentTypeJSON)

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimit.Limit)
		deps.Insights.Register(r)
	})

	r.Get("/health", handleHealth(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// observeRequests records duration and status per route pattern. The chi
// pattern keeps label cardinality bounded for unmatched paths.
func observeRequests(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			path := chi.RouteContext(r.Context()).RoutePattern()
			if path == "" {
				path = "unmatched"
			}
			m.ObserveRequest(path, strconv.Itoa(wrapped.status), time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth implements GET /health. Every registered dependency check
// runs with a short deadline; any failure flips the overall status to 503.
func handleHealth(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
			for name, check := range checks {
				if err := check(ctx); err != nil {
					resp.Checks[name] = err.Error()
					resp.Status = "degraded"
					status = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[name] = "ok"
			}
		}

		httputil.WriteJSON(w, status, resp)
	}
}

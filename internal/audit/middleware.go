package audit

import (
	"net/http"
)

// Middleware records one request-log event per served request. Health and
// metrics probes are skipped unless they fail, to keep the log readable.
func Middleware(publisher *Publisher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			if probePath(r.URL.Path) && wrapped.status < http.StatusInternalServerError {
				return
			}

			publisher.Emit(r.Context(), NewEvent(r.Context(), r.Method, r.URL.Path, wrapped.status, ""))
		})
	}
}

func probePath(path string) bool {
	return path == "/health" || path == "/metrics"
}

// statusWriter captures the status code written by downstream handlers.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

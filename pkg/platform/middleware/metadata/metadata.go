package metadata

import (
	"net/http"
	"net/netip"
	"strings"

	"meetingintel/pkg/requestcontext"
)

// MaxForwardedHeaderLength is the maximum allowed length for X-Forwarded-For
// to prevent header injection attacks.
const MaxForwardedHeaderLength = 500

// Config holds configuration for the metadata middleware.
type Config struct {
	// TrustForwardedHeader accepts X-Forwarded-For / X-Real-IP from any peer.
	// This reproduces the historical behavior of keying rate limits on a
	// client-suppliable header; callers omitting it collapse into the
	// "unknown" bucket.
	TrustForwardedHeader bool

	// TrustedProxies is a list of IP prefixes (CIDR notation). When set, the
	// forwarded headers are honored only for requests arriving from one of
	// these prefixes, regardless of TrustForwardedHeader.
	TrustedProxies []netip.Prefix
}

// DefaultConfig trusts the forwarded header, matching the original deployment
// behind a platform proxy.
func DefaultConfig() *Config {
	return &Config{TrustForwardedHeader: true}
}

// Middleware extracts caller identity and User-Agent into the request context.
type Middleware struct {
	config *Config
}

// New creates a new metadata middleware with the given config.
func New(cfg *Config) *Middleware {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Middleware{config: cfg}
}

// Handler extracts the caller identity and User-Agent from the request
// and adds them to the context for use by handlers and services.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callerID := m.extractCallerID(r)
		userAgent := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), callerID, userAgent)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractCallerID derives the rate-limit key for this request. Forwarded
// headers win when trusted; otherwise the connection address is used, and
// "unknown" is the last resort.
func (m *Middleware) extractCallerID(r *http.Request) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)

	if m.headerTrusted(remoteIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" && len(xff) <= MaxForwardedHeaderLength {
			if first := firstForwardedValue(xff); first != "" {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" && len(xri) <= MaxForwardedHeaderLength {
			return strings.TrimSpace(xri)
		}
	}

	if remoteIP == "" {
		return "unknown"
	}
	return remoteIP
}

// headerTrusted decides whether forwarded headers from this peer are honored.
func (m *Middleware) headerTrusted(remoteIP string) bool {
	if len(m.config.TrustedProxies) == 0 {
		return m.config.TrustForwardedHeader
	}

	addr, err := netip.ParseAddr(remoteIP)
	if err != nil {
		return false
	}
	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// firstForwardedValue returns the first entry of an X-Forwarded-For chain.
func firstForwardedValue(xff string) string {
	if before, _, ok := strings.Cut(xff, ","); ok {
		return strings.TrimSpace(before)
	}
	return strings.TrimSpace(xff)
}

// parseRemoteAddr extracts the IP from RemoteAddr (strips port).
func parseRemoteAddr(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}

	// Handle IPv6 with brackets: [::1]:port
	if strings.HasPrefix(remoteAddr, "[") {
		if idx := strings.LastIndex(remoteAddr, "]:"); idx != -1 {
			return remoteAddr[1:idx]
		}
		return strings.Trim(strings.Split(remoteAddr, "]:")[0], "[]")
	}

	// Handle IPv4: 127.0.0.1:port
	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}

	return remoteAddr
}

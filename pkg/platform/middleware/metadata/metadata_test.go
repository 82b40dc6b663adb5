package metadata

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"meetingintel/pkg/requestcontext"
)

func runMiddleware(t *testing.T, cfg *Config, mutate func(*http.Request)) (callerID, userAgent string) {
	t.Helper()

	m := New(cfg)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callerID = requestcontext.CallerID(r.Context())
		userAgent = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/insights", nil)
	req.RemoteAddr = "203.0.113.9:44210"
	if mutate != nil {
		mutate(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return callerID, userAgent
}

func TestCallerIDFromForwardedHeader(t *testing.T) {
	callerID, _ := runMiddleware(t, DefaultConfig(), func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	})
	require.Equal(t, "198.51.100.7", callerID)
}

func TestCallerIDFallsBackToRemoteAddr(t *testing.T) {
	callerID, _ := runMiddleware(t, DefaultConfig(), nil)
	require.Equal(t, "203.0.113.9", callerID)
}

func TestCallerIDUnknownWithoutAnyAddress(t *testing.T) {
	callerID, _ := runMiddleware(t, DefaultConfig(), func(r *http.Request) {
		r.RemoteAddr = ""
	})
	require.Equal(t, "unknown", callerID)
}

func TestOversizedForwardedHeaderIgnored(t *testing.T) {
	callerID, _ := runMiddleware(t, DefaultConfig(), func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", strings.Repeat("1", MaxForwardedHeaderLength+1))
	})
	require.Equal(t, "203.0.113.9", callerID)
}

func TestTrustedProxiesRestrictHeader(t *testing.T) {
	cfg := &Config{
		TrustForwardedHeader: true,
		TrustedProxies:       []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")},
	}

	// Peer outside the trusted range: header ignored.
	callerID, _ := runMiddleware(t, cfg, func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", "198.51.100.7")
	})
	require.Equal(t, "203.0.113.9", callerID)

	// Peer inside the trusted range: header honored.
	callerID, _ = runMiddleware(t, cfg, func(r *http.Request) {
		r.RemoteAddr = "10.1.2.3:9000"
		r.Header.Set("X-Forwarded-For", "198.51.100.7")
	})
	require.Equal(t, "198.51.100.7", callerID)
}

func TestUserAgentCaptured(t *testing.T) {
	_, ua := runMiddleware(t, DefaultConfig(), func(r *http.Request) {
		r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
	})
	require.Equal(t, "Mozilla/5.0 (X11; Linux x86_64)", ua)
}

func TestIPv6RemoteAddr(t *testing.T) {
	callerID, _ := runMiddleware(t, &Config{}, func(r *http.Request) {
		r.RemoteAddr = "[2001:db8::1]:5000"
	})
	require.Equal(t, "2001:db8::1", callerID)
}

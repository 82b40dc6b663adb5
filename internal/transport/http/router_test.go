package httptransport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"meetingintel/internal/audit"
	insightshandler "meetingintel/internal/insights/handler"
	insightsservice "meetingintel/internal/insights/service"
	"meetingintel/internal/provider/openai"
	ratelimitmw "meetingintel/internal/ratelimit/middleware"
	ratelimitservice "meetingintel/internal/ratelimit/service"
	"meetingintel/internal/ratelimit/store/window"
	"meetingintel/pkg/platform/middleware/metadata"
)

const validTranscript = "Juan: Queremos acortar el ciclo de ventas. María: Nuestra plataforma reduce el cierre a la mitad."

type env struct {
	router        http.Handler
	providerCalls *atomic.Int64
}

// newEnv assembles the real chain end to end, with only the completion
// provider stubbed out behind an httptest server.
func newEnv(t *testing.T, configured bool, limit int) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var calls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"## Informe"}}]}`))
	}))
	t.Cleanup(upstream.Close)

	provider := openai.New(openai.Config{
		APIKey:  "sk-test",
		BaseURL: upstream.URL,
		Model:   "gpt-4o-mini",
	}, logger, openai.WithHTTPClient(upstream.Client()))

	analyzer, err := insightsservice.New(provider, logger, configured)
	require.NoError(t, err)

	checker, err := ratelimitservice.New(window.NewInMemoryWindowStore(), logger,
		ratelimitservice.WithLimit(limit))
	require.NoError(t, err)

	router := NewRouter(Deps{
		Logger:    logger,
		Insights:  insightshandler.New(analyzer, logger),
		RateLimit: ratelimitmw.New(checker, logger),
		Metadata:  metadata.New(metadata.DefaultConfig()),
		Audit:     audit.NewPublisher(logger),
	})

	return &env{router: router, providerCalls: &calls}
}

func (e *env) post(t *testing.T, body, forwardedFor string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func analysisBody(transcript string) string {
	b, _ := json.Marshal(map[string]any{"raw_transcript": transcript})
	return string(b)
}

func TestAnalysisEndToEnd(t *testing.T) {
	e := newEnv(t, true, 10)

	rec := e.post(t, analysisBody(validTranscript), "203.0.113.9")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(1), e.providerCalls.Load())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["ok"])
	require.Equal(t, "## Informe", body["markdown"])
	require.Equal(t, "full", body["section"])
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
}

func TestShortTranscriptNeverReachesProvider(t *testing.T) {
	e := newEnv(t, true, 10)

	rec := e.post(t, analysisBody(strings.Repeat("x", 49)), "203.0.113.9")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, int64(0), e.providerCalls.Load())
}

func TestMissingCredentialNeverReachesProvider(t *testing.T) {
	e := newEnv(t, false, 10)

	rec := e.post(t, analysisBody(validTranscript), "203.0.113.9")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, int64(0), e.providerCalls.Load())

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.OK)
	require.Equal(t, "Configuración del servidor incompleta", body.Error)
}

func TestRateLimitDeniesEleventhRequest(t *testing.T) {
	e := newEnv(t, true, 10)

	for i := 0; i < 10; i++ {
		rec := e.post(t, analysisBody(validTranscript), "203.0.113.9")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := e.post(t, analysisBody(validTranscript), "203.0.113.9")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, int64(10), e.providerCalls.Load())

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.OK)
	require.Equal(t, "Demasiadas solicitudes. Intenta nuevamente en 1 minuto.", body.Error)
}

func TestCallersLimitedIndependently(t *testing.T) {
	e := newEnv(t, true, 1)

	require.Equal(t, http.StatusOK, e.post(t, analysisBody(validTranscript), "203.0.113.9").Code)
	require.Equal(t, http.StatusTooManyRequests, e.post(t, analysisBody(validTranscript), "203.0.113.9").Code)
	require.Equal(t, http.StatusOK, e.post(t, analysisBody(validTranscript), "198.51.100.7").Code)
}

func TestRateLimitRunsBeforeValidation(t *testing.T) {
	e := newEnv(t, true, 1)

	require.Equal(t, http.StatusOK, e.post(t, analysisBody(validTranscript), "203.0.113.9").Code)

	// An invalid payload from a limited caller still gets 429, not 400.
	rec := e.post(t, analysisBody("corto"), "203.0.113.9")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e := newEnv(t, true, 10)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
}

func TestUnsupportedContentTypeRejected(t *testing.T) {
	e := newEnv(t, true, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader("raw"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

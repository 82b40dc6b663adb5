package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domainerrors "meetingintel/pkg/domain-errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini",
	}, testLogger(), WithHTTPClient(srv.Client()))
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"## Resumen"}}]}`))
	})

	text, err := client.Complete(context.Background(), "system prompt", "user prompt", 1000)

	require.NoError(t, err)
	require.Equal(t, "## Resumen", text)
	require.Equal(t, "Bearer sk-test", auth)
	require.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "system prompt", got.Messages[0].Content)
	require.Equal(t, "user", got.Messages[1].Role)
	require.InDelta(t, 0.2, got.Temperature, 1e-9)
	require.Equal(t, maxTokensDefault, got.MaxTokens)
}

func TestCompleteRaisesTokenBudgetForLargeTranscripts(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := client.Complete(context.Background(), "s", "u", largeTranscriptThreshold+1)

	require.NoError(t, err)
	require.Equal(t, maxTokensLarge, got.MaxTokens)
}

func TestCompleteMapsUpstreamErrorToProviderCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusServiceUnavailable)
	})

	_, err := client.Complete(context.Background(), "s", "u", 100)

	require.Error(t, err)
	require.True(t, domainerrors.HasCode(err, domainerrors.CodeProvider))
	require.Equal(t, ProviderErrorMessage, err.Error())
}

func TestCompleteReturnsSentinelWhenChoicesMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cmpl-1","choices":[]}`))
	})

	text, err := client.Complete(context.Background(), "s", "u", 100)

	require.NoError(t, err)
	require.Equal(t, NoOutputMessage, text)
}

func TestCompleteReturnsSentinelWhenContentEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	})

	text, err := client.Complete(context.Background(), "s", "u", 100)

	require.NoError(t, err)
	require.Equal(t, NoOutputMessage, text)
}

func TestCompleteMapsMalformedBodyToProviderCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(w, strings.NewReader("not json"))
	})

	_, err := client.Complete(context.Background(), "s", "u", 100)

	require.Error(t, err)
	require.True(t, domainerrors.HasCode(err, domainerrors.CodeProvider))
}

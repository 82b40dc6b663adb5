// Package openai is a minimal chat-completions client. It issues one
// non-streaming completion per analysis and maps failures to domain errors
// with the user-facing Spanish messages.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainerrors "meetingintel/pkg/domain-errors"
)

const (
	// Longer transcripts get a larger completion budget so the report is
	// not truncated mid-section.
	largeTranscriptThreshold = 200_000
	maxTokensLarge           = 8000
	maxTokensDefault         = 4000

	// Low temperature keeps the analysis reproducible for the same input.
	temperature = 0.2

	defaultTimeout = 120 * time.Second
)

// NoOutputMessage is returned as the completion text when the provider
// answers 200 but the expected choices are absent. The caller still gets a
// successful envelope, carrying this sentinel.
const NoOutputMessage = "No se recibió salida del modelo."

// ProviderErrorMessage is the user-facing text for any provider failure.
const ProviderErrorMessage = "Error al procesar con OpenAI"

// Config holds the provider connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// New builds a Client. Model and BaseURL must be set by the caller; the
// API key may be empty here because the service gates on it per request.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg:    cfg,
		logger: logger.With("provider", "openai"),
		tracer: otel.Tracer("meetingintel/provider/openai"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system/user pair and returns the completion text.
// transcriptLen selects the completion token budget.
func (c *Client) Complete(ctx context.Context, system, user string, transcriptLen int) (string, error) {
	maxTokens := maxTokensDefault
	if transcriptLen > largeTranscriptThreshold {
		maxTokens = maxTokensLarge
	}

	ctx, span := c.tracer.Start(ctx, "openai.chat_completion", trace.WithAttributes(
		attribute.String("openai.model", c.cfg.Model),
		attribute.Int("openai.max_tokens", maxTokens),
		attribute.Int("transcript.length", transcriptLen),
	))

	text, err := c.complete(ctx, system, user, maxTokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return text, err
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "create completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domainerrors.Wrap(err, domainerrors.CodeTimeout, ProviderErrorMessage)
		}
		return "", domainerrors.Wrap(err, domainerrors.CodeProvider, ProviderErrorMessage)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody := readErrorBody(resp.Body)
		c.logger.ErrorContext(ctx, "completion request rejected",
			"status", resp.StatusCode,
			"body", errBody,
			"elapsed", time.Since(start),
		)
		return "", domainerrors.Wrap(
			fmt.Errorf("openai status %d: %s", resp.StatusCode, errBody),
			domainerrors.CodeProvider,
			ProviderErrorMessage,
		)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeProvider, ProviderErrorMessage)
	}

	c.logger.DebugContext(ctx, "completion received",
		"choices", len(parsed.Choices),
		"elapsed", time.Since(start),
	)

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return NoOutputMessage, nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	return string(b)
}

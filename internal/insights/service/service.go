// Package service runs the transcript analysis flow: configuration gate,
// input validation, prompt selection, one provider call, and the localized
// result envelope.
package service

//go:generate mockgen -source=service.go -destination=mocks/provider_mock.go -package=mocks Provider

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"meetingintel/internal/insights/metrics"
	"meetingintel/internal/insights/models"
	"meetingintel/internal/insights/prompts"
	domainerrors "meetingintel/pkg/domain-errors"
	"meetingintel/pkg/requestcontext"
)

// User-facing validation and configuration messages.
const (
	MisconfiguredMessage      = "Configuración del servidor incompleta"
	TranscriptTooShortMessage = `Falta "transcript" o es muy corto (≥ 50 caracteres)`
	TranscriptTooLongMessage  = "La transcripción es demasiado larga (máximo 1,000,000 caracteres). Para reuniones muy largas, considera dividir en secciones."

	santiagoTimezone        = "America/Santiago"
	santiagoTimestampLayout = "02-01-2006, 15:04:05"
)

// Provider produces one completion for a system/user prompt pair.
type Provider interface {
	Complete(ctx context.Context, system, user string, transcriptLen int) (string, error)
}

// Analyzer coordinates a single transcript analysis.
type Analyzer struct {
	provider   Provider
	logger     *slog.Logger
	metrics    *metrics.Metrics
	configured bool
	location   *time.Location
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// New builds an Analyzer. configured reports whether provider credentials
// are present; when false every analysis is rejected before validation, so
// callers never learn anything about their input from a broken deployment.
func New(provider Provider, logger *slog.Logger, configured bool, opts ...Option) (*Analyzer, error) {
	if provider == nil {
		return nil, errors.New("completion provider is required")
	}

	loc, err := time.LoadLocation(santiagoTimezone)
	if err != nil {
		loc = time.UTC
	}

	a := &Analyzer{
		provider:   provider,
		logger:     logger,
		configured: configured,
		location:   loc,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Analyze validates the request, selects the prompt pair, and runs one
// provider call. Gate order is fixed: configuration, then minimum length,
// then maximum length.
func (a *Analyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (result *models.AnalysisResult, err error) {
	section := req.AnalysisSection
	if section == "" {
		section = prompts.SectionFull
	}
	defer func() {
		if a.metrics != nil {
			a.metrics.RecordAnalysis(section, err)
		}
	}()

	if !a.configured {
		a.logger.ErrorContext(ctx, "analysis rejected, provider credentials missing")
		return nil, domainerrors.New(domainerrors.CodeMisconfigured, MisconfiguredMessage)
	}

	transcript := req.RawTranscript
	if len(strings.TrimSpace(transcript)) < models.MinTranscriptLength {
		return nil, domainerrors.New(domainerrors.CodeInvalidInput, TranscriptTooShortMessage)
	}
	if len(transcript) > models.MaxTranscriptLength {
		return nil, domainerrors.New(domainerrors.CodeInvalidInput, TranscriptTooLongMessage)
	}

	if a.metrics != nil {
		a.metrics.ObserveTranscriptLength(len(transcript))
	}

	fechaCL := requestcontext.Now(ctx).In(a.location).Format(santiagoTimestampLayout)

	prompt, served := prompts.Build(req, fechaCL)
	section = served

	a.logger.InfoContext(ctx, "running analysis",
		"section", served,
		"transcript_chars", len(transcript),
		"participants", len(req.MeetingInfo.Participants),
	)

	start := time.Now()
	markdown, err := a.provider.Complete(ctx, prompt.System, prompt.User, len(transcript))
	if a.metrics != nil {
		a.metrics.ObserveProviderCall(time.Since(start).Seconds())
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "provider call failed",
			"section", served,
			"error", err,
			"elapsed", time.Since(start),
		)
		return nil, err
	}

	return &models.AnalysisResult{
		MeetingTitle: req.MeetingInfo.TitleOrDefault(),
		FechaCL:      fechaCL,
		Markdown:     markdown,
		Section:      served,
	}, nil
}

package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink forwards request-log events to an external system.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Publisher captures request-log events. Every event is written to the
// structured log; a configured sink additionally receives a copy (production
// deployments wire Kafka here). Publishing never blocks the request path.
type Publisher struct {
	logger *slog.Logger
	sink   Sink
	events chan Event
	wg     sync.WaitGroup
	async  bool
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithSink attaches an external sink. A nil sink leaves log-only behavior.
func WithSink(sink Sink) Option {
	return func(p *Publisher) {
		p.sink = sink
	}
}

// WithAsyncBuffer enables async forwarding with the specified buffer size.
// Events are queued and delivered to the sink in a background goroutine.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
			p.async = true
		}
	}
}

// NewPublisher builds a Publisher. The logger is required.
func NewPublisher(logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	if p.async && p.sink != nil {
		p.wg.Add(1)
		go p.forwardEvents()
	}
	return p
}

// forwardEvents runs in a goroutine and delivers events to the sink.
func (p *Publisher) forwardEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.sink.Publish(context.Background(), event); err != nil {
			p.logger.Error("failed to forward request-log event",
				"error", err,
				"path", event.Path,
				"status", event.Status,
			)
		}
	}
}

// Emit records one request outcome.
func (p *Publisher) Emit(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	attrs := []any{
		"method", e.Method,
		"path", e.Path,
		"status", e.Status,
		"caller_prefix", e.CallerID,
		"request_id", e.RequestID,
	}
	if e.Detail != "" {
		attrs = append(attrs, "detail", e.Detail)
	}
	if e.Status >= 500 {
		p.logger.ErrorContext(ctx, "request failed", attrs...)
	} else if e.Status >= 400 {
		p.logger.WarnContext(ctx, "request rejected", attrs...)
	} else {
		p.logger.InfoContext(ctx, "request completed", attrs...)
	}

	if p.sink == nil {
		return
	}

	if p.async {
		select {
		case p.events <- e:
		default:
			p.logger.Warn("request-log buffer full, event dropped",
				"path", e.Path,
				"status", e.Status,
			)
		}
		return
	}

	if err := p.sink.Publish(ctx, e); err != nil {
		p.logger.Error("failed to forward request-log event",
			"error", err,
			"path", e.Path,
			"status", e.Status,
		)
	}
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

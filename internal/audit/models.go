package audit

import (
	"context"
	"time"

	"github.com/mssola/useragent"

	"meetingintel/pkg/platform/privacy"
	"meetingintel/pkg/requestcontext"
)

// Event is one request outcome, captured with enough context to reconstruct
// the failure out of band. Keep it transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	CallerID  string    `json:"caller_id"`
	RequestID string    `json:"request_id,omitempty"`
	Browser   string    `json:"browser,omitempty"`
	OS        string    `json:"os,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// NewEvent builds an Event from request context. The caller identity is
// anonymized before it ever reaches a log line or sink, and the User-Agent is
// reduced to browser/OS names rather than stored raw.
func NewEvent(ctx context.Context, method, path string, status int, detail string) Event {
	e := Event{
		Timestamp: time.Now(),
		Method:    method,
		Path:      path,
		Status:    status,
		CallerID:  privacy.AnonymizeIP(requestcontext.CallerID(ctx)),
		RequestID: requestcontext.RequestID(ctx),
		Detail:    detail,
	}

	if raw := requestcontext.UserAgent(ctx); raw != "" {
		ua := useragent.New(raw)
		name, version := ua.Browser()
		if name != "" {
			e.Browser = name + " " + version
		}
		e.OS = ua.OS()
	}

	return e
}

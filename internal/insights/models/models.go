package models

// MeetingInfo carries the optional metadata callers attach to a transcript.
// Every field has a fallback so an empty object is a valid request.
type MeetingInfo struct {
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Duration     string   `json:"duration"`
	Participants []string `json:"participants"`
}

// Defaults applied when the caller omits meeting metadata.
const (
	DefaultTitle    = "Reunión con Prospecto"
	DefaultType     = "prospecto"
	DefaultDuration = "desconocida"
)

// Title or its default.
func (m MeetingInfo) TitleOrDefault() string {
	if m.Title == "" {
		return DefaultTitle
	}
	return m.Title
}

func (m MeetingInfo) TypeOrDefault() string {
	if m.Type == "" {
		return DefaultType
	}
	return m.Type
}

func (m MeetingInfo) DurationOrDefault() string {
	if m.Duration == "" {
		return DefaultDuration
	}
	return m.Duration
}

// AnalysisRequest is the body of POST /api/insights.
type AnalysisRequest struct {
	RawTranscript   string      `json:"raw_transcript"`
	MeetingInfo     MeetingInfo `json:"meeting_info"`
	AudioURL        string      `json:"audio_url"`
	AnalysisSection string      `json:"analysis_section"`
}

// Transcript length bounds. Shorter submissions carry no signal worth a
// provider call; longer ones exceed what a single completion can cover.
const (
	MinTranscriptLength = 50
	MaxTranscriptLength = 1_000_000
)

// AnalysisResult is what the service hands back on success. The section is
// the key actually served, "full" when the request named none (or an unknown
// one).
type AnalysisResult struct {
	MeetingTitle string
	FechaCL      string
	Markdown     string
	Section      string
}

package handler

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meetingintel/internal/insights/models"
	domainerrors "meetingintel/pkg/domain-errors"
	"meetingintel/pkg/platform/httputil"
	"meetingintel/pkg/requestcontext"
)

// InvalidBodyMessage is the user-facing text for an unparseable request body.
const InvalidBodyMessage = "Cuerpo JSON inválido"

// A transcript tops out at one million characters; the body cap leaves room
// for JSON escaping and the metadata fields around it.
const maxBodyBytes = 8 << 20

type Service interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/insights", h.HandleAnalyze)
}

// analysisResponse is the success envelope. Markdown and Insights carry the
// same text: older consumers read `markdown`, section-aware ones `insights`.
type analysisResponse struct {
	OK           bool   `json:"ok"`
	MeetingTitle string `json:"meetingTitle"`
	FechaCL      string `json:"fechaCL"`
	Markdown     string `json:"markdown"`
	Insights     string `json:"insights"`
	Section      string `json:"section"`
}

// HandleAnalyze implements POST /api/insights.
//
// Input: { "raw_transcript": "...", "meeting_info": {...}, "audio_url": "...", "analysis_section": "roi" }
// Output: { "ok": true, "meetingTitle": "...", "fechaCL": "...", "markdown": "...", "insights": "...", "section": "roi" }
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode analysis request",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeInvalidInput, InvalidBodyMessage))
		return
	}

	result, err := h.service.Analyze(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "analysis failed",
			"error", err,
			"section", req.AnalysisSection,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &analysisResponse{
		OK:           true,
		MeetingTitle: result.MeetingTitle,
		FechaCL:      result.FechaCL,
		Markdown:     result.Markdown,
		Insights:     result.Markdown,
		Section:      result.Section,
	})
}

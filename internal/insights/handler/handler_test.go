package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"meetingintel/internal/insights/handler/mocks"
	"meetingintel/internal/insights/models"
	domainerrors "meetingintel/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestSuccessEnvelope() {
	s.service.EXPECT().
		Analyze(gomock.Any(), gomock.Any()).
		Return(&models.AnalysisResult{
			MeetingTitle: "Kickoff Acme",
			FechaCL:      "15-03-2026, 09:30:00",
			Markdown:     "## Resumen Ejecutivo",
			Section:      "overview",
		}, nil)

	rec := s.post(`{"raw_transcript":"una transcripción válida","analysis_section":"overview"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(true, body["ok"])
	s.Equal("Kickoff Acme", body["meetingTitle"])
	s.Equal("15-03-2026, 09:30:00", body["fechaCL"])
	s.Equal("## Resumen Ejecutivo", body["markdown"])
	s.Equal("## Resumen Ejecutivo", body["insights"])
	s.Equal("overview", body["section"])
}

func (s *HandlerSuite) TestRequestFieldsReachService() {
	var got models.AnalysisRequest
	s.service.EXPECT().
		Analyze(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req models.AnalysisRequest) (*models.AnalysisResult, error) {
			got = req
			return &models.AnalysisResult{Section: "full"}, nil
		})

	rec := s.post(`{
		"raw_transcript": "texto",
		"meeting_info": {"title": "Demo", "type": "cliente", "duration": "30m", "participants": ["Ana", "Luis"]},
		"audio_url": "https://example.com/a.mp3",
		"analysis_section": "sentiment"
	}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("texto", got.RawTranscript)
	s.Equal("Demo", got.MeetingInfo.Title)
	s.Equal("cliente", got.MeetingInfo.Type)
	s.Equal("30m", got.MeetingInfo.Duration)
	s.Equal([]string{"Ana", "Luis"}, got.MeetingInfo.Participants)
	s.Equal("https://example.com/a.mp3", got.AudioURL)
	s.Equal("sentiment", got.AnalysisSection)
}

func (s *HandlerSuite) TestMalformedBodyRejected() {
	rec := s.post(`{"raw_transcript": `)

	s.Equal(http.StatusBadRequest, rec.Code)

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.False(body.OK)
	s.Equal(InvalidBodyMessage, body.Error)
}

func (s *HandlerSuite) TestValidationErrorMapsTo400() {
	s.service.EXPECT().
		Analyze(gomock.Any(), gomock.Any()).
		Return(nil, domainerrors.New(domainerrors.CodeInvalidInput,
			`Falta "transcript" o es muy corto (≥ 50 caracteres)`))

	rec := s.post(`{"raw_transcript":"corto"}`)

	s.Equal(http.StatusBadRequest, rec.Code)

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.False(body.OK)
	s.Equal(`Falta "transcript" o es muy corto (≥ 50 caracteres)`, body.Error)
}

func (s *HandlerSuite) TestMisconfigurationMapsTo500() {
	s.service.EXPECT().
		Analyze(gomock.Any(), gomock.Any()).
		Return(nil, domainerrors.New(domainerrors.CodeMisconfigured, "Configuración del servidor incompleta"))

	rec := s.post(`{"raw_transcript":"una transcripción suficientemente larga para pasar validación"}`)

	s.Equal(http.StatusInternalServerError, rec.Code)

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.False(body.OK)
	s.Equal("Configuración del servidor incompleta", body.Error)
}

func (s *HandlerSuite) TestProviderErrorMapsTo500() {
	s.service.EXPECT().
		Analyze(gomock.Any(), gomock.Any()).
		Return(nil, domainerrors.New(domainerrors.CodeProvider, "Error al procesar con OpenAI"))

	rec := s.post(`{"raw_transcript":"una transcripción suficientemente larga para pasar validación"}`)

	s.Equal(http.StatusInternalServerError, rec.Code)

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.False(body.OK)
	s.Equal("Error al procesar con OpenAI", body.Error)
}

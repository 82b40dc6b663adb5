package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "meetingintel/pkg/domain-errors"
)

// ErrorResponse is the uniform failure envelope for every endpoint.
// Clients branch on the "ok" flag, so error responses always carry ok=false.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// The domain error message is the user-facing text; codes pick the status.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), &ErrorResponse{
			OK:    false,
			Error: domainErr.Error(),
		})
		return
	}

	// Fallback for unexpected errors: expose the message, matching the
	// catch-all behavior of the dispatcher contract.
	msg := "Error interno del servidor"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, &ErrorResponse{OK: false, Error: msg})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeMisconfigured, dErrors.CodeProvider, dErrors.CodeTimeout, dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

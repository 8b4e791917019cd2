package httpdelivery

import (
	"encoding/json"
	"net/http"

	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
)

const internalMessage = "An internal error occurred."

type errorResponse struct {
	Message string                    `json:"message"`
	Data    []domainerrors.FieldError `json:"data,omitempty"`
}

// writeError maps a classified error to its status. Unclassified errors
// are logged and reported as a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	classified, ok := domainerrors.As(err)
	if !ok || classified.Kind == domainerrors.KindInternal || classified.Kind == domainerrors.KindNotInitialized {
		s.logger.Error("request failed",
			"event", "http_request_failed",
			"module", module,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: internalMessage})
		return
	}
	writeJSON(w, classified.Kind.HTTPStatus(), errorResponse{
		Message: classified.Message,
		Data:    classified.Data,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

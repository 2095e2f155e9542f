package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Responder is the single place errors are turned into HTTP responses.
type Responder struct {
	logger *zap.Logger
}

func NewResponder(logger *zap.Logger) *Responder {
	return &Responder{logger: logger}
}

func (r *Responder) RespondError(w http.ResponseWriter, req *http.Request, err error) {
	status := HTTPStatus(err)
	message := clientMessage(err)

	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		message = "an unexpected error occurred"
	} else {
		r.logger.Warn("request rejected",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", status),
			zap.String("reason", message),
		)
	}

	r.WriteJSON(w, status, ErrorResponse{Status: status, Message: message})
}

func (r *Responder) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		r.logger.Error("failed to encode response", zap.Error(err))
	}
}

// clientMessage drops wrapping context added on the way up so clients see the
// message of the typed error itself.
func clientMessage(err error) string {
	if ve, ok := IsValidationError(err); ok {
		return ve.Message
	}
	if nfe, ok := IsNotFoundError(err); ok {
		return nfe.Message
	}
	if ce, ok := IsConflictError(err); ok {
		return ce.Message
	}
	return err.Error()
}

package response

import (
	"encoding/json"
	"net/http"

	"github.com/mkondo/teamlink/internal/apperr"
)

// APIResponse is the standard response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	json.NewEncoder(w).Encode(resp)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}

	json.NewEncoder(w).Encode(resp)
}

// AppError renders a kinded error from the app layers. Unknown errors
// become opaque 500s; the cause should already be logged by the caller.
func AppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	msg := apperr.Message(err, "internal error")
	switch kind {
	case apperr.KindValidation:
		Error(w, http.StatusBadRequest, "VALIDATION", msg)
	case apperr.KindAuthorization:
		Error(w, http.StatusForbidden, "AUTHORIZATION", msg)
	case apperr.KindConflict:
		// Often informational for the user; the client renders these
		// inline rather than as an alarm.
		Error(w, http.StatusConflict, "CONFLICT", msg)
	case apperr.KindDomain:
		Error(w, http.StatusUnprocessableEntity, "DOMAIN", msg)
	case apperr.KindTransient:
		Error(w, http.StatusServiceUnavailable, "TRANSIENT", msg)
	default:
		Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
	}
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "VALIDATION", message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

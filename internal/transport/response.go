package transport

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse follows the CRM envelope so clients can branch on success alone.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    int               `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    status,
		Details: details,
	})
}

// WriteValidationError reports field errors keyed by wire field name.
func WriteValidationError(w http.ResponseWriter, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "validation error", details)
}

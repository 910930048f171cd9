package handler

// RESPONSE HELPERS:
// Every JSON response goes through these two functions so the whole API has
// one error shape:
//
//	{"error": {"code": "auth/invalid-credentials", "message": "...", "status": 401}}
//
// The frontend keys on `code` to pick a localized message and falls back to
// `message`. Handlers never hand-write status codes for domain failures —
// the AppError carries its own.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/muhub/projecthub/internal/apperror"
)

// ErrorBody is the uniform error envelope returned by all endpoints.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail mirrors apperror.AppError's outward fields.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body — once Encode writes,
// the headers are on the wire.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the uniform error body.
//
// errors.As walks the wrap chain (services return fmt.Errorf("...: %w",
// appErr)), so the AppError is found no matter how many layers wrapped it.
// Anything that isn't an AppError is an unexpected internal failure and
// gets the generic 500 — raw error text never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		detail := ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Status:  appErr.Status,
		}
		if appErr.Field != "" {
			detail.Details = map[string]any{"field": appErr.Field}
		}
		writeJSON(w, appErr.Status, ErrorBody{Error: detail})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: ErrorDetail{
		Code:    "auth/server-error",
		Message: "An internal server error occurred",
		Status:  http.StatusInternalServerError,
	}})
}

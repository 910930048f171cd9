// Package apperror defines the application's error vocabulary.
//
// Every failure that can reach a client is represented as an *AppError
// carrying three things the frontend relies on:
//   - Code:    stable machine string (e.g. "auth/invalid-credentials") that
//     client forms use to pick a localized message
//   - Message: human-readable fallback
//   - Status:  the HTTP status the handler layer should respond with
//
// Services return these errors (possibly wrapped with fmt.Errorf + %w);
// they never write HTTP themselves. The handler layer unwraps with
// errors.As and renders the uniform error body.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is checks across the codebase.
// An AppError always wraps exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// AppError is a tagged error describing why an operation failed.
type AppError struct {
	Err     error  // sentinel category (ErrValidation, ErrConflict, ...)
	Code    string // stable machine code, e.g. "auth/weak-password"
	Message string // human-readable error message
	Status  int    // HTTP-status-like severity
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    "not-found",
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
		Status:  http.StatusNotFound,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "validation-error",
		Message: message,
		Status:  http.StatusBadRequest,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Code:    "forbidden",
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// Internal wraps an unexpected failure (store down, hashing failure).
// The wrapped error is kept for logs; the outward message stays generic so
// internals never leak to the client.
func Internal(err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrInternal, err),
		Code:    "auth/server-error",
		Message: "An internal server error occurred",
		Status:  http.StatusInternalServerError,
	}
}

// --- Authentication errors ---
//
// The codes below are part of the API contract with the frontend; changing
// one breaks the login/signup forms' error handling.

func MissingFields() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "auth/missing-fields",
		Message: "Please provide all required fields",
		Status:  http.StatusBadRequest,
	}
}

func InvalidEmailDomain(domain string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "auth/invalid-email-domain",
		Message: fmt.Sprintf("Only %s email addresses are allowed", domain),
		Status:  http.StatusBadRequest,
		Field:   "email",
	}
}

func WeakPassword(message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "auth/weak-password",
		Message: message,
		Status:  http.StatusBadRequest,
		Field:   "password",
	}
}

func UserExists() *AppError {
	return &AppError{
		Err:     ErrConflict,
		Code:    "auth/user-exists",
		Message: "User already exists with this email",
		Status:  http.StatusConflict,
	}
}

// InvalidCredentials is returned for BOTH "no such user" and "wrong
// password". The two cases must stay indistinguishable outward, otherwise
// the login endpoint becomes a user-enumeration oracle.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    "auth/invalid-credentials",
		Message: "Invalid email or password",
		Status:  http.StatusUnauthorized,
	}
}

func EmailNotVerified() *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Code:    "auth/email-not-verified",
		Message: "Please verify your email address before logging in",
		Status:  http.StatusForbidden,
	}
}

// Unauthorized covers every token failure: missing cookie, bad signature,
// wrong algorithm, expired. Collapsing them into one code avoids leaking
// which check failed.
func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    "auth/unauthorized",
		Message: "You must be logged in to access this resource",
		Status:  http.StatusUnauthorized,
	}
}

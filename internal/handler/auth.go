package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/muhub/projecthub/internal/apperror"
	"github.com/muhub/projecthub/internal/auth"
	"github.com/muhub/projecthub/internal/service"
)

// AuthHandler exposes the authentication endpoints.
//
//	POST /auth/register → create an account (no session issued)
//	POST /auth/login    → verify credentials, set the session cookie
//	POST /auth/logout   → clear the session cookie (idempotent)
//	GET  /auth/check    → report the identity behind the cookie
//
// The handler owns only HTTP concerns: decoding bodies, the cookie, status
// codes. Every rule (validation order, enumeration safety, the verified
// gate) lives in the AuthService.
type AuthHandler struct {
	svc     *service.AuthService
	cookies *auth.CookieWriter
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(svc *service.AuthService, cookies *auth.CookieWriter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		cookies: cookies,
		logger:  logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /auth/register
// Success: 201 with the account (the password hash never serializes — the
// model excludes it). No Set-Cookie: the account has to be verified before
// its first login, so there is no session to issue yet.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// HandleLogin authenticates and starts a session.
//
// HTTP: POST /auth/login
// Success: 200 with the account and a Set-Cookie carrying the session
// token. All failure detail mapping happens in the service; this function
// only decides "cookie or no cookie".
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Attach(w, result.Token)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    result.User,
	})
}

// HandleLogout ends the session.
//
// HTTP: POST /auth/logout
//
// WHY POST AND NOT GET?
// Logout is state-changing; GET would be CSRF-able and browsers prefetch
// GET URLs.
//
// Always succeeds, even without a session — there is no server-side state
// to reconcile, logout just overwrites the client cookie with an expired
// one. The token itself stays technically valid until its own expiry, but
// the browser can no longer send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// HandleCheck reports who the session cookie belongs to.
//
// HTTP: GET /auth/check
//
// The identity comes straight from the token claims — no store read. The
// frontend calls this on every app load to restore its auth state.
func (h *AuthHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		writeError(w, apperror.Unauthorized())
		return
	}

	id, err := h.svc.Check(cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": id})
}

package auth

import (
	"context"
	"net/http"
	"net/url"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue takes any key. A plain string key like "identity" could
// be read or shadowed by any package that knows the string. A package-private
// type means only this package can create the key, so only this package can
// set or read identities in a context.
type contextKey string

const identityKey contextKey = "identity"

// unauthorizedBody mirrors the uniform error shape the JSON handlers emit.
// Hand-rolled here because the middleware can't import the handler package
// (the handler package imports us).
const unauthorizedBody = `{"error":{"code":"auth/unauthorized","message":"You must be logged in to access this resource","status":401}}`

// RequireAuth guards JSON API routes.
//
// It reads the session cookie, validates the token, and stores the Identity
// in the request context. Missing cookie, bad signature, and expiry all get
// the same 401 body — a caller probing this endpoint learns nothing about
// why its token was rejected.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := identityFromRequest(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, unauthorizedBody, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin guards browser-navigated page routes.
//
// Same validation as RequireAuth, but the failure mode is a redirect to the
// login page instead of a JSON 401 — a human staring at a login form beats a
// human staring at raw JSON. The original destination rides along in the
// `next` query parameter so the login page can bounce the user back.
func RequireLogin(tokens *TokenService, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := identityFromRequest(r, tokens)
			if err != nil {
				dest := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, dest, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the identity if a valid token is present but never
// blocks the request. Used on public routes where logged-in users see a
// personalised variant (e.g. their own projects flagged in a listing).
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, err := identityFromRequest(r, tokens); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the authenticated identity from the request
// context. Returns (nil, false) for anonymous requests.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// identityFromRequest reads the session cookie and validates the token.
// Shared by all three guards.
func identityFromRequest(r *http.Request, tokens *TokenService) (*Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie — the request is simply anonymous
		return nil, err
	}
	return tokens.Validate(cookie.Value)
}

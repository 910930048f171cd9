package auth

import (
	"net/http"
	"time"
)

// CookieName is the single session cookie used across the whole service.
// The frontend, the guards, and the check endpoint all key on this name.
const CookieName = "auth-token"

// CookieWriter binds session tokens to HTTP cookies.
//
// COOKIE ATTRIBUTES:
//   - HttpOnly: JavaScript cannot read the cookie — an XSS payload can't
//     exfiltrate the session token.
//   - SameSite=Strict: the browser never sends the cookie on cross-site
//     requests, cutting off CSRF at the transport level.
//   - Secure: HTTPS-only. Enabled in production; off in local dev where
//     everything runs on plain http://localhost.
//   - Path=/: one session for the whole app.
//   - Max-Age: always matches the token TTL, so the cookie and the token
//     expire together instead of the browser resending a dead token.
type CookieWriter struct {
	secure bool
	ttl    time.Duration
}

// NewCookieWriter creates a CookieWriter. secure should be true in
// production (it requires HTTPS); ttl must match the token TTL.
func NewCookieWriter(secure bool, ttl time.Duration) *CookieWriter {
	return &CookieWriter{secure: secure, ttl: ttl}
}

// Attach sets the session cookie carrying the given token.
func (c *CookieWriter) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear overwrites the session cookie with an empty, already-expired value.
//
// Go serializes MaxAge < 0 as "Max-Age=0" on the wire, which tells the
// browser to drop the cookie immediately. Attributes must match Attach's,
// otherwise some browsers treat it as a different cookie and keep the
// original.
func (c *CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// setCookieFrom extracts the single Set-Cookie from a recorded response.
func setCookieFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d Set-Cookie headers, want 1", len(cookies))
	}
	return cookies[0]
}

func TestAttach_SetsSecurityAttributes(t *testing.T) {
	cw := NewCookieWriter(false, 24*time.Hour)
	rr := httptest.NewRecorder()

	cw.Attach(rr, "some.jwt.token")

	c := setCookieFrom(t, rr)
	if c.Name != CookieName {
		t.Errorf("Name = %q, want %q", c.Name, CookieName)
	}
	if c.Value != "some.jwt.token" {
		t.Errorf("Value = %q, want the token", c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", c.SameSite)
	}
	if c.Path != "/" {
		t.Errorf("Path = %q, want /", c.Path)
	}
	if c.Secure {
		t.Error("Secure should be off outside production")
	}
	if c.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("MaxAge = %d, want %d (the token TTL)", c.MaxAge, int((24*time.Hour).Seconds()))
	}
}

func TestAttach_SecureInProduction(t *testing.T) {
	cw := NewCookieWriter(true, time.Hour)
	rr := httptest.NewRecorder()

	cw.Attach(rr, "tok")

	if !setCookieFrom(t, rr).Secure {
		t.Error("Secure must be set when the writer is in production mode")
	}
}

func TestClear_ExpiresImmediately(t *testing.T) {
	cw := NewCookieWriter(true, time.Hour)
	rr := httptest.NewRecorder()

	cw.Clear(rr)

	c := setCookieFrom(t, rr)
	if c.Name != CookieName {
		t.Errorf("Name = %q, want %q", c.Name, CookieName)
	}
	if c.Value != "" {
		t.Errorf("Value = %q, want empty", c.Value)
	}
	if c.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative (serialized as Max-Age=0)", c.MaxAge)
	}
	// On the wire the browser must see Max-Age=0.
	raw := rr.Header().Get("Set-Cookie")
	if !strings.Contains(raw, "Max-Age=0") {
		t.Errorf("Set-Cookie header = %q, want Max-Age=0", raw)
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteStrictMode || !c.Secure {
		t.Error("Clear must keep the same security attributes as Attach")
	}
}

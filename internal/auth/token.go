// Package auth provides the session primitives for the application:
// JWT issuing/validation, bcrypt password hashing, the session cookie
// transport, and the route-guard middleware.
//
// SESSION MODEL:
// Sessions are stateless. A successful login mints a signed JWT carrying the
// account's identity claims; the server keeps no session table. Verification
// is purely cryptographic — any request carrying a token with a valid
// signature and unexpired timestamp is authenticated, and "logout" just
// clears the client-side cookie.
//
// The flip side: claims are trusted as of issuance. A role or verification
// change made after a token was minted does not take effect until the user
// logs in again. With a revocation list out of scope, the token TTL is the
// only bound on that window — keep it short-ish.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuer identifies tokens minted by this service. Validation rejects
// tokens from anything else, even when signed with the same secret.
const issuer = "projecthub"

// Identity is the claims-derived view of an account. It is what guarded
// handlers see — note there is no password hash and no store round-trip
// behind it.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"is_verified"`
}

// TokenService signs and validates session tokens.
//
// It holds the HMAC secret key used to sign and verify tokens. The secret is
// process-wide configuration, loaded once at startup and read-only after.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. RegisteredClaims contributes the standard
// fields (sub, iat, exp, iss); the rest mirrors what the frontend needs to
// render without an extra /me round-trip.
type claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"isVerified"`
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given identity.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-service deployment; RS256 only pays off once
// other services need to verify without holding the secret.
func (s *TokenService) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Username: id.Username,
		Email:    id.Email,
		Role:     id.Role,
		Verified: id.Verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the identity it
// encodes.
//
// VALIDATION CHECKS:
//   - Signature is valid (token wasn't tampered with)
//   - Algorithm is HS256 (jwt.WithValidMethods blocks algorithm-confusion
//     tricks like alg=none)
//   - Issuer matches (rejects tokens minted by other apps with our key)
//   - ExpiresAt is present and in the future
//
// Callers must not surface WHICH check failed to the client — the HTTP
// layer collapses every failure here into one generic unauthorized error
// so the endpoint can't be used as an oracle.
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &Identity{
		UserID:   c.Subject,
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
		Verified: c.Verified,
	}, nil
}

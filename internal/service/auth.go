// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and return domain errors; they know nothing
// about HTTP. The handler layer translates apperror values into status
// codes and the uniform error body.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/muhub/projecthub/internal/apperror"
	"github.com/muhub/projecthub/internal/auth"
	"github.com/muhub/projecthub/internal/model"
	"github.com/muhub/projecthub/internal/repository"
)

// passwordSpecials is the accepted special-character set for the password
// policy. It matches what the signup form tells users, so keep the two in
// sync if it ever changes.
const passwordSpecials = "!@#$%^&*"

// AuthService orchestrates register / login / check / logout.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users       repository.UserRepository → credential store adapter
//   - tokens      *auth.TokenService        → session token issue/verify
//   - passwords   *auth.PasswordService     → bcrypt hash/verify
//   - emailDomain institutional suffix accounts must carry
//   - tokenTTL    session token lifetime
type AuthService struct {
	users       repository.UserRepository
	tokens      *auth.TokenService
	passwords   *auth.PasswordService
	emailDomain string
	tokenTTL    time.Duration
	logger      *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	emailDomain string,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		passwords:   passwords,
		emailDomain: strings.ToLower(emailDomain),
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// AuthResult bundles the account and the issued session token so the HTTP
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// VALIDATION ORDER (fail fast, first violation wins):
//  1. all fields present
//  2. email carries the institutional suffix
//  3. password meets policy (length → case mix → digit → special)
//  4. email not already registered
//
// The domain and policy checks run before ANY store access, so garbage
// input never costs a database round-trip.
//
// On success the account is persisted with role student and is_verified
// false. No session token is issued — the account can't log in until the
// external verification process flips is_verified.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if username == "" || email == "" || password == "" {
		return nil, apperror.MissingFields()
	}

	if !strings.HasSuffix(email, s.emailDomain) {
		return nil, apperror.InvalidEmailDomain(s.emailDomain)
	}

	if msg := passwordPolicyViolation(password); msg != "" {
		return nil, apperror.WeakPassword(msg)
	}

	// Friendly-path duplicate check. The UNIQUE constraint in the store is
	// the real guarantee; see the Create error handling below for the race.
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.UserExists()
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, apperror.Internal(fmt.Errorf("checking existing account: %w", err))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		// Hashing failure is fatal — never fall through to storing
		// anything else.
		return nil, apperror.Internal(fmt.Errorf("hashing password: %w", err))
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleStudent,
		IsVerified:   false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A registration racing on the same email loses the UNIQUE
		// constraint at insert time; that surfaces as the standard 409,
		// identical to the fast-path duplicate above.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Internal(fmt.Errorf("creating account: %w", err))
	}

	s.logger.Info("account registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates an account and issues a session token.
//
// ENUMERATION SAFETY:
// "no such user" and "wrong password" both return the same
// auth/invalid-credentials error — a caller must not be able to tell them
// apart. The verified check runs strictly AFTER the credential check, so
// this endpoint can't be used to probe verification status without already
// knowing the password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return nil, apperror.MissingFields()
	}

	if !strings.HasSuffix(email, s.emailDomain) {
		return nil, apperror.InvalidEmailDomain(s.emailDomain)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal(fmt.Errorf("looking up account: %w", err))
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	if !user.IsVerified {
		return nil, apperror.EmailNotVerified()
	}

	token, err := s.tokens.Issue(auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Verified: user.IsVerified,
	}, s.tokenTTL)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("issuing token: %w", err))
	}

	s.logger.Info("login",
		slog.String("userID", user.ID),
		slog.String("role", user.Role),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Check validates a session token and returns the identity it encodes.
//
// This is a purely cryptographic check — no store read. The claims are
// trusted as of issuance, so a role or verification change after login only
// shows up once the token is reissued.
func (s *AuthService) Check(tokenStr string) (*auth.Identity, error) {
	id, err := s.tokens.Validate(tokenStr)
	if err != nil {
		// Collapse every failure mode (missing, tampered, expired, wrong
		// issuer) into one generic unauthorized.
		return nil, apperror.Unauthorized()
	}
	return id, nil
}

// normalizeEmail lowercases and trims an email address. All matching —
// suffix policy and store lookups — happens on the normalized form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// passwordPolicyViolation returns the first unmet password rule, checked in
// fixed order (length → case mix → digit → special), or "" if the password
// passes. The message names the violated rule; the signup form shows it
// verbatim when it can't map the error code.
func passwordPolicyViolation(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower {
		return "Password must contain both uppercase and lowercase letters"
	}
	if !hasDigit {
		return "Password must contain at least one number"
	}
	if !hasSpecial {
		return "Password must contain at least one special character (" + passwordSpecials + ")"
	}
	return ""
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/muhub/projecthub/internal/apperror"
	"github.com/muhub/projecthub/internal/auth"
	"github.com/muhub/projecthub/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// A hand-written fake (not a mock framework) keeps these tests dependency
// free and easy to read.
type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User
	nextID  int

	// storeHits counts every call that reaches the store — used to prove
	// that policy rejections never touch it.
	storeHits int

	// set to simulate failures
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.storeHits++
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		// Mirrors the sqlite store: UNIQUE violation → conflict.
		return apperror.UserExists()
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	stored := *user
	f.byEmail[user.Email] = &stored
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.storeHits++
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	f.storeHits++
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) MarkVerified(_ context.Context, email string) error {
	f.storeHits++
	u, ok := f.byEmail[email]
	if !ok {
		return apperror.NotFound("user", email)
	}
	u.IsVerified = true
	return nil
}

const testDomain = "@mahindrauniversity.edu.in"

// newTestAuthService returns an AuthService wired with fake dependencies.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	// Cost 4 is the bcrypt minimum — makes tests fast.
	ps := auth.NewPasswordServiceForTest(4)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, ts, ps, testDomain, time.Hour, logger)
}

// register is a shorthand for a known-good registration.
func register(t *testing.T, svc *AuthService, email string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), "alice", email, "GoodPass1!")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return user
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an *apperror.AppError", err)
	}
	return appErr.Code
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	user := register(t, svc, "alice@mahindrauniversity.edu.in")

	if user.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if user.Role != model.RoleStudent {
		t.Errorf("Role = %q, want student", user.Role)
	}
	if user.IsVerified {
		t.Error("new accounts must start unverified")
	}
	if user.PasswordHash == "" || user.PasswordHash == "GoodPass1!" {
		t.Error("password must be stored hashed")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	cases := []struct{ username, email, password string }{
		{"", "a@mahindrauniversity.edu.in", "GoodPass1!"},
		{"alice", "", "GoodPass1!"},
		{"alice", "a@mahindrauniversity.edu.in", ""},
	}
	for _, c := range cases {
		_, err := svc.Register(context.Background(), c.username, c.email, c.password)
		if got := codeOf(t, err); got != "auth/missing-fields" {
			t.Errorf("Register(%q,%q,...) code = %q, want auth/missing-fields", c.username, c.email, got)
		}
	}
	if repo.storeHits != 0 {
		t.Errorf("store was hit %d times for missing-field input", repo.storeHits)
	}
}

func TestRegister_RejectsForeignDomainBeforeStore(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "eve", "eve@gmail.com", "GoodPass1!")
	if got := codeOf(t, err); got != "auth/invalid-email-domain" {
		t.Errorf("code = %q, want auth/invalid-email-domain", got)
	}
	if repo.storeHits != 0 {
		t.Error("domain-policy rejection must never reach the store")
	}
}

func TestRegister_EmailNormalizedBeforeDomainCheck(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	user := register(t, svc, "  Alice@MahindraUniversity.EDU.IN ")

	if user.Email != "alice@mahindrauniversity.edu.in" {
		t.Errorf("stored email = %q, want lowercase trimmed", user.Email)
	}
}

func TestRegister_WeakPassword_FirstRuleWins(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	// Rule order: length → case mix → digit → special. Each password here
	// violates several rules; the message must name the FIRST one.
	cases := []struct {
		password string
		wantMsg  string
	}{
		{"aB1!", "Password must be at least 8 characters long"},
		{"alllower1!", "Password must contain both uppercase and lowercase letters"},
		{"ALLUPPER1!", "Password must contain both uppercase and lowercase letters"},
		{"NoDigits!!", "Password must contain at least one number"},
		{"NoSpecial11", "Password must contain at least one special character (!@#$%^&*)"},
	}

	for _, c := range cases {
		_, err := svc.Register(context.Background(), "alice", "a@mahindrauniversity.edu.in", c.password)
		if err == nil {
			t.Errorf("Register(password=%q) should fail", c.password)
			continue
		}
		if got := codeOf(t, err); got != "auth/weak-password" {
			t.Errorf("Register(password=%q) code = %q, want auth/weak-password", c.password, got)
		}
		var appErr *apperror.AppError
		errors.As(err, &appErr)
		if appErr.Message != c.wantMsg {
			t.Errorf("Register(password=%q) message = %q, want %q", c.password, appErr.Message, c.wantMsg)
		}
	}
	if repo.storeHits != 0 {
		t.Error("policy rejection must never reach the store")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	register(t, svc, "dup@mahindrauniversity.edu.in")

	_, err := svc.Register(context.Background(), "imposter", "dup@mahindrauniversity.edu.in", "GoodPass1!")
	if got := codeOf(t, err); got != "auth/user-exists" {
		t.Errorf("code = %q, want auth/user-exists", got)
	}
	if len(repo.byEmail) != 1 {
		t.Errorf("%d accounts persisted, want 1", len(repo.byEmail))
	}
}

func TestRegister_InsertRaceMapsToUserExists(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	// Simulate the race: the existence check sees nothing, but the INSERT
	// hits the UNIQUE constraint because a concurrent registration won.
	repo.createErr = apperror.UserExists()

	_, err := svc.Register(context.Background(), "alice", "race@mahindrauniversity.edu.in", "GoodPass1!")
	if got := codeOf(t, err); got != "auth/user-exists" {
		t.Errorf("code = %q, want auth/user-exists", got)
	}
}

func TestRegister_StoreFailureIsInternal(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("disk is on fire")
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "alice", "a@mahindrauniversity.edu.in", "GoodPass1!")
	if !errors.Is(err, apperror.ErrInternal) {
		t.Errorf("error = %v, want apperror.ErrInternal", err)
	}
	// The raw cause must not be the outward message.
	var appErr *apperror.AppError
	errors.As(err, &appErr)
	if appErr.Message == "disk is on fire" {
		t.Error("store error leaked to the outward message")
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

// verifiedAccount registers and verifies an account, returning its email.
func verifiedAccount(t *testing.T, svc *AuthService, repo *fakeUserRepo) string {
	t.Helper()
	email := "real@mahindrauniversity.edu.in"
	register(t, svc, email)
	if err := repo.MarkVerified(context.Background(), email); err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}
	return email
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	email := verifiedAccount(t, svc, repo)

	result, err := svc.Login(context.Background(), email, "GoodPass1!")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned empty token")
	}
	if result.User.Email != email {
		t.Errorf("User.Email = %q, want %q", result.User.Email, email)
	}

	// The token round-trips through Check with the same identity.
	id, err := svc.Check(result.Token)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if id.UserID != result.User.ID || id.Role != model.RoleStudent || !id.Verified {
		t.Errorf("Check() identity = %+v, want the logged-in account", id)
	}
}

func TestLogin_UnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	email := verifiedAccount(t, svc, repo)

	_, errUnknown := svc.Login(context.Background(), "nope@mahindrauniversity.edu.in", "whatever")
	_, errWrongPw := svc.Login(context.Background(), email, "wrongpw")

	var a, b *apperror.AppError
	if !errors.As(errUnknown, &a) || !errors.As(errWrongPw, &b) {
		t.Fatal("both failures must be AppErrors")
	}
	// Identical code, status, and message — no user-enumeration oracle.
	if a.Code != b.Code || a.Status != b.Status || a.Message != b.Message {
		t.Errorf("responses differ: %+v vs %+v", a, b)
	}
	if a.Code != "auth/invalid-credentials" || a.Status != 401 {
		t.Errorf("got code=%q status=%d, want auth/invalid-credentials 401", a.Code, a.Status)
	}
}

func TestLogin_UnverifiedWithCorrectPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	register(t, svc, "new@mahindrauniversity.edu.in") // never verified

	_, err := svc.Login(context.Background(), "new@mahindrauniversity.edu.in", "GoodPass1!")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want AppError", err)
	}
	if appErr.Code != "auth/email-not-verified" || appErr.Status != 403 {
		t.Errorf("got code=%q status=%d, want auth/email-not-verified 403", appErr.Code, appErr.Status)
	}
}

func TestLogin_UnverifiedWithWrongPasswordStays401(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	register(t, svc, "new@mahindrauniversity.edu.in")

	// Credential check runs strictly before the verified check — wrong
	// password on an unverified account must NOT reveal verification
	// status.
	_, err := svc.Login(context.Background(), "new@mahindrauniversity.edu.in", "wrongpw")
	if got := codeOf(t, err); got != "auth/invalid-credentials" {
		t.Errorf("code = %q, want auth/invalid-credentials", got)
	}
}

func TestLogin_ForeignDomainNeverReachesStore(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "eve@gmail.com", "GoodPass1!")
	if got := codeOf(t, err); got != "auth/invalid-email-domain" {
		t.Errorf("code = %q, want auth/invalid-email-domain", got)
	}
	if repo.storeHits != 0 {
		t.Error("domain-policy rejection must never reach the store")
	}
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("connection refused")
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "a@mahindrauniversity.edu.in", "GoodPass1!")
	if !errors.Is(err, apperror.ErrInternal) {
		t.Errorf("error = %v, want apperror.ErrInternal", err)
	}
}

// =========================================================================
// Check TESTS
// =========================================================================

func TestCheck_InvalidToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Check(tok)
		if got := codeOf(t, err); got != "auth/unauthorized" {
			t.Errorf("Check(%q) code = %q, want auth/unauthorized", tok, got)
		}
	}
}

func TestCheck_DoesNotReadStore(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	email := verifiedAccount(t, svc, repo)

	result, err := svc.Login(context.Background(), email, "GoodPass1!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	before := repo.storeHits
	if _, err := svc.Check(result.Token); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if repo.storeHits != before {
		t.Error("Check() must be purely cryptographic — no store reads")
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/muhub/projecthub/internal/apperror"
	"github.com/muhub/projecthub/internal/model"
	"github.com/muhub/projecthub/internal/repository"
)

// UserStore implements repository.UserRepository over the shared pool.
type UserStore struct {
	conn *sql.DB
}

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// Users returns the user-facing view of the database.
func (db *DB) Users() *UserStore {
	return &UserStore{conn: db.conn}
}

// Create inserts a new account and fills in ID and timestamps.
//
// DUPLICATE HANDLING:
// The UNIQUE constraint on email is the source of truth. Two registrations
// racing on the same address can both pass the service's existence check;
// whichever INSERT lands second fails here, and we translate the constraint
// violation into the standard conflict error instead of bubbling a raw
// driver error up the stack.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, is_verified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.UserExists()
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves an account by its (lowercase) email.
// Returns an error matching apperror.ErrNotFound if no account exists.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, `email = ?`, email)
}

// GetByID retrieves an account by its internal ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `id = ?`, id)
}

func (s *UserStore) getUser(ctx context.Context, where string, arg string) (*model.User, error) {
	var u model.User

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, is_verified, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user (%s): %w", arg, err)
	}

	return &u, nil
}

// MarkVerified flips is_verified for the account with the given email.
// Returns an error matching apperror.ErrNotFound if no account exists.
func (s *UserStore) MarkVerified(ctx context.Context, email string) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE users SET is_verified = 1, updated_at = ? WHERE email = ?`,
		time.Now(), email,
	)
	if err != nil {
		return fmt.Errorf("sqlite: marking user verified (email=%s): %w", email, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", email)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite surfaces these as "constraint failed: UNIQUE
// constraint failed: users.email" — string matching is the portable check
// without importing driver internals.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite);
// tests use in-memory fakes.
package repository

import (
	"context"

	"github.com/muhub/projecthub/internal/model"
)

// ListOptions carries pagination for listing queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the credential store adapter.
//
// Emails are expected lowercase by the time they reach this interface —
// normalization is the auth service's job, the store just matches bytes.
type UserRepository interface {
	// Create inserts a new account. A duplicate email returns an error
	// matching apperror.ErrConflict, including when the duplicate appears
	// only at insert time (two registrations racing on the same email).
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	// MarkVerified flips is_verified for the account with the given email.
	// Driven by the external verification process (or the verify CLI).
	MarkVerified(ctx context.Context, email string) error
}

// ProjectRepository stores submitted project ideas.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, opts ListOptions) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

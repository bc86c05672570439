package ports

import (
	"context"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// CreateStaffInput carries the fields an admin supplies when creating a
// staff account. The role is implied; it is never part of the input.
type CreateStaffInput struct {
	Email      string
	Name       string
	Password   string
	Department string
}

// UserService covers role resolution, profiles and admin user management.
type UserService interface {
	// ResolveRole returns the principal's role. An empty identity fails with
	// domain.ErrNoIdentity before any store access. A missing role field on
	// the stored record normalizes to citizen; a lookup failure is returned
	// as an error and must never be treated as a grant.
	ResolveRole(ctx context.Context, email string) (domain.Role, error)

	Get(ctx context.Context, email string) (*domain.User, error)
	// UpsertOnLogin records the user on first authentication and returns the
	// stored record afterwards.
	UpsertOnLogin(ctx context.Context, email, name, photoURL string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, email string, update ProfileUpdate) (*domain.User, error)

	// Admin operations.
	ListUsers(ctx context.Context, role domain.Role) ([]*domain.User, error)
	SetBlocked(ctx context.Context, email string, blocked bool) error
	CreateStaff(ctx context.Context, in CreateStaffInput) (*domain.User, error)
	ListStaff(ctx context.Context) ([]*domain.User, error)
	DeleteStaff(ctx context.Context, email string) error
}

package ports

import (
	"context"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// ProfileUpdate carries the citizen-editable profile fields. Nil means
// "leave unchanged". Role, premium and blocked flags are deliberately absent:
// they move only through dedicated admin/payment operations.
type ProfileUpdate struct {
	Name     *string
	PhotoURL *string
	Phone    *string
}

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Upsert inserts the user on first login and returns the stored record on
	// subsequent logins without overwriting role or flags.
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error
	SetBlocked(ctx context.Context, email string, blocked bool) error
	SetPremium(ctx context.Context, email string) error
	// IncrementIssuesReported adjusts the lifetime reported-issue counter used
	// by the free-tier cap.
	IncrementIssuesReported(ctx context.Context, email string, delta int) error
	List(ctx context.Context, role domain.Role) ([]*domain.User, error)
	// DeleteStaff removes a staff record. Citizen records are never hard-deleted.
	DeleteStaff(ctx context.Context, email string) error
}

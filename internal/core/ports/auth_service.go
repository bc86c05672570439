package ports

import (
	"context"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// AuthService issues the bearer credentials carried on every authenticated
// request. Registration always produces a citizen; staff accounts are created
// through UserService.CreateStaff by an admin.
type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

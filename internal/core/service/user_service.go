package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

// RoleCache abstracts the per-identity role cache (Redis). A short TTL keeps
// role lookups off the hot path without letting revocations linger.
type RoleCache interface {
	Get(ctx context.Context, email string) (domain.Role, bool, error)
	Set(ctx context.Context, email string, role domain.Role) error
}

type userService struct {
	repo  ports.UserRepository
	cache RoleCache
	log   zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(repo ports.UserRepository, cache RoleCache, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, cache: cache, log: log}
}

// ResolveRole resolves the principal's role through the cache. Cache errors
// degrade to a direct lookup; store errors propagate so callers treat the
// role as unknown, never as a grant.
func (s *userService) ResolveRole(ctx context.Context, email string) (domain.Role, error) {
	if email == "" {
		return "", domain.ErrNoIdentity
	}

	if role, ok, err := s.cache.Get(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("role cache read failed, falling through to store")
	} else if ok {
		return role, nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	role := domain.NormalizeRole(string(user.Role))
	if err := s.cache.Set(ctx, email, role); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("role cache write failed")
	}
	return role, nil
}

func (s *userService) Get(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *userService) UpsertOnLogin(ctx context.Context, email, name, photoURL string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrNoIdentity
	}
	now := time.Now().UTC()
	user := &domain.User{
		Email:     email,
		Name:      name,
		PhotoURL:  photoURL,
		Role:      domain.RoleCitizen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.repo.Upsert(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("email", email).Str("role", string(stored.Role)).Msg("user upserted on login")
	return stored, nil
}

// UpdateProfile applies name/photo/phone changes. Users edit themselves;
// admins may edit anyone.
func (s *userService) UpdateProfile(ctx context.Context, actor domain.Actor, email string, update ports.ProfileUpdate) (*domain.User, error) {
	if actor.Email != email && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if err := s.repo.UpdateProfile(ctx, email, update); err != nil {
		return nil, err
	}
	return s.repo.FindByEmail(ctx, email)
}

func (s *userService) ListUsers(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.repo.List(ctx, role)
}

func (s *userService) SetBlocked(ctx context.Context, email string, blocked bool) error {
	if err := s.repo.SetBlocked(ctx, email, blocked); err != nil {
		return err
	}
	s.log.Info().Str("email", email).Bool("blocked", blocked).Msg("user block state changed")
	return nil
}

// CreateStaff provisions a staff account. This is the only path that assigns
// the staff role.
func (s *userService) CreateStaff(ctx context.Context, in ports.CreateStaffInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		Name:         in.Name,
		Role:         domain.RoleStaff,
		Department:   in.Department,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	// Invalidate any stale cached role for this identity.
	if err := s.cache.Set(ctx, in.Email, domain.RoleStaff); err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("role cache write failed")
	}
	s.log.Info().Str("email", in.Email).Str("department", in.Department).Msg("staff account created")
	return created, nil
}

func (s *userService) ListStaff(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx, domain.RoleStaff)
}

func (s *userService) DeleteStaff(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleStaff {
		return domain.ErrNotStaff
	}
	if err := s.repo.DeleteStaff(ctx, email); err != nil {
		return err
	}
	s.log.Info().Str("email", email).Msg("staff account deleted")
	return nil
}

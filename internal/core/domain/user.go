package domain

import (
	"errors"
	"time"
)

// Role is the access level of an authenticated actor.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
	// RoleUnknown is assigned when the stored role string is not one of the
	// three known roles. It is a member of no allowed set.
	RoleUnknown Role = "unknown"
)

// NormalizeRole maps a raw stored role string to a Role. A missing role
// defaults to citizen; an unrecognized string maps to RoleUnknown and is
// never granted access anywhere.
func NormalizeRole(raw string) Role {
	switch raw {
	case "":
		return RoleCitizen
	case string(RoleCitizen):
		return RoleCitizen
	case string(RoleStaff):
		return RoleStaff
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// Known reports whether r is one of the three recognized roles.
func (r Role) Known() bool {
	return r == RoleCitizen || r == RoleStaff || r == RoleAdmin
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoIdentity         = errors.New("no authenticated identity")
	ErrReportLimitReached = errors.New("free-tier report limit reached, subscribe to report more issues")
	ErrAlreadyPremium     = errors.New("user is already premium")
	ErrNotStaff           = errors.New("user is not a staff member")
)

// User models an account keyed by email. Role is assigned by an admin (for
// staff) or defaults to citizen at registration; it is never client-supplied.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PhotoURL       string    `json:"photoUrl,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Role           Role      `json:"role"`
	Department     string    `json:"department,omitempty"`
	IsPremium      bool      `json:"isPremium"`
	IsBlocked      bool      `json:"isBlocked"`
	IssuesReported int       `json:"issuesReported"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Actor is the identity a mutation is performed as, resolved from the
// bearer credential and the user store (never from the request body).
type Actor struct {
	Email string
	Name  string
	Role  Role
}

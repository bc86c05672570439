package middleware

import (
	"github.com/fixmycity/civic-api/internal/core/domain"
)

// LoginPath is where unauthenticated principals are sent to sign in.
const LoginPath = "/login"

// DecisionKind enumerates the outcomes of a guard evaluation.
type DecisionKind int

const (
	// DecisionAllow lets the request through to the guarded subtree.
	DecisionAllow DecisionKind = iota
	// DecisionAuthenticate means no principal is present; the caller must
	// sign in and can be returned to Next afterwards.
	DecisionAuthenticate
	// DecisionDeny means the principal is authenticated but their role is
	// not a member of the subtree's allowed set.
	DecisionDeny
)

// Decision is the result of evaluating a guard for one request.
type Decision struct {
	Kind DecisionKind

	// Populated for DecisionAuthenticate.
	LoginPath string
	Next      string

	// Populated for DecisionDeny: the detected role and that role's own
	// dashboard root.
	Role         domain.Role
	RedirectPath string
}

// DashboardPath returns the dashboard root owned by a role. Unknown roles own
// nothing and fall back to the site root.
func DashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleCitizen:
		return "/citizen"
	case domain.RoleStaff:
		return "/staff"
	case domain.RoleAdmin:
		return "/admin"
	default:
		return "/"
	}
}

// Evaluate applies the gate checks in fixed order: authentication presence
// first, then role membership. An absent principal always yields
// DecisionAuthenticate before any role comparison, and an unknown role is a
// member of no allowed set.
func Evaluate(principalPresent bool, role domain.Role, next string, allowed ...domain.Role) Decision {
	if !principalPresent {
		return Decision{Kind: DecisionAuthenticate, LoginPath: LoginPath, Next: next}
	}

	if role.Known() {
		for _, a := range allowed {
			if role == a {
				return Decision{Kind: DecisionAllow}
			}
		}
	}

	return Decision{Kind: DecisionDeny, Role: role, RedirectPath: DashboardPath(role)}
}

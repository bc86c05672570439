package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fixmycity/civic-api/internal/api/metrics"
	"github.com/fixmycity/civic-api/internal/core/domain"
)

// authenticateResponse tells an unauthenticated caller where to sign in and
// which path to come back to.
type authenticateResponse struct {
	Error string `json:"error"`
	Login string `json:"login"`
	Next  string `json:"next"`
}

// denyResponse names the detected role and points at that role's own
// dashboard root.
type denyResponse struct {
	Error    string `json:"error"`
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

// Unauthenticated renders the sign-in envelope for a request with no usable
// credentials: where to log in and which path to come back to afterwards. It
// is shared by Auth (no or bad token) and the role gate (no principal).
func Unauthenticated(c echo.Context) error {
	metrics.GuardDenialsTotal.WithLabelValues("unauthenticated").Inc()
	return c.JSON(http.StatusUnauthorized, authenticateResponse{
		Error: "authentication required",
		Login: LoginPath,
		Next:  c.Request().URL.Path,
	})
}

// RequireRoles gates a route group on role membership. It is applied once at
// the group root; nested routes inherit the gate.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, _ := c.Get("email").(string)
			role, _ := c.Get("role").(domain.Role)

			decision := Evaluate(email != "", role, c.Request().URL.Path, allowed...)
			switch decision.Kind {
			case DecisionAuthenticate:
				return Unauthenticated(c)
			case DecisionDeny:
				metrics.GuardDenialsTotal.WithLabelValues("role").Inc()
				return c.JSON(http.StatusForbidden, denyResponse{
					Error:    "access refused for role " + string(decision.Role),
					Role:     string(decision.Role),
					Redirect: decision.RedirectPath,
				})
			}

			return next(c)
		}
	}
}

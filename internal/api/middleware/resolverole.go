package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

// ResolveRole looks up the authenticated principal's role from the user store
// (through the role cache) and injects it into context for the guards.
//
// A resolution failure is never treated as a grant: unknown is not denied and
// not granted, so the request fails with 503 and the caller retries.
func ResolveRole(users ports.UserService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, _ := c.Get("email").(string)

			role, err := users.ResolveRole(c.Request().Context(), email)
			if err != nil {
				if errors.Is(err, domain.ErrNoIdentity) {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
				}
				log.Error().Err(err).Str("email", email).Msg("role resolution failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "role resolution unavailable")
			}

			c.Set("role", role)
			return next(c)
		}
	}
}

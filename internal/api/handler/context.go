package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fixmycity/civic-api/internal/core/domain"
)

// ctxActor extracts the principal injected by the Auth and ResolveRole
// middleware and performs a fast-fail check before any service call: the
// email must be present (presence proves the middleware ran).
func ctxActor(c echo.Context) (domain.Actor, error) {
	email, _ := c.Get("email").(string)
	if email == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	role, _ := c.Get("role").(domain.Role)

	return domain.Actor{Email: email, Name: name, Role: role}, nil
}

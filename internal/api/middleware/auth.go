package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth validates the bearer JWT and injects the principal's identity into
// context. Only identity claims are trusted from the token; the role is
// resolved from the user store by ResolveRole, never read from the JWT.
// A request without usable credentials gets the sign-in envelope so the
// caller knows where to log in and which path to come back to.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return Unauthenticated(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return Unauthenticated(c)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return Unauthenticated(c)
			}

			email, _ := claims["sub"].(string)
			name, _ := claims["name"].(string)

			c.Set("email", email)
			c.Set("name", name)

			return next(c)
		}
	}
}

package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

// ContextKeyEmail holds the authenticated principal's email in the echo context.
const ContextKeyEmail = "email"

// Auth validates the bearer token and injects the principal's email into context.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrInvalidToken
			}

			p, err := auth.Authenticate(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(ContextKeyEmail, p.Email)
			return next(c)
		}
	}
}

// Principal returns the identity set by Auth, or nil when the route is public.
func Principal(c echo.Context) *ports.Principal {
	email, _ := c.Get(ContextKeyEmail).(string)
	if email == "" {
		return nil
	}
	return &ports.Principal{Email: email}
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/core/ports"
)

// RequireAdmin must run after Auth. The role is read from the store on every
// request, so a demotion takes effect immediately.
func RequireAdmin(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := auth.RequireAdmin(c.Request().Context(), Principal(c)); err != nil {
				return err
			}
			return next(c)
		}
	}
}

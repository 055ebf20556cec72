package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/api/middleware"
	"github.com/learncraft/learncraft-api/internal/core/domain"
)

// bind decodes and validates the request body. Decode failures are 400,
// validation failures 422.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalidf("invalid payload")
	}
	return c.Validate(req)
}

// principalEmail returns the authenticated caller. Only valid on routes behind middleware.Auth.
func principalEmail(c echo.Context) (string, error) {
	p := middleware.Principal(c)
	if p == nil {
		return "", domain.ErrMissingToken
	}
	return p.Email, nil
}

// requireSelf rejects access to another user's data.
func requireSelf(c echo.Context, email string) error {
	caller, err := principalEmail(c)
	if err != nil {
		return err
	}
	if email == "" {
		return domain.Invalidf("email is required")
	}
	if !strings.EqualFold(strings.TrimSpace(email), caller) {
		return domain.ErrNotOwner
	}
	return nil
}

// ownEmail defaults an optional body email to the caller and rejects a
// different one.
func ownEmail(c echo.Context, email string) (string, error) {
	caller, err := principalEmail(c)
	if err != nil {
		return "", err
	}
	if email == "" {
		return caller, nil
	}
	if !strings.EqualFold(strings.TrimSpace(email), caller) {
		return "", domain.ErrNotOwner
	}
	return caller, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// IssueToken signs a bearer token for the email confirmed by the sign-in provider.
//
// @Summary      Issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Signed-in email"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /jwt [post]
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req tokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.authService.IssueToken(req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

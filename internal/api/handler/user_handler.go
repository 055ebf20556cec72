package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create records a first sign-in.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  domain.User
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /create-user [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// List returns users, optionally filtered by name or email.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive name or email match"
// @Success      200     {array}   domain.User
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// @Summary      Get a user by email
// @Tags         users
// @Produce      json
// @Param        email  path      string  true  "Email"
// @Success      200    {object}  domain.User
// @Failure      404    {object}  map[string]string
// @Router       /user/{email} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Promote grants the admin role.
//
// @Summary      Promote a user to admin
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/{id} [patch]
func (h *UserHandler) Promote(c echo.Context) error {
	if err := h.users.PromoteToAdmin(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user promoted"})
}

// IsAdmin reports whether the caller is an admin. Callers can only ask about themselves.
//
// @Summary      Check the admin role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Caller email"
// @Success      200    {object}  adminStatusResponse
// @Failure      403    {object}  map[string]string
// @Router       /users/admin/{email} [get]
func (h *UserHandler) IsAdmin(c echo.Context) error {
	email := c.Param("email")
	if err := requireSelf(c, email); err != nil {
		return err
	}

	admin, err := h.users.IsAdmin(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminStatusResponse{Admin: admin})
}

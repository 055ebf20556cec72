package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// @Summary      Add a class to the caller's cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addCartRequest  true  "Cart entry"
// @Success      201   {object}  domain.CartEntry
// @Failure      404   {object}  map[string]string
// @Router       /add-cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req addCartRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := ownEmail(c, req.Email)
	if err != nil {
		return err
	}

	entry, err := h.carts.AddToCart(c.Request().Context(), ports.AddCartInput{
		Email:          email,
		ClassID:        req.ClassID,
		Title:          req.Title,
		Price:          req.Price,
		Image:          req.Image,
		InstructorName: req.InstructorName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// @Summary      List the caller's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Owner email"
// @Success      200    {array}   domain.CartEntry
// @Failure      403    {object}  map[string]string
// @Router       /carts [get]
func (h *CartHandler) List(c echo.Context) error {
	email := c.QueryParam("email")
	if err := requireSelf(c, email); err != nil {
		return err
	}
	entries, err := h.carts.ListCart(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// @Summary      Remove a cart entry
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cart entry id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /cart/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return err
	}
	if err := h.carts.RemoveFromCart(c.Request().Context(), c.Param("id"), email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "removed from cart"})
}

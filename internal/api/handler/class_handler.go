package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/api/metrics"
	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

// ClassHandler serves the catalog and class moderation.
type ClassHandler struct {
	catalog ports.CatalogService
}

func NewClassHandler(catalog ports.CatalogService) *ClassHandler {
	return &ClassHandler{catalog: catalog}
}

// Create submits a class for review. The instructor is the caller.
//
// @Summary      Create a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClassRequest  true  "Class"
// @Success      201   {object}  domain.Class
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /add-class [post]
func (h *ClassHandler) Create(c echo.Context) error {
	var req createClassRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := ownEmail(c, req.InstructorEmail)
	if err != nil {
		return err
	}

	class, err := h.catalog.CreateClass(c.Request().Context(), ports.CreateClassInput{
		Title:           req.Title,
		Price:           req.Price,
		Description:     req.Description,
		Image:           req.Image,
		InstructorName:  req.InstructorName,
		InstructorEmail: email,
	})
	if err != nil {
		return err
	}

	metrics.ClassesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, class)
}

// List returns every class, or the classes of one instructor.
//
// @Summary      List classes
// @Tags         classes
// @Produce      json
// @Param        email  query    string  false  "Instructor email"
// @Success      200    {array}  domain.Class
// @Router       /classes [get]
// @Router       /teacher-classes [get]
func (h *ClassHandler) List(c echo.Context) error {
	classes, err := h.catalog.ListClasses(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classes)
}

// @Summary      Get a class
// @Tags         classes
// @Produce      json
// @Param        id   path      string  true  "Class id"
// @Success      200  {object}  domain.Class
// @Failure      404  {object}  map[string]string
// @Router       /class/{id} [get]
func (h *ClassHandler) Get(c echo.Context) error {
	class, err := h.catalog.GetClass(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, class)
}

// @Summary      List approved classes
// @Tags         classes
// @Produce      json
// @Param        sort  query     string  false  "Price order"  Enums(asc, desc)
// @Success      200   {array}   domain.Class
// @Failure      400   {object}  map[string]string
// @Router       /approved-classes [get]
func (h *ClassHandler) Approved(c echo.Context) error {
	classes, err := h.catalog.ListApproved(c.Request().Context(), c.QueryParam("sort"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classes)
}

// @Summary      Search classes by title
// @Tags         classes
// @Produce      json
// @Param        search  query    string  false  "Title substring"
// @Success      200     {array}  domain.Class
// @Router       /courses/search [get]
func (h *ClassHandler) Search(c echo.Context) error {
	classes, err := h.catalog.Search(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classes)
}

// @Summary      Recommended classes
// @Tags         classes
// @Produce      json
// @Success      200  {array}  domain.Class
// @Router       /recommended-classes [get]
func (h *ClassHandler) Recommended(c echo.Context) error {
	classes, err := h.catalog.Recommend(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classes)
}

// @Summary      Most enrolled approved classes
// @Tags         classes
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of classes"
// @Success      200    {array}   domain.Class
// @Failure      400    {object}  map[string]string
// @Router       /popular-classes [get]
func (h *ClassHandler) Popular(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Invalidf("limit must be an integer")
		}
		limit = n
	}

	classes, err := h.catalog.Popular(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classes)
}

// Update overwrites the editable fields; status and counters are untouched.
//
// @Summary      Edit a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Class id"
// @Param        body  body      updateClassRequest  true  "Editable fields"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /class/{id} [patch]
func (h *ClassHandler) Update(c echo.Context) error {
	caller, err := principalEmail(c)
	if err != nil {
		return err
	}
	var req updateClassRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err = h.catalog.EditClass(c.Request().Context(), c.Param("id"), caller, domain.ClassPatch{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "class updated"})
}

// @Summary      Delete a class
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Class id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /delete-class/{id} [delete]
func (h *ClassHandler) Delete(c echo.Context) error {
	caller, err := principalEmail(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteClass(c.Request().Context(), c.Param("id"), caller); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "class deleted"})
}

// Moderate returns a handler applying the given decision to the class in the path.
//
// @Summary      Approve or reject a class
// @Tags         classes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Class id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /approve/{id} [patch]
// @Router       /reject/{id} [patch]
func (h *ClassHandler) Moderate(decision domain.Decision) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.catalog.Moderate(c.Request().Context(), c.Param("id"), decision); err != nil {
			return err
		}
		metrics.ModerationDecisionsTotal.WithLabelValues("class", string(decision)).Inc()
		status, _ := decision.Status()
		return c.JSON(http.StatusOK, messageResponse{Message: "class " + string(status)})
	}
}

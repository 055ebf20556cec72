package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/api/metrics"
	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type TeacherHandler struct {
	teachers ports.TeacherService
}

func NewTeacherHandler(teachers ports.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// Apply files the caller's teacher application.
//
// @Summary      Apply to teach
// @Tags         teachers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      applyTeacherRequest  true  "Application"
// @Success      201   {object}  domain.TeacherApplication
// @Failure      409   {object}  map[string]string
// @Router       /add-teacher [post]
func (h *TeacherHandler) Apply(c echo.Context) error {
	var req applyTeacherRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := ownEmail(c, req.Email)
	if err != nil {
		return err
	}

	app, err := h.teachers.Apply(c.Request().Context(), ports.ApplyTeacherInput{
		Name:       req.Name,
		Email:      email,
		Image:      req.Image,
		Title:      req.Title,
		Experience: req.Experience,
		Category:   req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// @Summary      List teacher applications
// @Tags         teachers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.TeacherApplication
// @Failure      403  {object}  map[string]string
// @Router       /teachers [get]
func (h *TeacherHandler) List(c echo.Context) error {
	apps, err := h.teachers.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// @Summary      Get a teacher application by email
// @Tags         teachers
// @Produce      json
// @Param        email  path      string  true  "Applicant email"
// @Success      200    {object}  domain.TeacherApplication
// @Failure      404    {object}  map[string]string
// @Router       /teacher/{email} [get]
func (h *TeacherHandler) Get(c echo.Context) error {
	app, err := h.teachers.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, app)
}

// Moderate returns a handler applying the given decision to the application in the path.
//
// @Summary      Approve or reject a teacher application
// @Tags         teachers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /teacher-approve/{id} [patch]
// @Router       /teacher-reject/{id} [patch]
func (h *TeacherHandler) Moderate(decision domain.Decision) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.teachers.Moderate(c.Request().Context(), c.Param("id"), decision); err != nil {
			return err
		}
		metrics.ModerationDecisionsTotal.WithLabelValues("teacher", string(decision)).Inc()
		status, _ := decision.Status()
		return c.JSON(http.StatusOK, messageResponse{Message: "application " + string(status)})
	}
}

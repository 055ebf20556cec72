package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type FeedbackHandler struct {
	feedback ports.FeedbackService
}

func NewFeedbackHandler(feedback ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// @Summary      Leave feedback on a class
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      feedbackRequest  true  "Feedback"
// @Success      201   {object}  domain.Feedback
// @Failure      422   {object}  map[string]string
// @Router       /add-feedback [post]
func (h *FeedbackHandler) Add(c echo.Context) error {
	var req feedbackRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := ownEmail(c, req.Email)
	if err != nil {
		return err
	}

	fb, err := h.feedback.AddFeedback(c.Request().Context(), ports.FeedbackInput{
		ClassID:     req.ClassID,
		Email:       email,
		Name:        req.Name,
		Rating:      req.Rating,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fb)
}

// @Summary      List feedback, newest first
// @Tags         feedback
// @Produce      json
// @Param        class_id  query    string  false  "Class id"
// @Success      200       {array}  domain.Feedback
// @Router       /feedbacks [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	list, err := h.feedback.ListFeedback(c.Request().Context(), c.QueryParam("class_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type AssignmentHandler struct {
	assignments ports.AssignmentService
}

func NewAssignmentHandler(assignments ports.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// Post creates an assignment and bumps the class's assignment counter.
//
// @Summary      Post an assignment
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postAssignmentRequest  true  "Assignment"
// @Success      201   {object}  domain.Assignment
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /add-assignment [post]
func (h *AssignmentHandler) Post(c echo.Context) error {
	caller, err := principalEmail(c)
	if err != nil {
		return err
	}
	var req postAssignmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := h.assignments.PostAssignment(c.Request().Context(), ports.PostAssignmentInput{
		Caller:      caller,
		ClassID:     req.ClassID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Submit records the caller's answer to an assignment.
//
// @Summary      Submit an assignment
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submissionRequest  true  "Submission"
// @Success      201   {object}  domain.Submission
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /post-assignment [post]
func (h *AssignmentHandler) Submit(c echo.Context) error {
	var req submissionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := ownEmail(c, req.Email)
	if err != nil {
		return err
	}

	sub, err := h.assignments.RecordSubmission(c.Request().Context(), ports.SubmissionInput{
		AssignmentID: req.AssignmentID,
		Email:        email,
		Content:      req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sub)
}

// @Summary      List assignments
// @Tags         assignments
// @Produce      json
// @Param        class_id  query    string  false  "Class id"
// @Success      200       {array}  domain.Assignment
// @Router       /assignments [get]
func (h *AssignmentHandler) List(c echo.Context) error {
	list, err := h.assignments.ListAssignments(c.Request().Context(), c.QueryParam("class_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// FindSubmission looks up a submission by its (assignment, email) key.
//
// @Summary      Find a submission
// @Tags         assignments
// @Produce      json
// @Security     BearerAuth
// @Param        assignment_id  query     string  true   "Assignment id"
// @Param        email          query     string  false  "Student email, defaults to the caller"
// @Success      200            {object}  domain.Submission
// @Failure      404            {object}  map[string]string
// @Router       /submission [get]
func (h *AssignmentHandler) FindSubmission(c echo.Context) error {
	assignmentID := c.QueryParam("assignment_id")
	if assignmentID == "" {
		return domain.Invalidf("assignment_id is required")
	}
	email := c.QueryParam("email")
	if email == "" {
		caller, err := principalEmail(c)
		if err != nil {
			return err
		}
		email = caller
	}

	sub, err := h.assignments.FindSubmission(c.Request().Context(), assignmentID, email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

// @Summary      Count a student's submissions
// @Tags         assignments
// @Produce      json
// @Param        email  query     string  true  "Student email"
// @Success      200    {object}  countResponse
// @Failure      400    {object}  map[string]string
// @Router       /assignments-count [get]
func (h *AssignmentHandler) Count(c echo.Context) error {
	n, err := h.assignments.CountSubmissionsByUser(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

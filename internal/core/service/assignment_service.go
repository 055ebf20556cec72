package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type AssignmentService struct {
	classes     ports.ClassRepository
	assignments ports.AssignmentRepository
	submissions ports.SubmissionRepository
	logger      zerolog.Logger
}

func NewAssignmentService(
	classes ports.ClassRepository,
	assignments ports.AssignmentRepository,
	submissions ports.SubmissionRepository,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		classes:     classes,
		assignments: assignments,
		submissions: submissions,
		logger:      logger,
	}
}

// PostAssignment bumps the parent class's assignment counter first and only
// inserts when that increment matched a class, so no assignment is ever
// orphaned. An unknown class yields domain.ErrClassNotFound, a caller other
// than the instructor domain.ErrNotOwner.
func (s *AssignmentService) PostAssignment(ctx context.Context, in ports.PostAssignmentInput) (*domain.Assignment, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Invalidf("title is required")
	}
	if err := requireInstructor(ctx, s.classes, in.ClassID, in.Caller); err != nil {
		return nil, err
	}

	if err := s.classes.IncrementAssignment(ctx, in.ClassID); err != nil {
		return nil, err
	}

	a, err := s.assignments.Create(ctx, &domain.Assignment{
		ClassID:     in.ClassID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Deadline:    in.Deadline.UTC(),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		// The counter is already bumped; there is no compensation.
		s.logger.Error().Err(err).Str("class_id", in.ClassID).Msg("assignment insert failed after counter increment")
		return nil, err
	}

	s.logger.Info().Str("class_id", in.ClassID).Str("assignment_id", a.ID).Msg("assignment posted")
	return a, nil
}

func (s *AssignmentService) ListAssignments(ctx context.Context, classID string) ([]*domain.Assignment, error) {
	return s.assignments.List(ctx, classID)
}

// RecordSubmission inserts the submission and then bumps the assignment's
// submission counter. A second submission for the same (assignment, email)
// is rejected by the store with domain.ErrDuplicateSubmission.
func (s *AssignmentService) RecordSubmission(ctx context.Context, in ports.SubmissionInput) (*domain.Submission, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, domain.Invalidf("email is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.Invalidf("content is required")
	}

	assignment, err := s.assignments.FindByID(ctx, in.AssignmentID)
	if err != nil {
		return nil, err
	}

	sub, err := s.submissions.Create(ctx, &domain.Submission{
		AssignmentID: assignment.ID,
		ClassID:      assignment.ClassID,
		Email:        email,
		Content:      in.Content,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.assignments.IncrementSubmission(ctx, assignment.ID); err != nil {
		s.logger.Warn().Err(err).Str("assignment_id", assignment.ID).Msg("failed to increment submission counter")
	}

	return sub, nil
}

func (s *AssignmentService) FindSubmission(ctx context.Context, assignmentID, email string) (*domain.Submission, error) {
	return s.submissions.FindByAssignmentAndEmail(ctx, assignmentID, normalizeEmail(email))
}

func (s *AssignmentService) CountSubmissionsByUser(ctx context.Context, email string) (int64, error) {
	email = normalizeEmail(email)
	if email == "" {
		return 0, domain.Invalidf("email is required")
	}
	return s.submissions.CountByEmail(ctx, email)
}

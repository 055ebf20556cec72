package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

const (
	defaultPopularLimit = 6
	maxPopularLimit     = 50
)

// CatalogService manages the class lifecycle.
type CatalogService struct {
	repo   ports.ClassRepository
	logger zerolog.Logger
}

func NewCatalogService(repo ports.ClassRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// CreateClass stores a new class as pending with zeroed counters.
func (s *CatalogService) CreateClass(ctx context.Context, in ports.CreateClassInput) (*domain.Class, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Invalidf("title is required")
	}
	if in.Price <= 0 {
		return nil, domain.Invalidf("price must be greater than 0")
	}
	if strings.TrimSpace(in.InstructorEmail) == "" {
		return nil, domain.Invalidf("instructor_email is required")
	}

	class, err := s.repo.Create(ctx, &domain.Class{
		Title:           strings.TrimSpace(in.Title),
		Price:           in.Price,
		Description:     in.Description,
		Image:           in.Image,
		InstructorName:  in.InstructorName,
		InstructorEmail: normalizeEmail(in.InstructorEmail),
		Status:          domain.StatusPending,
		EnrollmentCount: 0,
		AssignmentCount: 0,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create class")
		return nil, err
	}

	s.logger.Info().Str("class_id", class.ID).Str("instructor", class.InstructorEmail).Msg("class created")
	return class, nil
}

// EditClass overwrites title, price, description and image. Status and
// instructor cannot change through this path. Only the instructor may edit.
func (s *CatalogService) EditClass(ctx context.Context, id, caller string, patch domain.ClassPatch) error {
	if strings.TrimSpace(patch.Title) == "" {
		return domain.Invalidf("title is required")
	}
	if patch.Price <= 0 {
		return domain.Invalidf("price must be greater than 0")
	}
	if err := requireInstructor(ctx, s.repo, id, caller); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, patch)
}

// Moderate is idempotent: re-applying the same decision succeeds without change.
func (s *CatalogService) Moderate(ctx context.Context, id string, decision domain.Decision) error {
	status, err := decision.Status()
	if err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info().Str("class_id", id).Str("status", string(status)).Msg("class moderated")
	return nil
}

func (s *CatalogService) ListClasses(ctx context.Context, instructorEmail string) ([]*domain.Class, error) {
	return s.repo.List(ctx, ports.ClassFilter{InstructorEmail: normalizeEmail(instructorEmail)})
}

func (s *CatalogService) GetClass(ctx context.Context, id string) (*domain.Class, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) ListApproved(ctx context.Context, sort string) ([]*domain.Class, error) {
	filter := ports.ClassFilter{Status: domain.StatusApproved}
	switch strings.ToLower(sort) {
	case "":
	case "asc":
		filter.SortBy = "price"
	case "desc":
		filter.SortBy = "price"
		filter.SortDesc = true
	default:
		return nil, domain.Invalidf("sort must be one of: asc desc")
	}
	return s.repo.List(ctx, filter)
}

// Search matches term as a case-insensitive substring of the title.
func (s *CatalogService) Search(ctx context.Context, term string) ([]*domain.Class, error) {
	return s.repo.List(ctx, ports.ClassFilter{TitleSearch: strings.TrimSpace(term)})
}

// Recommend returns approved classes with at least domain.RecommendThreshold enrollments.
func (s *CatalogService) Recommend(ctx context.Context) ([]*domain.Class, error) {
	return s.repo.List(ctx, ports.ClassFilter{
		Status:        domain.StatusApproved,
		MinEnrollment: domain.RecommendThreshold,
	})
}

// Popular returns approved classes ordered by enrollment count.
func (s *CatalogService) Popular(ctx context.Context, limit int) ([]*domain.Class, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}
	return s.repo.List(ctx, ports.ClassFilter{
		Status:   domain.StatusApproved,
		SortBy:   "enrollment_count",
		SortDesc: true,
		Limit:    int64(limit),
	})
}

// DeleteClass does not cascade to assignments or enrollments. Only the
// instructor may delete.
func (s *CatalogService) DeleteClass(ctx context.Context, id, caller string) error {
	if err := requireInstructor(ctx, s.repo, id, caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("class_id", id).Msg("class deleted")
	return nil
}

// requireInstructor loads the class and checks that caller teaches it.
func requireInstructor(ctx context.Context, repo ports.ClassRepository, id, caller string) error {
	class, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if caller == "" || normalizeEmail(caller) != normalizeEmail(class.InstructorEmail) {
		return domain.ErrNotOwner
	}
	return nil
}

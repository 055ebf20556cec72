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
	minRating = 1
	maxRating = 5
)

type FeedbackService struct {
	repo   ports.FeedbackRepository
	logger zerolog.Logger
}

func NewFeedbackService(repo ports.FeedbackRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, logger: logger}
}

func (s *FeedbackService) AddFeedback(ctx context.Context, in ports.FeedbackInput) (*domain.Feedback, error) {
	if in.Rating < minRating || in.Rating > maxRating {
		return nil, domain.Invalidf("rating must be between %d and %d", minRating, maxRating)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.Invalidf("description is required")
	}

	return s.repo.Create(ctx, &domain.Feedback{
		ClassID:     in.ClassID,
		Email:       normalizeEmail(in.Email),
		Name:        in.Name,
		Rating:      in.Rating,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *FeedbackService) ListFeedback(ctx context.Context, classID string) ([]*domain.Feedback, error) {
	return s.repo.List(ctx, classID)
}

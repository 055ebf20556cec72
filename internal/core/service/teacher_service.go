package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type TeacherService struct {
	repo   ports.TeacherRepository
	logger zerolog.Logger
}

func NewTeacherService(repo ports.TeacherRepository, logger zerolog.Logger) *TeacherService {
	return &TeacherService{repo: repo, logger: logger}
}

// Apply files a pending application. One application per email.
func (s *TeacherService) Apply(ctx context.Context, in ports.ApplyTeacherInput) (*domain.TeacherApplication, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalidf("email must be a valid address")
	}

	app, err := s.repo.Create(ctx, &domain.TeacherApplication{
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		Image:      in.Image,
		Title:      in.Title,
		Experience: in.Experience,
		Category:   in.Category,
		Status:     domain.StatusPending,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Msg("teacher application received")
	return app, nil
}

func (s *TeacherService) List(ctx context.Context) ([]*domain.TeacherApplication, error) {
	return s.repo.List(ctx)
}

func (s *TeacherService) GetByEmail(ctx context.Context, email string) (*domain.TeacherApplication, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

// Moderate is idempotent.
func (s *TeacherService) Moderate(ctx context.Context, id string, decision domain.Decision) error {
	status, err := decision.Status()
	if err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info().Str("application_id", id).Str("status", string(status)).Msg("teacher application moderated")
	return nil
}

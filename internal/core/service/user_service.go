package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// CreateUser records a first sign-in. Accounts always start without a role.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalidf("email must be a valid address")
	}

	user, err := s.repo.Create(ctx, &domain.User{
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		PhotoURL:  in.PhotoURL,
		Role:      domain.RoleNone,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Msg("user created")
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, search string) ([]*domain.User, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

// PromoteToAdmin is idempotent: promoting an admin again succeeds.
func (s *UserService) PromoteToAdmin(ctx context.Context, id string) error {
	if err := s.repo.SetRole(ctx, id, domain.RoleAdmin); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user promoted to admin")
	return nil
}

func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

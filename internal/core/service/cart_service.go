package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type CartService struct {
	repo   ports.CartRepository
	logger zerolog.Logger
}

func NewCartService(repo ports.CartRepository, logger zerolog.Logger) *CartService {
	return &CartService{repo: repo, logger: logger}
}

// AddToCart does not deduplicate: a checkout purges every referenced entry.
func (s *CartService) AddToCart(ctx context.Context, in ports.AddCartInput) (*domain.CartEntry, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, domain.Invalidf("email is required")
	}
	if in.ClassID == "" {
		return nil, domain.Invalidf("class_id is required")
	}

	return s.repo.Create(ctx, &domain.CartEntry{
		Email:          email,
		ClassID:        in.ClassID,
		Title:          in.Title,
		Price:          in.Price,
		Image:          in.Image,
		InstructorName: in.InstructorName,
		CreatedAt:      time.Now().UTC(),
	})
}

func (s *CartService) ListCart(ctx context.Context, email string) ([]*domain.CartEntry, error) {
	return s.repo.ListByEmail(ctx, normalizeEmail(email))
}

// RemoveFromCart reports domain.ErrCartEntryNotFound for another user's entry.
func (s *CartService) RemoveFromCart(ctx context.Context, id, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Invalidf("email is required")
	}
	return s.repo.Delete(ctx, id, email)
}

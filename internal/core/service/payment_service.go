package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

// PaymentService opens payment intents with the external processor. It keeps
// no local state about intents; completed charges arrive through checkout.
type PaymentService struct {
	processor ports.PaymentProcessor
	payments  ports.PaymentRepository
	currency  string
	logger    zerolog.Logger
}

func NewPaymentService(processor ports.PaymentProcessor, payments ports.PaymentRepository, currency string, logger zerolog.Logger) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		processor: processor,
		payments:  payments,
		currency:  currency,
		logger:    logger,
	}
}

// CreatePaymentIntent converts price to integer cents and returns the client secret.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, in ports.PaymentIntentInput) (string, error) {
	if in.Price <= 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return "", domain.Invalidf("price must be greater than 0")
	}
	if s.processor == nil {
		return "", fmt.Errorf("%w: not configured", domain.ErrPaymentProvider)
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	secret, err := s.processor.CreateIntent(ctx, ports.PaymentIntentRequest{
		AmountCents:    toCents(in.Price),
		Currency:       s.currency,
		MethodTypes:    []string{"card"},
		IdempotencyKey: key,
	})
	if err != nil {
		s.logger.Error().Err(err).Float64("price", in.Price).Msg("payment intent failed")
		return "", fmt.Errorf("%w: %v", domain.ErrPaymentProvider, err)
	}
	return secret, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, email string) ([]*domain.Payment, error) {
	return s.payments.ListByEmail(ctx, normalizeEmail(email))
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

type EnrollmentService struct {
	repo ports.EnrollmentRepository
}

func NewEnrollmentService(repo ports.EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{repo: repo}
}

func (s *EnrollmentService) ListEnrollments(ctx context.Context, email string) ([]*domain.Enrollment, error) {
	return s.repo.ListByEmail(ctx, normalizeEmail(email))
}

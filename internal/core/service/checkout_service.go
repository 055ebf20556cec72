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

const (
	stepDuplicateCheck = "duplicate_check"
	stepEnrollment     = "enrollment"
	stepClassCounter   = "class_counter"
	stepPayment        = "payment"
	stepCartCleanup    = "cart_cleanup"

	rolledBack = "rolled back"
)

// CheckoutService reconciles a reported payment into an enrollment, a class
// counter increment, a payment record and cart cleanup.
//
// The (class, email) pair is the idempotency key. The pre-check is only a
// fast path; the unique index on enrollments is authoritative and a
// duplicate-key insert is handled exactly like a pre-check hit.
type CheckoutService struct {
	classes     ports.ClassRepository
	enrollments ports.EnrollmentRepository
	payments    ports.PaymentRepository
	carts       ports.CartRepository
	tx          ports.TxRunner
	lock        ports.CheckoutLocker
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCheckoutService wires the reconciler. lock may be nil, in which case
// only the store's unique index guards against concurrent checkouts.
func NewCheckoutService(
	classes ports.ClassRepository,
	enrollments ports.EnrollmentRepository,
	payments ports.PaymentRepository,
	carts ports.CartRepository,
	tx ports.TxRunner,
	lock ports.CheckoutLocker,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		classes:     classes,
		enrollments: enrollments,
		payments:    payments,
		carts:       carts,
		tx:          tx,
		lock:        lock,
		logger:      logger,
		now:         time.Now,
	}
}

// Checkout runs the reconciliation. Validation and lock contention fail
// before any write. Store failures after that return a *ports.CheckoutError
// whose result lists the steps that were committed; nothing is compensated.
func (s *CheckoutService) Checkout(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
	if err := validateCheckout(in); err != nil {
		return nil, err
	}
	in.Email = normalizeEmail(in.Email)
	classID := in.ClassID()

	if s.lock != nil {
		token, ok, err := s.lock.Acquire(ctx, classID, in.Email)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("class_id", classID).Msg("checkout lock unavailable, relying on unique index")
		case !ok:
			return nil, domain.ErrCheckoutInProgress
		default:
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), classID, in.Email, token); err != nil {
					s.logger.Warn().Err(err).Str("class_id", classID).Msg("failed to release checkout lock")
				}
			}()
		}
	}

	res := &ports.CheckoutResult{Transactional: s.tx.Transactional()}

	// 1. Duplicate check.
	existing, err := s.enrollments.FindByClassAndEmail(ctx, classID, in.Email)
	switch {
	case err == nil:
		res.DuplicateCheck = ports.StepResult{Executed: true, ID: existing.ID}
		return s.settleDuplicate(ctx, in, res)
	case errors.Is(err, domain.ErrNotFound):
		res.DuplicateCheck = ports.StepResult{Executed: true}
	default:
		res.DuplicateCheck = ports.StepResult{Error: err.Error()}
		return nil, s.fail(stepDuplicateCheck, err, res)
	}

	// 2 to 4. Enrollment, counter and payment, atomically when the store allows it.
	var failedStep string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		step, err := s.persist(ctx, in, res)
		failedStep = step
		return err
	})
	if errors.Is(err, domain.ErrAlreadyEnrolled) {
		// Lost a race against a concurrent checkout: the unique index caught it.
		res.Enrollment = ports.StepResult{}
		res.ClassCounter = ports.StepResult{}
		res.Payment = ports.StepResult{}
		s.logger.Info().Str("class_id", classID).Str("email", in.Email).Msg("duplicate enrollment rejected by unique index")
		return s.settleDuplicate(ctx, in, res)
	}
	if err != nil {
		if res.Transactional {
			markRolledBack(res)
		}
		if failedStep == "" {
			failedStep = stepEnrollment
		}
		return nil, s.fail(failedStep, err, res)
	}

	// 5. Cart cleanup.
	if err := s.cleanupCart(ctx, in.Email, in.CartIDs, res); err != nil {
		res.Outcome = ports.OutcomeEnrolled
		return nil, s.fail(stepCartCleanup, err, res)
	}

	res.Outcome = ports.OutcomeEnrolled
	s.logger.Info().
		Str("class_id", classID).
		Str("email", in.Email).
		Str("enrollment_id", res.Enrollment.ID).
		Str("payment_id", res.Payment.ID).
		Int64("carts_removed", res.CartCleanup.Count).
		Msg("checkout completed")
	return res, nil
}

// persist runs steps 2 to 4 and reports the step that failed, if any. It resets
// its part of res first because a transaction may retry it.
func (s *CheckoutService) persist(ctx context.Context, in ports.CheckoutInput, res *ports.CheckoutResult) (string, error) {
	res.Enrollment = ports.StepResult{}
	res.ClassCounter = ports.StepResult{}
	res.Payment = ports.StepResult{}

	classID := in.ClassID()
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		res.Enrollment.Error = err.Error()
		return stepEnrollment, err
	}
	if class.Status != domain.StatusApproved {
		res.Enrollment.Error = domain.ErrClassNotApproved.Error()
		return stepEnrollment, domain.ErrClassNotApproved
	}

	now := s.now().UTC()
	enrollment, err := s.enrollments.Create(ctx, domain.NewEnrollment(class, in.Email, now))
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyEnrolled) {
			res.Enrollment.Error = err.Error()
		}
		return stepEnrollment, err
	}
	res.Enrollment = ports.StepResult{Executed: true, ID: enrollment.ID}

	if err := s.classes.IncrementEnrollment(ctx, classID); err != nil {
		res.ClassCounter.Error = err.Error()
		return stepClassCounter, err
	}
	res.ClassCounter = ports.StepResult{Executed: true, Count: 1}

	payment, err := s.payments.Create(ctx, &domain.Payment{
		Email:         in.Email,
		Amount:        in.Amount,
		TransactionID: in.TransactionID,
		ClassIDs:      in.ClassIDs,
		CartIDs:       in.CartIDs,
		Method:        in.Method,
		Status:        domain.PaymentStatusSucceeded,
		CreatedAt:     now,
	})
	if err != nil {
		res.Payment.Error = err.Error()
		return stepPayment, err
	}
	res.Payment = ports.StepResult{Executed: true, ID: payment.ID}

	return "", nil
}

// settleDuplicate finishes a checkout for an already-enrolled pair: the cart
// is cleaned up, nothing else is written.
func (s *CheckoutService) settleDuplicate(ctx context.Context, in ports.CheckoutInput, res *ports.CheckoutResult) (*ports.CheckoutResult, error) {
	res.Outcome = ports.OutcomeDuplicate
	if err := s.cleanupCart(ctx, in.Email, in.CartIDs, res); err != nil {
		return nil, s.fail(stepCartCleanup, err, res)
	}

	s.logger.Info().
		Str("class_id", in.ClassID()).
		Str("email", in.Email).
		Int64("carts_removed", res.CartCleanup.Count).
		Msg("checkout already settled")
	return res, nil
}

// cleanupCart only removes entries owned by the payer.
func (s *CheckoutService) cleanupCart(ctx context.Context, email string, ids []string, res *ports.CheckoutResult) error {
	if len(ids) == 0 {
		res.CartCleanup = ports.StepResult{Executed: true}
		return nil
	}
	n, err := s.carts.DeleteMany(ctx, email, ids)
	if err != nil {
		res.CartCleanup = ports.StepResult{Error: err.Error()}
		return err
	}
	res.CartCleanup = ports.StepResult{Executed: true, Count: n}
	return nil
}

func (s *CheckoutService) fail(step string, err error, res *ports.CheckoutResult) error {
	if res.Outcome == "" {
		res.Outcome = ports.OutcomeFailed
	}
	s.logger.Error().Err(err).Str("step", step).Interface("result", res).Msg("checkout failed")
	return &ports.CheckoutError{Step: step, Err: err, Result: res}
}

func markRolledBack(res *ports.CheckoutResult) {
	for _, step := range []*ports.StepResult{&res.Enrollment, &res.ClassCounter, &res.Payment} {
		if step.Executed {
			*step = ports.StepResult{Error: rolledBack}
		}
	}
}

func validateCheckout(in ports.CheckoutInput) error {
	if len(in.ClassIDs) != 1 || strings.TrimSpace(in.ClassIDs[0]) == "" {
		return domain.Invalidf("class_ids must contain exactly one class id")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return domain.Invalidf("email must be a valid address")
	}
	if in.Amount <= 0 {
		return domain.Invalidf("amount must be greater than 0")
	}
	for _, id := range in.CartIDs {
		if strings.TrimSpace(id) == "" {
			return domain.Invalidf("cart_ids must not contain empty ids")
		}
	}
	return nil
}

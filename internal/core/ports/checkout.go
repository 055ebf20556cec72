package ports

import (
	"context"
	"fmt"
)

// CheckoutInput is the client's report of a completed charge.
// ClassIDs must hold exactly one id.
type CheckoutInput struct {
	ClassIDs      []string
	CartIDs       []string
	Email         string
	Amount        float64
	TransactionID string
	Method        map[string]any
}

// ClassID returns the single class being purchased.
func (in CheckoutInput) ClassID() string {
	if len(in.ClassIDs) == 0 {
		return ""
	}
	return in.ClassIDs[0]
}

// Checkout outcomes.
const (
	OutcomeEnrolled  = "enrolled"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// StepResult describes one reconciler step.
type StepResult struct {
	Executed bool   `json:"executed"`
	ID       string `json:"id,omitempty"`
	Count    int64  `json:"count,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CheckoutResult summarises every step so the caller can reconcile manually.
type CheckoutResult struct {
	Outcome        string     `json:"outcome"`
	DuplicateCheck StepResult `json:"duplicate_check"`
	Enrollment     StepResult `json:"enrollment"`
	ClassCounter   StepResult `json:"class_counter"`
	Payment        StepResult `json:"payment"`
	CartCleanup    StepResult `json:"cart_cleanup"`
	Transactional  bool       `json:"transactional"`
}

// CheckoutError is returned when a step fails after validation. It carries
// the partial result describing which effects were committed.
type CheckoutError struct {
	Step   string
	Err    error
	Result *CheckoutResult
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout %s: %v", e.Step, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// CheckoutService converts a checkout report into enrollment, payment and cart cleanup.
type CheckoutService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
}

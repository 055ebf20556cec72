package ports

import "context"

// CheckoutLocker guards a (class, payer) pair across processes.
type CheckoutLocker interface {
	// Acquire returns ok=false when another checkout holds the lock.
	Acquire(ctx context.Context, classID, email string) (token string, ok bool, err error)
	Release(ctx context.Context, classID, email, token string) error
}

// PaymentIntentRequest is what the external processor needs to open a charge.
type PaymentIntentRequest struct {
	AmountCents    int64
	Currency       string
	MethodTypes    []string
	IdempotencyKey string
}

// PaymentProcessor is the external payment-intent provider.
type PaymentProcessor interface {
	// CreateIntent returns the opaque client secret the caller uses to confirm payment.
	CreateIntent(ctx context.Context, req PaymentIntentRequest) (string, error)
}

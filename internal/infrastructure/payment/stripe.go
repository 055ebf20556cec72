package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/learncraft/learncraft-api/internal/core/ports"
)

// StripeProcessor creates Stripe PaymentIntents and hands back their client
// secret. The browser confirms the intent; this side never sees card data.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	return newStripeProcessor(secretKey, nil)
}

func newStripeProcessor(secretKey string, backends *stripe.Backends) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeProcessor{api: api}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, req ports.PaymentIntentRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountCents),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice(req.MethodTypes),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			return "", fmt.Errorf("stripe %s: %s", se.Code, se.Msg)
		}
		return "", fmt.Errorf("stripe: %w", err)
	}
	return pi.ClientSecret, nil
}

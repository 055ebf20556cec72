package payment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stripe/stripe-go/v76"

	"github.com/learncraft/learncraft-api/internal/core/ports"
)

func newTestProcessor(t *testing.T, h http.HandlerFunc) *StripeProcessor {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return newStripeProcessor("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestStripeProcessor_CreateIntent(t *testing.T) {
	var form url.Values
	var idempotency string
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/payment_intents") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		idempotency = r.Header.Get("Idempotency-Key")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret_abc"}`)
	})

	secret, err := p.CreateIntent(context.Background(), ports.PaymentIntentRequest{
		AmountCents:    4999,
		Currency:       "usd",
		MethodTypes:    []string{"card"},
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("CreateIntent returned error: %v", err)
	}
	if secret != "pi_1_secret_abc" {
		t.Fatalf("unexpected client secret: %s", secret)
	}
	if form.Get("amount") != "4999" || form.Get("currency") != "usd" {
		t.Fatalf("unexpected form: %v", form)
	}
	if form.Get("payment_method_types[0]") != "card" {
		t.Fatalf("expected card method type, got %v", form)
	}
	if idempotency != "key-1" {
		t.Fatalf("unexpected idempotency key: %q", idempotency)
	}
}

func TestStripeProcessor_CreateIntent_ProviderError(t *testing.T) {
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`)
	})

	_, err := p.CreateIntent(context.Background(), ports.PaymentIntentRequest{AmountCents: 100, Currency: "usd", MethodTypes: []string{"card"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "card_declined") {
		t.Fatalf("expected provider code in error, got %v", err)
	}
}

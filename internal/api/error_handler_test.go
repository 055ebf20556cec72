package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
	"github.com/learncraft/learncraft-api/internal/infrastructure/queue"
)

type renderedError struct {
	Error  string                `json:"error"`
	Code   string                `json:"code"`
	Result *ports.CheckoutResult `json:"result"`
}

func render(t *testing.T, err error) (int, renderedError) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/add-payment", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body renderedError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_DomainKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrMissingToken, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrNotAdmin, http.StatusForbidden, "forbidden"},
		{domain.ErrClassNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("wrapped: %w", domain.ErrUserExists), http.StatusConflict, "conflict"},
		{domain.Invalidf("price must be greater than 0"), http.StatusBadRequest, "invalid"},
		{domain.ErrPaymentProvider, http.StatusBadGateway, "upstream_failure"},
		{queue.ErrStopped, http.StatusBadGateway, "upstream_failure"},
		{domain.ErrNotOwner, http.StatusForbidden, "forbidden"},
		{domain.ErrClassNotApproved, http.StatusBadRequest, "invalid"},
		{echo.NewHTTPError(http.StatusUnprocessableEntity, "title is required"), http.StatusUnprocessableEntity, "invalid"},
		{echo.ErrNotFound, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		status, body := render(t, tt.err)
		if status != tt.status || body.Code != tt.code {
			t.Fatalf("%v: expected %d/%s, got %d/%s", tt.err, tt.status, tt.code, status, body.Code)
		}
		if body.Error == "" {
			t.Fatalf("%v: expected a message", tt.err)
		}
	}
}

func TestHTTPErrorHandler_HidesUnexpectedErrors(t *testing.T) {
	status, body := render(t, errors.New("mongo: connection pool exhausted"))

	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Error != "internal server error" || body.Code != "internal" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHTTPErrorHandler_CheckoutError(t *testing.T) {
	result := &ports.CheckoutResult{
		Outcome:    ports.OutcomeFailed,
		Enrollment: ports.StepResult{Executed: true, ID: "e1"},
		Payment:    ports.StepResult{Error: "store unavailable"},
	}
	err := &ports.CheckoutError{Step: "payment", Err: errors.New("store unavailable"), Result: result}

	status, body := render(t, err)
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Result == nil || !body.Result.Enrollment.Executed || body.Result.Payment.Error == "" {
		t.Fatalf("expected partial result in body, got %+v", body.Result)
	}
	if body.Error != "checkout failed at step payment" {
		t.Fatalf("unexpected message: %s", body.Error)
	}

	notFound := &ports.CheckoutError{Step: "enrollment", Err: domain.ErrClassNotFound, Result: &ports.CheckoutResult{Outcome: ports.OutcomeFailed}}
	status, body = render(t, notFound)
	if status != http.StatusNotFound || body.Code != "not_found" || body.Result == nil {
		t.Fatalf("expected 404 with result, got %d %+v", status, body)
	}
}

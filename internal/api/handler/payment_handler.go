package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/api/metrics"
	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

// PaymentHandler serves payment intents, checkout and purchase history.
type PaymentHandler struct {
	payments    ports.PaymentService
	checkout    ports.CheckoutService
	enrollments ports.EnrollmentService
}

func NewPaymentHandler(payments ports.PaymentService, checkout ports.CheckoutService, enrollments ports.EnrollmentService) *PaymentHandler {
	return &PaymentHandler{payments: payments, checkout: checkout, enrollments: enrollments}
}

// CreateIntent opens a charge with the payment processor. An Idempotency-Key
// header is forwarded so client retries do not open a second intent.
//
// @Summary      Create a payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Retry key"
// @Param        body             body      paymentIntentRequest  true   "Price"
// @Success      200              {object}  paymentIntentResponse
// @Failure      502              {object}  map[string]string
// @Router       /create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req paymentIntentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	secret, err := h.payments.CreatePaymentIntent(c.Request().Context(), ports.PaymentIntentInput{
		Price:          req.Price,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		metrics.PaymentIntentsTotal.WithLabelValues(intentResult(err)).Inc()
		return err
	}

	metrics.PaymentIntentsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusOK, paymentIntentResponse{ClientSecret: secret})
}

func intentResult(err error) string {
	if errors.Is(err, domain.ErrUpstream) {
		return "upstream_error"
	}
	return "rejected"
}

// Checkout records a completed charge: it enrolls the payer, bumps the class
// counter, stores the payment and clears the purchased cart entries. The
// response lists every step so a partial failure can be reconciled.
//
// @Summary      Record a payment and enroll the payer
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkoutRequest  true  "Checkout report"
// @Success      201   {object}  ports.CheckoutResult  "enrolled"
// @Success      200   {object}  ports.CheckoutResult  "already enrolled"
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]any
// @Router       /add-payment [post]
func (h *PaymentHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := requireSelf(c, req.Email); err != nil {
		return err
	}

	amount := req.Amount
	if amount == 0 {
		amount = req.Price
	}

	result, err := h.checkout.Checkout(c.Request().Context(), ports.CheckoutInput{
		ClassIDs:      req.ClassIDs,
		CartIDs:       req.CartIDs,
		Email:         req.Email,
		Amount:        amount,
		TransactionID: req.TransactionID,
		Method:        req.Method,
	})
	if err != nil {
		return err
	}

	if result.Outcome == ports.OutcomeEnrolled {
		return c.JSON(http.StatusCreated, result)
	}
	return c.JSON(http.StatusOK, result)
}

// @Summary      List the caller's payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Payer email"
// @Success      200    {array}   domain.Payment
// @Failure      403    {object}  map[string]string
// @Router       /payments [get]
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	email := c.QueryParam("email")
	if err := requireSelf(c, email); err != nil {
		return err
	}
	list, err := h.payments.ListPayments(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// @Summary      List the caller's enrollments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Student email"
// @Success      200    {array}   domain.Enrollment
// @Failure      403    {object}  map[string]string
// @Router       /enrollments [get]
func (h *PaymentHandler) ListEnrollments(c echo.Context) error {
	email := c.QueryParam("email")
	if err := requireSelf(c, email); err != nil {
		return err
	}
	list, err := h.enrollments.ListEnrollments(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

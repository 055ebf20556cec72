package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

// errorResponse is the canonical error envelope for all API errors. Result is
// only set for checkout failures and lists the steps that were committed.
type errorResponse struct {
	Error  string                `json:"error"`
	Code   string                `json:"code"`
	Result *ports.CheckoutResult `json:"result,omitempty"`
}

var kindStatus = map[string]int{
	"unauthorized":     http.StatusUnauthorized,
	"forbidden":        http.StatusForbidden,
	"not_found":        http.StatusNotFound,
	"conflict":         http.StatusConflict,
	"invalid":          http.StatusBadRequest,
	"upstream_failure": http.StatusBadGateway,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<kind>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, validation, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: codeForStatus(he.Code)}
	}

	var ce *ports.CheckoutError
	if errors.As(err, &ce) {
		kind := domain.Kind(ce.Err)
		status, known := kindStatus[kind]
		msg := ce.Error()
		if !known {
			status = http.StatusInternalServerError
			msg = "checkout failed at step " + ce.Step
			logUnexpected(log, c, err)
		}
		return status, errorResponse{Error: msg, Code: kind, Result: ce.Result}
	}

	kind := domain.Kind(err)
	if status, ok := kindStatus[kind]; ok {
		return status, errorResponse{Error: err.Error(), Code: kind}
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnexpected(log, c, err)
	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal"}
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "invalid"
	case http.StatusBadGateway:
		return "upstream_failure"
	}
	if status >= http.StatusInternalServerError {
		return "internal"
	}
	return http.StatusText(status)
}

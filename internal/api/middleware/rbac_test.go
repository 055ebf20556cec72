package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/learncraft/learncraft-api/internal/core/domain"
)

func TestRequireAdmin_Allows(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(ContextKeyEmail, "alice@example.com")

	called := false
	handler := RequireAdmin(&stubAuth{admins: map[string]bool{"alice@example.com": true}})(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin_Forbids(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(ContextKeyEmail, "bob@example.com")

	handler := RequireAdmin(&stubAuth{admins: map[string]bool{"alice@example.com": true}})(func(c echo.Context) error {
		t.Fatalf("next handler should not be called")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRequireAdmin_WithoutPrincipal(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	handler := RequireAdmin(&stubAuth{})(func(c echo.Context) error {
		t.Fatalf("next handler should not be called")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRequireAdmin_StoreError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(ContextKeyEmail, "alice@example.com")
	storeErr := errors.New("store unavailable")

	handler := RequireAdmin(&stubAuth{err: storeErr})(func(c echo.Context) error {
		t.Fatalf("next handler should not be called")
		return nil
	})

	if err := handler(c); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/learncraft/learncraft-api/internal/core/domain"
)

func TestUserHandler_Create(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, rec := newContext(http.MethodPost, "/api/v1/create-user", `{"email":"bob@example.com","name":"Bob"}`, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectCode(t, rec, http.StatusCreated)
}

func TestUserHandler_IsAdmin_Self(t *testing.T) {
	users := &stubUserService{admins: map[string]bool{"alice@example.com": true}}
	h := NewUserHandler(users)

	c, rec := newContext(http.MethodGet, "/api/v1/users/admin/alice@example.com", "", "alice@example.com")
	c.SetParamNames("email")
	c.SetParamValues("alice@example.com")

	if err := h.IsAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectCode(t, rec, http.StatusOK)

	var resp adminStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Admin {
		t.Fatalf("expected admin=true")
	}
}

func TestUserHandler_IsAdmin_OtherUser(t *testing.T) {
	users := &stubUserService{}
	h := NewUserHandler(users)

	c, _ := newContext(http.MethodGet, "/api/v1/users/admin/bob@example.com", "", "alice@example.com")
	c.SetParamNames("email")
	c.SetParamValues("bob@example.com")

	if err := h.IsAdmin(c); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if users.asked != "" {
		t.Fatalf("service should not be called")
	}
}

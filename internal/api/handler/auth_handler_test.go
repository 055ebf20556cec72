package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/learncraft/learncraft-api/internal/core/domain"
)

func TestAuthHandler_IssueToken_Success(t *testing.T) {
	stub := &stubAuthService{token: "signed"}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/v1/jwt", `{"email":"alice@example.com"}`, "")
	if err := h.IssueToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectCode(t, rec, http.StatusOK)

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "signed" {
		t.Fatalf("unexpected token %q", resp.Token)
	}
	if stub.issuedFor != "alice@example.com" {
		t.Fatalf("token issued for %q", stub.issuedFor)
	}
}

func TestAuthHandler_IssueToken_InvalidEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPost, "/api/v1/jwt", `{"email":"not-an-email"}`, "")
	expectHTTPStatus(t, h.IssueToken(c), http.StatusUnprocessableEntity)
}

func TestAuthHandler_IssueToken_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPost, "/api/v1/jwt", `{"email":`, "")
	err := h.IssueToken(c)
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

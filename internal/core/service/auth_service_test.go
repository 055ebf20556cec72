package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

func TestAuthService_IssueAndAuthenticate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	token, err := svc.IssueToken(" Alice@Example.com ")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	p, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if p.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %s", p.Email)
	}
}

func TestAuthService_IssueToken_InvalidEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, err := svc.IssueToken("not-an-email"); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected invalid error, got %v", err)
	}
}

func TestAuthService_Authenticate_Rejections(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	other := NewAuthService(newStubUserRepo(), "other-secret", time.Hour)

	foreign, err := other.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign none token: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "alice@example.com",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", domain.ErrMissingToken},
		{"garbage", "not.a.token", domain.ErrInvalidToken},
		{"wrong secret", foreign, domain.ErrInvalidToken},
		{"none algorithm", unsigned, domain.ErrInvalidToken},
		{"no expiry", noExpiry, domain.ErrInvalidToken},
		{"no email", noEmail, domain.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Authenticate(tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthService_Authenticate_Expired(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := svc.Authenticate(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestAuthService_RequireAdmin(t *testing.T) {
	repo := newStubUserRepo()
	repo.byEmail["admin@example.com"] = &domain.User{ID: "1", Email: "admin@example.com", Role: domain.RoleAdmin}
	repo.byEmail["student@example.com"] = &domain.User{ID: "2", Email: "student@example.com"}
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	if err := svc.RequireAdmin(ctx, &ports.Principal{Email: "admin@example.com"}); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
	if err := svc.RequireAdmin(ctx, &ports.Principal{Email: "student@example.com"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.RequireAdmin(ctx, &ports.Principal{Email: "ghost@example.com"}); !errors.Is(err, domain.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for unknown user, got %v", err)
	}
	if err := svc.RequireAdmin(ctx, nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized without principal, got %v", err)
	}

	repo.findErr = errStoreDown
	if err := svc.RequireAdmin(ctx, &ports.Principal{Email: "admin@example.com"}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}

func TestAuthService_RequireAdmin_SeesDemotion(t *testing.T) {
	repo := newStubUserRepo()
	repo.byEmail["admin@example.com"] = &domain.User{ID: "1", Email: "admin@example.com", Role: domain.RoleAdmin}
	svc := NewAuthService(repo, "secret", time.Hour)
	p := &ports.Principal{Email: "admin@example.com"}

	if err := svc.RequireAdmin(context.Background(), p); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
	repo.byEmail["admin@example.com"].Role = domain.RoleNone
	if err := svc.RequireAdmin(context.Background(), p); !errors.Is(err, domain.ErrNotAdmin) {
		t.Fatalf("expected role change to apply immediately, got %v", err)
	}
}

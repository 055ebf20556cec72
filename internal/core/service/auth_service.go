package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

const defaultTokenTTL = time.Hour

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService issues HS256 bearer tokens and guards admin-only operations.
type AuthService struct {
	users    ports.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:    users,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// IssueToken signs a time-limited token embedding the caller's claimed email.
func (s *AuthService) IssueToken(email string) (string, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.Invalidf("email must be a valid address")
	}

	now := s.now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Authenticate validates signature, algorithm and expiry and returns the embedded identity.
func (s *AuthService) Authenticate(token string) (*ports.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrMissingToken
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Email == "" {
		return nil, domain.ErrInvalidToken
	}

	return &ports.Principal{Email: claims.Email}, nil
}

// RequireAdmin reads the principal's user record on every call; there is no role cache.
func (s *AuthService) RequireAdmin(ctx context.Context, p *ports.Principal) error {
	if p == nil || p.Email == "" {
		return domain.ErrMissingToken
	}

	user, err := s.users.FindByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotAdmin
		}
		return err
	}
	if !user.IsAdmin() {
		return domain.ErrNotAdmin
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

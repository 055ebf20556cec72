package ports

import "context"

// Principal is the identity proven by a bearer token.
type Principal struct {
	Email string
}

// AuthService issues and verifies bearer tokens and enforces the admin role.
type AuthService interface {
	IssueToken(email string) (string, error)
	Authenticate(token string) (*Principal, error)
	RequireAdmin(ctx context.Context, p *Principal) error
}

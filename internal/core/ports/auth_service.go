package ports

import "context"

// TokenResult is the outcome of a successful credential exchange.
type TokenResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthService exchanges credentials for a signed bearer token.
type AuthService interface {
	IssueToken(ctx context.Context, email, password string) (*TokenResult, error)
}

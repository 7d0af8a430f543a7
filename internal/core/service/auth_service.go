package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/identity-platform/user-directory/internal/core/domain"
	"github.com/identity-platform/user-directory/internal/core/ports"
	"github.com/identity-platform/user-directory/internal/pkg/passcode"
)

const tokenTTL = time.Hour

// AuthService implements the credential-to-token exchange. Tokens are
// stateless: validity is determined entirely by signature and expiry.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, jwtSecret: jwtSecret, log: log, now: time.Now}
}

// IssueToken verifies the credentials against the stored record and mints an
// HS256-signed token with a one hour lifetime. Unknown email and wrong
// password both surface as ErrInvalidCredentials; the distinction is kept in
// the logs only.
func (s *AuthService) IssueToken(ctx context.Context, email, password string) (*ports.TokenResult, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	var user *domain.User
	for _, u := range users {
		if u.Email == email {
			user = u
			break
		}
	}
	if user == nil {
		s.log.Debug().Str("email", email).Msg("token refused: unknown email")
		return nil, domain.ErrInvalidCredentials
	}

	if !passcode.Matches(password, user.Password) {
		s.log.Debug().Str("email", email).Msg("token refused: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	issuedAt := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":  user.Email,
		"role": user.Role,
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &ports.TokenResult{Token: token, Email: user.Email, Role: user.Role}, nil
}

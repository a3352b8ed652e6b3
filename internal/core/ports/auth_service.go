package ports

import (
	"context"
	"time"

	"github.com/99minutos/store-api/internal/core/domain"
)

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	Type      string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

// AuthService authenticates credentials and bearer tokens.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	IssueToken(username string) (AccessToken, error)
	Login(ctx context.Context, username, password string) (AccessToken, *domain.User, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

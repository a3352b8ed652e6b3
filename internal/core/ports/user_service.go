package ports

import (
	"context"

	"github.com/99minutos/store-api/internal/core/domain"
)

// RegisterUserInput carries the data needed to create an account.
type RegisterUserInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

// UpdateUserInput carries a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	FullName *string
	Password *string
}

// UserService defines account use cases.
type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	Update(ctx context.Context, current *domain.User, input UpdateUserInput) (*domain.User, error)
}

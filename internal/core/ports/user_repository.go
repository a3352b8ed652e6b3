package ports

import (
	"context"
	"time"

	"github.com/99minutos/store-api/internal/core/domain"
)

// UserLookup resolves an identity to its user record. Implementations return
// domain.ErrUserNotFound when no user has the given username.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	UserLookup
	// Create inserts the user and returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update persists username, full name, hash and updated_at of an existing user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdatePasswordHash replaces only the stored hash and updated_at.
	UpdatePasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error
}

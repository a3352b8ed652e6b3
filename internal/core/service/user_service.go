package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/store-api/internal/core/domain"
	"github.com/99minutos/store-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// Register creates an active account. The plaintext password only ever
// reaches the hasher.
func (s *UserService) Register(ctx context.Context, input ports.RegisterUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user id: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             id.String(),
		Username:       username,
		Email:          email,
		FullName:       strings.TrimSpace(input.FullName),
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Update applies a partial update to current. A new password replaces the
// stored hash; renaming onto a taken username fails with domain.ErrUserExists.
func (s *UserService) Update(ctx context.Context, current *domain.User, input ports.UpdateUserInput) (*domain.User, error) {
	if current == nil {
		return nil, domain.ErrUserNotFound
	}
	updated := *current

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username must not be empty", domain.ErrValidation)
		}
		updated.Username = username
	}
	if input.FullName != nil {
		updated.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", domain.ErrValidation)
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.HashedPassword = hash
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", saved.ID).
		Bool("password_changed", input.Password != nil).
		Msg("user updated")
	return saved, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/store-api/internal/core/domain"
	"github.com/99minutos/store-api/internal/core/ports"
)

// DefaultTokenTTL is used when no positive TTL is configured.
const DefaultTokenTTL = 30 * time.Minute

const tokenType = "bearer"

// hashUpdater is implemented by user stores that can persist a re-hashed
// password after login.
type hashUpdater interface {
	UpdatePasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error
}

// AuthService verifies credentials, issues access tokens and resolves bearer
// tokens back to users.
type AuthService struct {
	users    ports.UserLookup
	hasher   ports.PasswordHasher
	tokens   ports.TokenCodec
	tokenTTL time.Duration
	logger   zerolog.Logger

	// verified against when the username is unknown so both failure paths
	// spend a comparable amount of time hashing.
	dummyHash string
}

func NewAuthService(users ports.UserLookup, hasher ports.PasswordHasher, tokens ports.TokenCodec, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	s := &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
	dummy, err := hasher.Hash("store-api-timing-equaliser")
	if err != nil {
		logger.Warn().Err(err).Msg("could not prepare dummy password hash")
	}
	s.dummyHash = dummy
	return s
}

// Authenticate returns the user owning username when password matches and the
// account is active. Every rejection is domain.ErrAuthFailed.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: empty credentials", domain.ErrAuthFailed)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return nil, fmt.Errorf("%w: unknown user", domain.ErrAuthFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, fmt.Errorf("%w: password mismatch", domain.ErrAuthFailed)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account inactive", domain.ErrAuthFailed)
	}

	s.upgradeHash(ctx, user, password)
	return user, nil
}

// IssueToken signs an access token whose subject is username.
func (s *AuthService) IssueToken(username string) (ports.AccessToken, error) {
	token, expiresAt, err := s.tokens.Issue(username, s.tokenTTL)
	if err != nil {
		return ports.AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	return ports.AccessToken{
		Token:     token,
		Type:      tokenType,
		ExpiresAt: expiresAt,
		ExpiresIn: s.tokenTTL,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (ports.AccessToken, *domain.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return ports.AccessToken{}, nil, err
	}

	token, err := s.IssueToken(user.Username)
	if err != nil {
		return ports.AccessToken{}, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("access token issued")
	return token, user, nil
}

// CurrentUser decodes a bearer token and loads the user it names. Decode
// failures are domain.ErrInvalidToken; a subject that no longer resolves to an
// active user is domain.ErrAuthFailed.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Decode(token)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidToken) {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
		}
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, subject)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: token subject not found", domain.ErrAuthFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account inactive", domain.ErrAuthFailed)
	}
	return user, nil
}

// upgradeHash re-hashes password with the current algorithm when the stored
// hash is outdated. Only the hash is written, so a concurrent profile update
// is not overwritten. Failures are logged and never fail the login.
func (s *AuthService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	if !s.hasher.NeedsRehash(user.HashedPassword) {
		return
	}
	updater, ok := s.users.(hashUpdater)
	if !ok {
		return
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("password rehash failed")
		return
	}

	now := time.Now().UTC()
	if err := updater.UpdatePasswordHash(ctx, user.ID, hash, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("password rehash not persisted")
		return
	}
	user.HashedPassword = hash
	user.UpdatedAt = now
	s.logger.Info().Str("user_id", user.ID).Msg("password hash upgraded")
}

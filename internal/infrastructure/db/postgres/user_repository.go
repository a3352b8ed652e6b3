package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/99minutos/store-api/internal/core/domain"
)

const userColumns = `id, username, email, full_name, hashed_password, is_active, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.FullName, user.HashedPassword,
		user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if code, _ := pgCode(err); code == codeUniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	return &created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.findOne(ctx, query, username)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// Update stores the mutable fields of user. Renaming onto an existing
// username yields domain.ErrUserExists.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `UPDATE users
		SET username = $2, full_name = $3, hashed_password = $4, updated_at = $5
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.FullName, user.HashedPassword, user.UpdatedAt)
	if err != nil {
		switch code, _ := pgCode(err); code {
		case codeUniqueViolation:
			return nil, domain.ErrUserExists
		case codeInvalidTextRepr:
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}

	updated := *user
	return &updated, nil
}

// UpdatePasswordHash touches only hashed_password and updated_at, leaving
// profile fields written by a concurrent Update alone.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $2, updated_at = $3 WHERE id = $1`,
		id, hash, updatedAt)
	if err != nil {
		if code, _ := pgCode(err); code == codeInvalidTextRepr {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update password hash: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.HashedPassword,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		if code, _ := pgCode(err); code == codeInvalidTextRepr {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

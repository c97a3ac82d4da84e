package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"runpool/internal/database"
	"runpool/internal/models"
)

// UserRepository mirrors identities issued by the auth provider into the
// users table so proofs can be joined to display names
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUser retrieves a user by ID, returning nil when it does not exist
func (r *UserRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	query := "SELECT id, name, email, created_at FROM users WHERE id = ?"
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// EnsureUser inserts the user if missing and refreshes name and email
// when the token carries newer values
func (r *UserRepository) EnsureUser(ctx context.Context, user models.User) error {
	existing, err := r.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}

	if existing == nil {
		query := "INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)"
		if _, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}

	if user.Name == "" || (existing.Name == user.Name && existing.Email == user.Email) {
		return nil
	}
	query := "UPDATE users SET name = ?, email = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.ID); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// UserRepository implements the showcase.UserRepository interface using
// PostgreSQL
type UserRepository struct {
	repo *Repository
}

// CreateUser creates a new user
func (ur *UserRepository) CreateUser(ctx context.Context, user *showcase.User) error {
	if user == nil {
		return showcase.NewValidationError("INVALID_USER", "user cannot be nil")
	}
	if user.Username == "" {
		return showcase.NewValidationError("INVALID_USERNAME", "username cannot be empty")
	}
	if user.PasswordHash == "" {
		return showcase.NewValidationError("INVALID_PASSWORD_HASH", "password hash cannot be empty")
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)`

	_, err := ur.repo.execCommand(ctx, query, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return showcase.NewConflictError("USER_ALREADY_EXISTS", "username already exists")
		}
		return showcase.NewDatabaseError("COMMAND_FAILED", "failed to create user", err)
	}

	return nil
}

// GetUserByUsername retrieves a user by username
func (ur *UserRepository) GetUserByUsername(ctx context.Context, username string) (*showcase.User, error) {
	if username == "" {
		return nil, showcase.NewValidationError("INVALID_USERNAME", "username cannot be empty")
	}

	query := `
		SELECT username, password_hash, created_at
		FROM users
		WHERE username = $1`

	row := ur.repo.execQueryRow(ctx, query, username)

	user := &showcase.User{}
	err := row.Scan(&user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, showcase.NewNotFoundError("USER_NOT_FOUND", "user not found")
		}
		return nil, showcase.NewDatabaseError("SCAN_FAILED", "failed to scan user", err)
	}

	return user, nil
}

// ExistsUser checks if a user exists by username
func (ur *UserRepository) ExistsUser(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, showcase.NewValidationError("INVALID_USERNAME", "username cannot be empty")
	}

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := ur.repo.execQueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, showcase.NewDatabaseError("SCAN_FAILED", "failed to check user existence", err)
	}

	return exists, nil
}

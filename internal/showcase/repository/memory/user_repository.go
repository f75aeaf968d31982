package memory

import (
	"context"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// UserRepository implements the showcase.UserRepository interface using
// in-memory storage
type UserRepository struct {
	repo *Repository
}

// CreateUser creates a new user
func (ur *UserRepository) CreateUser(ctx context.Context, user *showcase.User) error {
	ur.repo.mu.Lock()
	defer ur.repo.mu.Unlock()

	if err := ur.repo.isClosed(); err != nil {
		return err
	}

	if user == nil {
		return showcase.NewValidationError("INVALID_USER", "user cannot be nil")
	}
	if err := validUsername(user.Username); err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return showcase.NewValidationError("INVALID_PASSWORD_HASH", "password hash cannot be empty")
	}

	if _, exists := ur.repo.users[user.Username]; exists {
		return showcase.NewConflictError("USER_ALREADY_EXISTS", "username already exists")
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	// Store a copy to avoid external modifications
	userCopy := *user
	ur.repo.users[user.Username] = &userCopy

	return nil
}

// GetUserByUsername retrieves a user by username
func (ur *UserRepository) GetUserByUsername(ctx context.Context, username string) (*showcase.User, error) {
	ur.repo.mu.RLock()
	defer ur.repo.mu.RUnlock()

	if err := ur.repo.isClosed(); err != nil {
		return nil, err
	}

	if err := validUsername(username); err != nil {
		return nil, err
	}

	user, exists := ur.repo.users[username]
	if !exists {
		return nil, showcase.NewNotFoundError("USER_NOT_FOUND", "user not found")
	}

	userCopy := *user
	return &userCopy, nil
}

// ExistsUser checks if a user exists by username
func (ur *UserRepository) ExistsUser(ctx context.Context, username string) (bool, error) {
	ur.repo.mu.RLock()
	defer ur.repo.mu.RUnlock()

	if err := ur.repo.isClosed(); err != nil {
		return false, err
	}

	if err := validUsername(username); err != nil {
		return false, err
	}

	_, exists := ur.repo.users[username]
	return exists, nil
}

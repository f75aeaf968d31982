package showcase

import (
	"context"
)

// Repository aggregates the three stores behind a single connection-owning
// handle so the document store stays swappable without touching service logic.
type Repository interface {
	// Users returns the credential store
	Users() UserRepository

	// Portfolios returns the portfolio store
	Portfolios() PortfolioRepository

	// Likes returns the like ledger
	Likes() LikeRepository

	// Health returns the health status of the repository
	Health(ctx context.Context) HealthStatus

	// Close closes the repository connection and releases resources
	Close() error
}

// UserRepository defines the credential store operations.
type UserRepository interface {
	// CreateUser persists a new user; returns a conflict error when the
	// username is already taken.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByUsername retrieves a user by username; returns a not found
	// error when absent.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// ExistsUser checks if a user exists by username
	ExistsUser(ctx context.Context, username string) (bool, error)
}

// PortfolioRepository defines the portfolio store operations.
type PortfolioRepository interface {
	// CreatePortfolio assigns a fresh unique identifier, forces the view and
	// like counters to zero regardless of caller-supplied values, persists the
	// record and returns the identifier. Concurrent creates never receive the
	// same identifier.
	CreatePortfolio(ctx context.Context, portfolio *Portfolio) (string, error)

	// GetPortfolio retrieves a portfolio by id; returns a not found error
	// when the id does not resolve.
	GetPortfolio(ctx context.Context, id string) (*Portfolio, error)

	// ListPortfoliosByOwner returns all portfolios owned by username in
	// insertion order; empty slice when none.
	ListPortfoliosByOwner(ctx context.Context, username string) ([]*Portfolio, error)

	// ListPortfolios returns every portfolio in insertion order.
	ListPortfolios(ctx context.Context) ([]*Portfolio, error)

	// IncrementViews atomically adds 1 to the view counter. Concurrent
	// increments on the same id must all be observed. Returns a not found
	// error when the id does not resolve.
	IncrementViews(ctx context.Context, id string) error

	// IncrementLikes atomically adds 1 to the like counter, with the same
	// atomicity contract as IncrementViews.
	IncrementLikes(ctx context.Context, id string) error
}

// LikeRepository defines the like ledger operations.
type LikeRepository interface {
	// TryRecordLike atomically inserts the (portfolioID, liker) pair if
	// absent and reports true; reports false without inserting when the pair
	// already exists. Two concurrent calls with the same pair result in
	// exactly one true.
	TryRecordLike(ctx context.Context, portfolioID, liker string) (bool, error)

	// RemoveLike deletes the ledger entry for the pair if present. Removing
	// an absent pair is not an error.
	RemoveLike(ctx context.Context, portfolioID, liker string) error

	// ExistsLike checks if a ledger entry exists for the pair
	ExistsLike(ctx context.Context, portfolioID, liker string) (bool, error)
}

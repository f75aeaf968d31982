package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// Repository implements the showcase.Repository interface using in-memory
// storage. A single RWMutex guards all three stores, which makes the counter
// increments and the like ledger check-and-insert trivially serializable.
type Repository struct {
	mu sync.RWMutex

	users map[string]*showcase.User

	portfolios map[string]*showcase.Portfolio
	// insertion order of portfolio ids, for store-native listing order
	portfolioOrder []string
	byOwner        map[string][]string

	likes map[string]struct{}

	closed bool
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		users:      make(map[string]*showcase.User),
		portfolios: make(map[string]*showcase.Portfolio),
		byOwner:    make(map[string][]string),
		likes:      make(map[string]struct{}),
	}
}

// Users returns the credential store
func (r *Repository) Users() showcase.UserRepository {
	return &UserRepository{repo: r}
}

// Portfolios returns the portfolio store
func (r *Repository) Portfolios() showcase.PortfolioRepository {
	return &PortfolioRepository{repo: r}
}

// Likes returns the like ledger
func (r *Repository) Likes() showcase.LikeRepository {
	return &LikeRepository{repo: r}
}

// Health returns the health status of the repository
func (r *Repository) Health(ctx context.Context) showcase.HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := "healthy"
	message := "In-memory repository is operational"
	details := map[string]interface{}{
		"users_count":      len(r.users),
		"portfolios_count": len(r.portfolios),
		"likes_count":      len(r.likes),
		"closed":           r.closed,
	}

	if r.closed {
		status = "unhealthy"
		message = "Repository is closed"
	}

	return showcase.HealthStatus{
		Status:    status,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// Close closes the repository and releases resources
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.users = nil
	r.portfolios = nil
	r.portfolioOrder = nil
	r.byOwner = nil
	r.likes = nil
	r.closed = true

	return nil
}

// likeKey builds the ledger key for a (portfolio, liker) pair. The NUL
// separator cannot appear in either component.
func likeKey(portfolioID, liker string) string {
	return portfolioID + "\x00" + liker
}

// isClosed must be called with at least the read lock held.
func (r *Repository) isClosed() error {
	if r.closed {
		return showcase.NewDatabaseError("REPO_CLOSED", "repository is closed", nil)
	}
	return nil
}

func validUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return showcase.NewValidationError("INVALID_USERNAME", "username cannot be empty")
	}
	return nil
}

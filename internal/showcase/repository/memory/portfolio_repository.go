package memory

import (
	"context"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// PortfolioRepository implements the showcase.PortfolioRepository interface
// using in-memory storage
type PortfolioRepository struct {
	repo *Repository
}

// CreatePortfolio assigns a fresh identifier, zeroes the counters and
// persists the record
func (pr *PortfolioRepository) CreatePortfolio(ctx context.Context, portfolio *showcase.Portfolio) (string, error) {
	pr.repo.mu.Lock()
	defer pr.repo.mu.Unlock()

	if err := pr.repo.isClosed(); err != nil {
		return "", err
	}

	if portfolio == nil {
		return "", showcase.NewValidationError("INVALID_PORTFOLIO", "portfolio cannot be nil")
	}
	if err := validUsername(portfolio.Username); err != nil {
		return "", err
	}

	id, err := showcase.NewPortfolioID()
	if err != nil {
		return "", showcase.NewInternalError("ID_GENERATION_FAILED", "failed to generate portfolio id", err)
	}
	// The random id space makes a collision effectively impossible, but the
	// store must never hand out a duplicate.
	for {
		if _, exists := pr.repo.portfolios[id]; !exists {
			break
		}
		if id, err = showcase.NewPortfolioID(); err != nil {
			return "", showcase.NewInternalError("ID_GENERATION_FAILED", "failed to generate portfolio id", err)
		}
	}

	stored := *portfolio
	stored.ID = id
	// Counters always start at zero regardless of caller-supplied values.
	stored.Views = 0
	stored.Likes = 0
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.Media = copyStrings(portfolio.Media)
	stored.Tools = copyStrings(portfolio.Tools)

	pr.repo.portfolios[id] = &stored
	pr.repo.portfolioOrder = append(pr.repo.portfolioOrder, id)
	pr.repo.byOwner[stored.Username] = append(pr.repo.byOwner[stored.Username], id)

	return id, nil
}

// GetPortfolio retrieves a portfolio by id
func (pr *PortfolioRepository) GetPortfolio(ctx context.Context, id string) (*showcase.Portfolio, error) {
	pr.repo.mu.RLock()
	defer pr.repo.mu.RUnlock()

	if err := pr.repo.isClosed(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}

	portfolio, exists := pr.repo.portfolios[id]
	if !exists {
		return nil, showcase.NewNotFoundError("PORTFOLIO_NOT_FOUND", "portfolio not found")
	}

	return copyPortfolio(portfolio), nil
}

// ListPortfoliosByOwner returns all portfolios owned by username in
// insertion order. An owner with no portfolios, whether registered or not,
// gets an empty slice.
func (pr *PortfolioRepository) ListPortfoliosByOwner(ctx context.Context, username string) ([]*showcase.Portfolio, error) {
	pr.repo.mu.RLock()
	defer pr.repo.mu.RUnlock()

	if err := pr.repo.isClosed(); err != nil {
		return nil, err
	}

	ids := pr.repo.byOwner[username]
	result := make([]*showcase.Portfolio, 0, len(ids))
	for _, id := range ids {
		if p, exists := pr.repo.portfolios[id]; exists {
			result = append(result, copyPortfolio(p))
		}
	}

	return result, nil
}

// ListPortfolios returns every portfolio in insertion order
func (pr *PortfolioRepository) ListPortfolios(ctx context.Context) ([]*showcase.Portfolio, error) {
	pr.repo.mu.RLock()
	defer pr.repo.mu.RUnlock()

	if err := pr.repo.isClosed(); err != nil {
		return nil, err
	}

	result := make([]*showcase.Portfolio, 0, len(pr.repo.portfolioOrder))
	for _, id := range pr.repo.portfolioOrder {
		if p, exists := pr.repo.portfolios[id]; exists {
			result = append(result, copyPortfolio(p))
		}
	}

	return result, nil
}

// IncrementViews atomically adds 1 to the view counter
func (pr *PortfolioRepository) IncrementViews(ctx context.Context, id string) error {
	return pr.increment(id, func(p *showcase.Portfolio) {
		p.Views++
	})
}

// IncrementLikes atomically adds 1 to the like counter
func (pr *PortfolioRepository) IncrementLikes(ctx context.Context, id string) error {
	return pr.increment(id, func(p *showcase.Portfolio) {
		p.Likes++
	})
}

// increment runs the mutation under the write lock so concurrent increments
// on the same id are never lost.
func (pr *PortfolioRepository) increment(id string, mutate func(*showcase.Portfolio)) error {
	pr.repo.mu.Lock()
	defer pr.repo.mu.Unlock()

	if err := pr.repo.isClosed(); err != nil {
		return err
	}

	if id == "" {
		return showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}

	portfolio, exists := pr.repo.portfolios[id]
	if !exists {
		return showcase.NewNotFoundError("PORTFOLIO_NOT_FOUND", "portfolio not found")
	}

	mutate(portfolio)
	return nil
}

func copyPortfolio(p *showcase.Portfolio) *showcase.Portfolio {
	c := *p
	c.Media = copyStrings(p.Media)
	c.Tools = copyStrings(p.Tools)
	return &c
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

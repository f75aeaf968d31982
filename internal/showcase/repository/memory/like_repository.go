package memory

import (
	"context"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// LikeRepository implements the showcase.LikeRepository interface using
// in-memory storage
type LikeRepository struct {
	repo *Repository
}

// TryRecordLike atomically inserts the (portfolioID, liker) pair if absent.
// The write lock makes the check-and-insert a single atomic operation, so
// two concurrent calls with the same pair see exactly one true.
func (lr *LikeRepository) TryRecordLike(ctx context.Context, portfolioID, liker string) (bool, error) {
	lr.repo.mu.Lock()
	defer lr.repo.mu.Unlock()

	if err := lr.repo.isClosed(); err != nil {
		return false, err
	}

	if portfolioID == "" {
		return false, showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}
	if liker == "" {
		return false, showcase.NewValidationError("INVALID_LIKER", "liker identity cannot be empty")
	}

	key := likeKey(portfolioID, liker)
	if _, exists := lr.repo.likes[key]; exists {
		return false, nil
	}

	lr.repo.likes[key] = struct{}{}
	return true, nil
}

// RemoveLike deletes the ledger entry for the pair if present
func (lr *LikeRepository) RemoveLike(ctx context.Context, portfolioID, liker string) error {
	lr.repo.mu.Lock()
	defer lr.repo.mu.Unlock()

	if err := lr.repo.isClosed(); err != nil {
		return err
	}

	if portfolioID == "" {
		return showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}
	if liker == "" {
		return showcase.NewValidationError("INVALID_LIKER", "liker identity cannot be empty")
	}

	delete(lr.repo.likes, likeKey(portfolioID, liker))
	return nil
}

// ExistsLike checks if a ledger entry exists for the pair
func (lr *LikeRepository) ExistsLike(ctx context.Context, portfolioID, liker string) (bool, error) {
	lr.repo.mu.RLock()
	defer lr.repo.mu.RUnlock()

	if err := lr.repo.isClosed(); err != nil {
		return false, err
	}

	if portfolioID == "" {
		return false, showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}
	if liker == "" {
		return false, showcase.NewValidationError("INVALID_LIKER", "liker identity cannot be empty")
	}

	_, exists := lr.repo.likes[likeKey(portfolioID, liker)]
	return exists, nil
}

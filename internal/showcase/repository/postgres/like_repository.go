package postgres

import (
	"context"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// LikeRepository implements the showcase.LikeRepository interface using
// PostgreSQL
type LikeRepository struct {
	repo *Repository
}

// TryRecordLike inserts the (portfolio, liker) pair into the like ledger.
// It reports true when the pair was newly recorded and false when the pair
// already existed. The composite primary key plus ON CONFLICT DO NOTHING
// makes the check-and-insert a single atomic statement: under concurrent
// calls for the same pair exactly one caller observes true.
func (lr *LikeRepository) TryRecordLike(ctx context.Context, portfolioID, liker string) (bool, error) {
	if portfolioID == "" {
		return false, showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}
	if liker == "" {
		return false, showcase.NewValidationError("INVALID_LIKER", "liker cannot be empty")
	}

	query := `
		INSERT INTO likes (portfolio_id, liker)
		VALUES ($1, $2)
		ON CONFLICT (portfolio_id, liker) DO NOTHING`

	result, err := lr.repo.execCommand(ctx, query, portfolioID, liker)
	if err != nil {
		return false, showcase.NewDatabaseError("COMMAND_FAILED", "failed to record like", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, showcase.NewDatabaseError("COMMAND_FAILED", "failed to read affected rows", err)
	}

	return affected == 1, nil
}

// RemoveLike deletes the ledger entry for the pair if present
func (lr *LikeRepository) RemoveLike(ctx context.Context, portfolioID, liker string) error {
	if portfolioID == "" {
		return showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}
	if liker == "" {
		return showcase.NewValidationError("INVALID_LIKER", "liker cannot be empty")
	}

	query := `DELETE FROM likes WHERE portfolio_id = $1 AND liker = $2`

	if _, err := lr.repo.execCommand(ctx, query, portfolioID, liker); err != nil {
		return showcase.NewDatabaseError("COMMAND_FAILED", "failed to remove like", err)
	}

	return nil
}

// ExistsLike reports whether the (portfolio, liker) pair is recorded
func (lr *LikeRepository) ExistsLike(ctx context.Context, portfolioID, liker string) (bool, error) {
	if portfolioID == "" || liker == "" {
		return false, nil
	}

	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE portfolio_id = $1 AND liker = $2)`

	var exists bool
	if err := lr.repo.execQueryRow(ctx, query, portfolioID, liker).Scan(&exists); err != nil {
		return false, showcase.NewDatabaseError("QUERY_FAILED", "failed to check like", err)
	}

	return exists, nil
}

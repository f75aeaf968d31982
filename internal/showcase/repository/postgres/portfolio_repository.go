package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// PortfolioRepository implements the showcase.PortfolioRepository interface
// using PostgreSQL
type PortfolioRepository struct {
	repo *Repository
}

const portfolioColumns = `id, username, theme, title, overview, media, timeline, tools, outcomes, views, likes, created_at`

// CreatePortfolio assigns a fresh identifier, zeroes the counters and
// persists the record
func (pr *PortfolioRepository) CreatePortfolio(ctx context.Context, portfolio *showcase.Portfolio) (string, error) {
	if portfolio == nil {
		return "", showcase.NewValidationError("INVALID_PORTFOLIO", "portfolio cannot be nil")
	}
	if portfolio.Username == "" {
		return "", showcase.NewValidationError("INVALID_USERNAME", "username cannot be empty")
	}

	createdAt := portfolio.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO portfolios (` + portfolioColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10)`

	// The primary key constraint backs up the random id generator: on the
	// astronomically unlikely collision the insert is retried with a new id.
	for attempt := 0; attempt < 3; attempt++ {
		id, err := showcase.NewPortfolioID()
		if err != nil {
			return "", showcase.NewInternalError("ID_GENERATION_FAILED", "failed to generate portfolio id", err)
		}

		_, err = pr.repo.execCommand(ctx, query,
			id,
			portfolio.Username,
			portfolio.Theme,
			portfolio.Title,
			portfolio.Overview,
			pq.Array(normalizeStrings(portfolio.Media)),
			portfolio.Timeline,
			pq.Array(normalizeStrings(portfolio.Tools)),
			portfolio.Outcomes,
			createdAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return "", showcase.NewDatabaseError("COMMAND_FAILED", "failed to create portfolio", err)
		}

		return id, nil
	}

	return "", showcase.NewInternalError("ID_EXHAUSTED", "failed to allocate a unique portfolio id", nil)
}

// GetPortfolio retrieves a portfolio by id
func (pr *PortfolioRepository) GetPortfolio(ctx context.Context, id string) (*showcase.Portfolio, error) {
	if id == "" {
		return nil, showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}

	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		WHERE id = $1`

	portfolio, err := scanPortfolio(pr.repo.execQueryRow(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, showcase.NewNotFoundError("PORTFOLIO_NOT_FOUND", "portfolio not found")
		}
		return nil, showcase.NewDatabaseError("SCAN_FAILED", "failed to scan portfolio", err)
	}

	return portfolio, nil
}

// ListPortfoliosByOwner returns all portfolios owned by username in
// insertion order. An owner with no portfolios, whether registered or not,
// gets an empty slice.
func (pr *PortfolioRepository) ListPortfoliosByOwner(ctx context.Context, username string) ([]*showcase.Portfolio, error) {
	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		WHERE username = $1
		ORDER BY created_at, id`

	return pr.queryPortfolios(ctx, query, username)
}

// ListPortfolios returns every portfolio in insertion order
func (pr *PortfolioRepository) ListPortfolios(ctx context.Context) ([]*showcase.Portfolio, error) {
	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolios
		ORDER BY created_at, id`

	return pr.queryPortfolios(ctx, query)
}

// IncrementViews atomically adds 1 to the view counter
func (pr *PortfolioRepository) IncrementViews(ctx context.Context, id string) error {
	return pr.increment(ctx, id, "views")
}

// IncrementLikes atomically adds 1 to the like counter
func (pr *PortfolioRepository) IncrementLikes(ctx context.Context, id string) error {
	return pr.increment(ctx, id, "likes")
}

// increment issues a single-statement counter update; row-level locking in
// PostgreSQL guarantees concurrent increments on the same id are all
// observed.
func (pr *PortfolioRepository) increment(ctx context.Context, id, column string) error {
	if id == "" {
		return showcase.NewValidationError("INVALID_PORTFOLIO_ID", "portfolio id cannot be empty")
	}

	// column is one of the two fixed counter names, never caller input.
	query := `UPDATE portfolios SET ` + column + ` = ` + column + ` + 1 WHERE id = $1`

	result, err := pr.repo.execCommand(ctx, query, id)
	if err != nil {
		return showcase.NewDatabaseError("COMMAND_FAILED", "failed to increment "+column, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return showcase.NewDatabaseError("COMMAND_FAILED", "failed to read affected rows", err)
	}
	if affected == 0 {
		return showcase.NewNotFoundError("PORTFOLIO_NOT_FOUND", "portfolio not found")
	}

	return nil
}

func (pr *PortfolioRepository) queryPortfolios(ctx context.Context, query string, args ...interface{}) ([]*showcase.Portfolio, error) {
	rows, err := pr.repo.execQuery(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*showcase.Portfolio, 0)
	for rows.Next() {
		portfolio, err := scanPortfolio(rows)
		if err != nil {
			return nil, showcase.NewDatabaseError("SCAN_FAILED", "failed to scan portfolio", err)
		}
		result = append(result, portfolio)
	}
	if err := rows.Err(); err != nil {
		return nil, showcase.NewDatabaseError("QUERY_FAILED", "failed to iterate portfolios", err)
	}

	return result, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPortfolio(row rowScanner) (*showcase.Portfolio, error) {
	portfolio := &showcase.Portfolio{}
	var media, tools pq.StringArray

	err := row.Scan(
		&portfolio.ID,
		&portfolio.Username,
		&portfolio.Theme,
		&portfolio.Title,
		&portfolio.Overview,
		&media,
		&portfolio.Timeline,
		&tools,
		&portfolio.Outcomes,
		&portfolio.Views,
		&portfolio.Likes,
		&portfolio.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	portfolio.Media = []string(media)
	portfolio.Tools = []string(tools)
	return portfolio, nil
}

func normalizeStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

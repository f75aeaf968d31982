package showcase

import (
	"time"
)

// User represents a registered account.
type User struct {
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // bcrypt hash, never included in JSON responses
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Portfolio represents a published case-study document.
type Portfolio struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Theme     string    `json:"theme" db:"theme"`
	Title     string    `json:"title" db:"title"`
	Overview  string    `json:"overview" db:"overview"`
	Media     []string  `json:"media" db:"media"`
	Timeline  string    `json:"timeline" db:"timeline"`
	Tools     []string  `json:"tools" db:"tools"`
	Outcomes  string    `json:"outcomes" db:"outcomes"`
	Views     int64     `json:"views" db:"views"`
	Likes     int64     `json:"likes" db:"likes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LikeRecord represents a single (portfolio, liker) ledger entry.
// At most one record exists per pair; records are never removed.
type LikeRecord struct {
	PortfolioID string    `json:"portfolio_id" db:"portfolio_id"`
	Liker       string    `json:"liker" db:"liker"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// HealthStatus represents the health status of a repository.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Package showcase implements the portfolio showcase service: registration,
// login, portfolio creation and the view/like counting rules.
package showcase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/internal/cache"
	"github.com/Vighnesh-M-S/PM-Helper/internal/feed"
	"github.com/Vighnesh-M-S/PM-Helper/internal/showcase/auth"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

const (
	listingCacheKey   = "portfolios:all"
	listingVersionKey = "portfolios:version"
)

// cachedListing ties a cached listing to the invalidation version it was
// built under. A reader racing an invalidation may still store a listing,
// but its entry carries a retired version and is never served.
type cachedListing struct {
	Version    string                `json:"version"`
	Portfolios []*showcase.Portfolio `json:"portfolios"`
}

// LoginResult carries the signed token handed out on successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// ServiceOptions configures the optional collaborators of the service.
// All fields may be nil/zero; the service degrades to repository-only mode.
type ServiceOptions struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Feed     *feed.Hub
	Metrics  *Metrics
}

// Service orchestrates the showcase operations on top of the repository.
// It is stateless; all shared mutable state lives in the stores.
type Service struct {
	repo      showcase.Repository
	hasher    *auth.PasswordHasher
	dummyHash string
	tokens    *auth.JWTManager
	logger    log.Logger
	cache     cache.Cache
	cacheTTL  time.Duration
	feed      *feed.Hub
	metrics   *Metrics
}

// NewService creates a new showcase service
func NewService(repo showcase.Repository, tokens *auth.JWTManager, logger log.Logger, opts *ServiceOptions) *Service {
	s := &Service{
		repo:   repo,
		hasher: auth.NewPasswordHasher(),
		tokens: tokens,
		logger: logger,
	}

	// Compared against on logins for unknown usernames, so both login
	// failure paths pay the same hashing cost.
	s.dummyHash, _ = s.hasher.HashPassword("pm-helper-login-timing-pad")

	if opts != nil {
		s.cache = opts.Cache
		s.cacheTTL = opts.CacheTTL
		s.feed = opts.Feed
		s.metrics = opts.Metrics
	}

	return s
}

// Register creates a new user account with a hashed password
func (s *Service) Register(ctx context.Context, username, password string) (*showcase.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, showcase.NewValidationError("INVALID_USERNAME", "username cannot be empty")
	}
	if password == "" {
		return nil, showcase.NewValidationError("INVALID_PASSWORD", "password cannot be empty")
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, showcase.NewInternalError("HASH_FAILED", "failed to hash password", err)
	}

	user := &showcase.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Users().CreateUser(ctx, user); err != nil {
		if showcase.IsConflictError(err) {
			return nil, showcase.NewConflictError("DUPLICATE_USER", "username already taken")
		}
		return nil, err
	}

	s.logger.Info("user registered", log.String("username", username))
	return user, nil
}

// Login verifies the credentials and issues a signed token. A missing user
// and a wrong password are reported identically so login never reveals
// whether a username exists.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, showcase.NewUnauthorizedError("INVALID_CREDENTIALS", "invalid username or password")
	}

	user, err := s.repo.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if showcase.IsNotFoundError(err) {
			// Burn a comparison so the unknown-user path takes as long as
			// a password mismatch.
			_ = s.hasher.VerifyPassword(password, s.dummyHash)
			return nil, showcase.NewUnauthorizedError("INVALID_CREDENTIALS", "invalid username or password")
		}
		return nil, err
	}

	if err := s.hasher.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, showcase.NewUnauthorizedError("INVALID_CREDENTIALS", "invalid username or password")
	}

	token, err := s.tokens.GenerateToken(username)
	if err != nil {
		return nil, showcase.NewInternalError("TOKEN_FAILED", "failed to issue token", err)
	}

	s.logger.Info("user logged in", log.String("username", username))
	return &LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.ExpiresIn()),
	}, nil
}

// SavePortfolio validates and persists a new portfolio document, returning
// its freshly assigned identifier
func (s *Service) SavePortfolio(ctx context.Context, portfolio *showcase.Portfolio) (string, error) {
	if portfolio == nil {
		return "", showcase.NewValidationError("INVALID_PORTFOLIO", "portfolio cannot be nil")
	}
	if strings.TrimSpace(portfolio.Username) == "" {
		return "", showcase.NewValidationError("INVALID_USERNAME", "portfolio owner username is required")
	}

	// Counters always start at zero, whatever the caller sent
	portfolio.Views = 0
	portfolio.Likes = 0
	if portfolio.Media == nil {
		portfolio.Media = []string{}
	}
	if portfolio.Tools == nil {
		portfolio.Tools = []string{}
	}

	id, err := s.repo.Portfolios().CreatePortfolio(ctx, portfolio)
	if err != nil {
		return "", err
	}

	s.invalidateListing(ctx)
	if s.metrics != nil {
		s.metrics.portfoliosCreated.Inc()
	}
	s.publish(feed.Event{
		Type:        feed.EventPortfolioCreated,
		PortfolioID: id,
		Username:    portfolio.Username,
	})

	s.logger.Info("portfolio created",
		log.String("portfolio_id", id),
		log.String("username", portfolio.Username))

	return id, nil
}

// GetUserPortfolios lists all portfolios owned by username in insertion
// order. Any owner that matches nothing, registered or not, yields an empty
// list rather than an error.
func (s *Service) GetUserPortfolios(ctx context.Context, username string) ([]*showcase.Portfolio, error) {
	return s.repo.Portfolios().ListPortfoliosByOwner(ctx, username)
}

// GetAllPortfolios lists every portfolio in insertion order, served from the
// listing cache when possible. The cache is invalidated on every create,
// view and like, and entries are version-checked so counter values in
// listings stay exact even when a read races an invalidation.
func (s *Service) GetAllPortfolios(ctx context.Context) ([]*showcase.Portfolio, error) {
	var version string
	if s.cache != nil {
		// Captured before the repository read so any invalidation racing
		// this call is detected before the listing is stored below.
		version = s.listingVersion(ctx)
		if version != "" {
			if data, err := s.cache.Get(ctx, listingCacheKey); err == nil && data != nil {
				var entry cachedListing
				if err := json.Unmarshal(data, &entry); err == nil && entry.Version == version {
					return entry.Portfolios, nil
				}
				// Retired or corrupt entry: fall through to the repository
			}
		}
	}

	portfolios, err := s.repo.Portfolios().ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && version != "" {
		// Store only if no invalidation happened since the version was
		// captured. A late store still loses: the entry keeps the captured
		// version, and readers under the new version reject it.
		if current, err := s.cache.Get(ctx, listingVersionKey); err == nil && string(current) == version {
			if data, err := json.Marshal(cachedListing{Version: version, Portfolios: portfolios}); err == nil {
				if err := s.cache.Set(ctx, listingCacheKey, data, s.cacheTTL); err != nil {
					s.logger.Warn("failed to cache portfolio listing", log.Error(err))
				}
			}
		}
	}

	return portfolios, nil
}

// listingVersion returns the current listing version token, minting a fresh
// one when none exists. An empty return means the cache cannot be trusted
// for this read and is skipped.
func (s *Service) listingVersion(ctx context.Context) string {
	if data, err := s.cache.Get(ctx, listingVersionKey); err == nil && len(data) > 0 {
		return string(data)
	}

	token, err := newListingVersion()
	if err != nil {
		return ""
	}
	if err := s.cache.Set(ctx, listingVersionKey, []byte(token), 0); err != nil {
		return ""
	}
	return token
}

// RecordView counts a view of the portfolio by viewer. Views by the owner
// are accepted but never counted; repeat views by anyone else all count.
func (s *Service) RecordView(ctx context.Context, portfolioID, viewer string) error {
	viewer = strings.TrimSpace(viewer)
	if viewer == "" {
		return showcase.NewValidationError("INVALID_VIEWER", "viewer identity is required")
	}

	portfolio, err := s.repo.Portfolios().GetPortfolio(ctx, portfolioID)
	if err != nil {
		return err
	}

	// Owner self-views succeed without touching the counter
	if portfolio.Username == viewer {
		return nil
	}

	if err := s.repo.Portfolios().IncrementViews(ctx, portfolioID); err != nil {
		return err
	}

	s.invalidateListing(ctx)
	if s.metrics != nil {
		s.metrics.viewsRecorded.Inc()
	}
	s.publish(feed.Event{
		Type:        feed.EventPortfolioViewed,
		PortfolioID: portfolioID,
		Username:    viewer,
	})

	return nil
}

// RecordLike records a like of the portfolio by liker. Each (portfolio,
// liker) pair is counted at most once; a repeat attempt returns AlreadyLiked
// and leaves the counter untouched.
func (s *Service) RecordLike(ctx context.Context, portfolioID, liker string) error {
	liker = strings.TrimSpace(liker)
	if liker == "" {
		return showcase.NewValidationError("INVALID_LIKER", "liker identity is required")
	}

	if _, err := s.repo.Portfolios().GetPortfolio(ctx, portfolioID); err != nil {
		return err
	}

	recorded, err := s.repo.Likes().TryRecordLike(ctx, portfolioID, liker)
	if err != nil {
		return err
	}
	if !recorded {
		if s.metrics != nil {
			s.metrics.likesRejected.Inc()
		}
		return showcase.NewConflictError("ALREADY_LIKED", "portfolio already liked by this user")
	}

	// The ledger insert and the counter increment are separate store
	// operations, so a failed increment is compensated by removing the
	// ledger entry again. If the compensation itself fails the pair stays
	// burned: undercounting beats double counting here.
	if err := s.repo.Portfolios().IncrementLikes(ctx, portfolioID); err != nil {
		if rmErr := s.repo.Likes().RemoveLike(ctx, portfolioID, liker); rmErr != nil {
			s.logger.Error("like recorded but counter increment and rollback both failed",
				log.String("portfolio_id", portfolioID),
				log.String("liker", liker),
				log.Error(rmErr))
		}
		return err
	}

	s.invalidateListing(ctx)
	if s.metrics != nil {
		s.metrics.likesRecorded.Inc()
	}
	s.publish(feed.Event{
		Type:        feed.EventPortfolioLiked,
		PortfolioID: portfolioID,
		Username:    liker,
	})

	return nil
}

// Health aggregates repository and cache health
func (s *Service) Health(ctx context.Context) showcase.HealthStatus {
	health := s.repo.Health(ctx)

	if s.cache != nil {
		cacheHealth := s.cache.Health(ctx)
		if health.Details == nil {
			health.Details = make(map[string]interface{})
		}
		health.Details["cache"] = cacheHealth
		if cacheHealth.Status != "healthy" && health.Status == "healthy" {
			health.Status = "degraded"
		}
	}

	return health
}

func (s *Service) invalidateListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// The version is retired first: once it is gone, no in-flight reader
	// can store a listing that predates this mutation under a live version.
	if err := s.cache.Delete(ctx, listingVersionKey); err != nil {
		s.logger.Warn("failed to retire portfolio listing version", log.Error(err))
	}
	if err := s.cache.Delete(ctx, listingCacheKey); err != nil {
		s.logger.Warn("failed to invalidate portfolio listing cache", log.Error(err))
	}
}

func newListingVersion() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *Service) publish(event feed.Event) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(event)
}

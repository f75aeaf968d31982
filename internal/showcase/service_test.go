package showcase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/internal/cache"
	"github.com/Vighnesh-M-S/PM-Helper/internal/showcase/auth"
	"github.com/Vighnesh-M-S/PM-Helper/internal/showcase/repository/memory"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

func newTestService(t *testing.T, opts *ServiceOptions) *Service {
	t.Helper()

	repo := memory.NewRepository()
	t.Cleanup(func() {
		repo.Close()
	})

	tokens, err := auth.NewJWTManager("test-secret", "HS256", time.Hour, "pm-helper")
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	return NewService(repo, tokens, log.NewNop(), opts)
}

func TestService_Register(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("unexpected username %q", user.Username)
	}
	if user.PasswordHash == "password123" {
		t.Error("password must be stored hashed")
	}
}

func TestService_Register_Duplicate(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "password123"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register(ctx, "alice", "other-password")
	if !showcase.IsConflictError(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	var svcErr *showcase.Error
	if !errors.As(err, &svcErr) || svcErr.Code != "DUPLICATE_USER" {
		t.Errorf("expected DUPLICATE_USER code, got %v", err)
	}
}

func TestService_Register_Validation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "password"); !showcase.IsValidationError(err) {
		t.Errorf("expected validation error for empty username, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice", ""); !showcase.IsValidationError(err) {
		t.Errorf("expected validation error for empty password, got %v", err)
	}
}

func TestService_Login(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Error("expected a future expiry")
	}
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Wrong password and unknown user must be indistinguishable
	_, wrongPass := svc.Login(ctx, "alice", "wrong")
	_, unknownUser := svc.Login(ctx, "ghost", "password123")

	for _, err := range []error{wrongPass, unknownUser} {
		if !showcase.IsUnauthorizedError(err) {
			t.Errorf("expected unauthorized error, got %v", err)
			continue
		}
		var svcErr *showcase.Error
		if !errors.As(err, &svcErr) || svcErr.Code != "INVALID_CREDENTIALS" {
			t.Errorf("expected INVALID_CREDENTIALS code, got %v", err)
		}
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Error("wrong-password and unknown-user errors must be identical")
	}

	// The unknown-user path burns a comparison against this pad so the two
	// failure paths cost the same
	if svc.dummyHash == "" {
		t.Error("dummy hash must be initialized")
	}
}

func TestService_SavePortfolio(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	id, err := svc.SavePortfolio(ctx, &showcase.Portfolio{
		Username: "alice",
		Theme:    "minimal",
		Title:    "Checkout Redesign",
		Views:    500,
		Likes:    500,
	})
	if err != nil {
		t.Fatalf("SavePortfolio failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a portfolio id")
	}

	listing, err := svc.GetUserPortfolios(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserPortfolios failed: %v", err)
	}
	if len(listing) != 1 {
		t.Fatalf("expected 1 portfolio, got %d", len(listing))
	}
	got := listing[0]
	if got.Views != 0 || got.Likes != 0 {
		t.Errorf("counters must be forced to zero, got views=%d likes=%d", got.Views, got.Likes)
	}
	if got.Media == nil || got.Tools == nil {
		t.Error("media and tools must be normalized to empty slices")
	}
}

func TestService_SavePortfolio_OwnerNeedNotExist(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	// The owner username is a soft reference: no registration required.
	id, err := svc.SavePortfolio(ctx, &showcase.Portfolio{
		Username: "ghost",
		Title:    "Unclaimed Work",
	})
	if err != nil {
		t.Fatalf("SavePortfolio for unregistered owner failed: %v", err)
	}

	listing, err := svc.GetUserPortfolios(ctx, "ghost")
	if err != nil {
		t.Fatalf("GetUserPortfolios failed: %v", err)
	}
	if len(listing) != 1 || listing[0].ID != id {
		t.Fatalf("expected the ghost-owned portfolio, got %+v", listing)
	}
}

func TestService_GetUserPortfolios_UnknownOwnerEmpty(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	for _, owner := range []string{"nobody", "  ", ""} {
		listing, err := svc.GetUserPortfolios(ctx, owner)
		if err != nil {
			t.Errorf("GetUserPortfolios(%q) failed: %v", owner, err)
			continue
		}
		if len(listing) != 0 {
			t.Errorf("GetUserPortfolios(%q): expected empty listing, got %d", owner, len(listing))
		}
	}
}

func TestService_RecordView(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	id, err := svc.SavePortfolio(ctx, &showcase.Portfolio{Username: "alice"})
	if err != nil {
		t.Fatalf("SavePortfolio failed: %v", err)
	}

	// Owner self-views succeed without counting
	for i := 0; i < 3; i++ {
		if err := svc.RecordView(ctx, id, "alice"); err != nil {
			t.Fatalf("owner RecordView failed: %v", err)
		}
	}

	// Repeat non-owner views all count
	for i := 0; i < 4; i++ {
		if err := svc.RecordView(ctx, id, "bob"); err != nil {
			t.Fatalf("RecordView failed: %v", err)
		}
	}

	listing, _ := svc.GetUserPortfolios(ctx, "alice")
	if listing[0].Views != 4 {
		t.Errorf("expected 4 views, got %d", listing[0].Views)
	}
}

func TestService_RecordView_Errors(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	id, _ := svc.SavePortfolio(ctx, &showcase.Portfolio{Username: "alice"})

	if err := svc.RecordView(ctx, "pf_missing", "bob"); !showcase.IsNotFoundError(err) {
		t.Errorf("expected not found error, got %v", err)
	}
	if err := svc.RecordView(ctx, id, ""); !showcase.IsValidationError(err) {
		t.Errorf("expected validation error for missing viewer, got %v", err)
	}

	listing, _ := svc.GetUserPortfolios(ctx, "alice")
	if listing[0].Views != 0 {
		t.Errorf("failed views must not count, got %d", listing[0].Views)
	}
}

func TestService_RecordLike(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	id, _ := svc.SavePortfolio(ctx, &showcase.Portfolio{Username: "alice"})

	if err := svc.RecordLike(ctx, id, "bob"); err != nil {
		t.Fatalf("RecordLike failed: %v", err)
	}

	err := svc.RecordLike(ctx, id, "bob")
	if !showcase.IsConflictError(err) {
		t.Fatalf("expected conflict on repeat like, got %v", err)
	}
	var svcErr *showcase.Error
	if !errors.As(err, &svcErr) || svcErr.Code != "ALREADY_LIKED" {
		t.Errorf("expected ALREADY_LIKED code, got %v", err)
	}

	if err := svc.RecordLike(ctx, id, "carol"); err != nil {
		t.Fatalf("RecordLike by another user failed: %v", err)
	}

	listing, _ := svc.GetUserPortfolios(ctx, "alice")
	if listing[0].Likes != 2 {
		t.Errorf("expected 2 likes, got %d", listing[0].Likes)
	}
}

func TestService_RecordLike_Errors(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	id, _ := svc.SavePortfolio(ctx, &showcase.Portfolio{Username: "alice"})

	if err := svc.RecordLike(ctx, "pf_missing", "bob"); !showcase.IsNotFoundError(err) {
		t.Errorf("expected not found error, got %v", err)
	}
	if err := svc.RecordLike(ctx, id, ""); !showcase.IsValidationError(err) {
		t.Errorf("expected validation error for missing liker, got %v", err)
	}
}

// failingIncrementRepo wraps a repository so a fixed number of
// IncrementLikes calls fail before the store recovers.
type failingIncrementRepo struct {
	showcase.Repository
	failures int
}

func (r *failingIncrementRepo) Portfolios() showcase.PortfolioRepository {
	return &failingPortfolioRepo{PortfolioRepository: r.Repository.Portfolios(), owner: r}
}

type failingPortfolioRepo struct {
	showcase.PortfolioRepository
	owner *failingIncrementRepo
}

func (p *failingPortfolioRepo) IncrementLikes(ctx context.Context, id string) error {
	if p.owner.failures > 0 {
		p.owner.failures--
		return showcase.NewDatabaseError("COMMAND_FAILED", "store unavailable", nil)
	}
	return p.PortfolioRepository.IncrementLikes(ctx, id)
}

func TestService_RecordLike_IncrementFailureRollsBackLedger(t *testing.T) {
	mem := memory.NewRepository()
	t.Cleanup(func() {
		mem.Close()
	})
	repo := &failingIncrementRepo{Repository: mem, failures: 1}

	tokens, err := auth.NewJWTManager("test-secret", "HS256", time.Hour, "pm-helper")
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	svc := NewService(repo, tokens, log.NewNop(), nil)
	ctx := context.Background()

	id, _ := svc.SavePortfolio(ctx, &showcase.Portfolio{Username: "alice"})

	if err := svc.RecordLike(ctx, id, "bob"); !showcase.IsDatabaseError(err) {
		t.Fatalf("expected database error from failing increment, got %v", err)
	}

	// The failed attempt must not burn the (portfolio, liker) pair.
	if err := svc.RecordLike(ctx, id, "bob"); err != nil {
		t.Fatalf("retry after increment failure should succeed, got %v", err)
	}

	listing, _ := svc.GetUserPortfolios(ctx, "alice")
	if listing[0].Likes != 1 {
		t.Errorf("expected 1 like after retry, got %d", listing[0].Likes)
	}
}

func TestService_RecordLike_Concurrent(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	id, _ := svc.SavePortfolio(ctx, &showcase.Portfolio{Username: "alice"})

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.RecordLike(ctx, id, "bob")
		}()
	}
	wg.Wait()
	close(errs)

	success, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			success++
		case showcase.IsConflictError(err):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if success != 1 || conflicts != n-1 {
		t.Errorf("expected 1 success and %d conflicts, got %d and %d", n-1, success, conflicts)
	}

	listing, _ := svc.GetUserPortfolios(ctx, "alice")
	if listing[0].Likes != 1 {
		t.Errorf("expected exactly 1 like, got %d", listing[0].Likes)
	}
}

func TestService_GetAllPortfolios_CacheStaysExact(t *testing.T) {
	mc := cache.NewMemoryCache(&cache.Config{KeyPrefix: "test"})
	t.Cleanup(func() {
		mc.Close()
	})

	svc := newTestService(t, &ServiceOptions{
		Cache:    mc,
		CacheTTL: time.Minute,
	})
	ctx := context.Background()

	id, _ := svc.SavePortfolio(ctx, &showcase.Portfolio{Username: "alice"})

	// Prime the cache
	first, err := svc.GetAllPortfolios(ctx)
	if err != nil {
		t.Fatalf("GetAllPortfolios failed: %v", err)
	}
	if len(first) != 1 || first[0].Views != 0 {
		t.Fatalf("unexpected initial listing: %+v", first)
	}

	// A view must invalidate the cached listing so counts stay exact
	if err := svc.RecordView(ctx, id, "bob"); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}

	second, err := svc.GetAllPortfolios(ctx)
	if err != nil {
		t.Fatalf("GetAllPortfolios failed: %v", err)
	}
	if second[0].Views != 1 {
		t.Errorf("cached listing is stale: views=%d", second[0].Views)
	}
}

func TestService_GetAllPortfolios_LateStaleStoreNotServed(t *testing.T) {
	mc := cache.NewMemoryCache(&cache.Config{KeyPrefix: "test"})
	t.Cleanup(func() {
		mc.Close()
	})

	svc := newTestService(t, &ServiceOptions{
		Cache:    mc,
		CacheTTL: time.Minute,
	})
	ctx := context.Background()

	id, _ := svc.SavePortfolio(ctx, &showcase.Portfolio{Username: "alice"})

	if _, err := svc.GetAllPortfolios(ctx); err != nil {
		t.Fatalf("GetAllPortfolios failed: %v", err)
	}
	stale, err := mc.Get(ctx, listingCacheKey)
	if err != nil || stale == nil {
		t.Fatalf("expected a primed listing entry: %v", err)
	}

	if err := svc.RecordView(ctx, id, "bob"); err != nil {
		t.Fatalf("RecordView failed: %v", err)
	}

	// A reader that listed before the view may store its result after the
	// invalidation. Its entry carries the retired version and must lose.
	if err := mc.Set(ctx, listingCacheKey, stale, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	listing, err := svc.GetAllPortfolios(ctx)
	if err != nil {
		t.Fatalf("GetAllPortfolios failed: %v", err)
	}
	if listing[0].Views != 1 {
		t.Errorf("retired cache entry was served: views=%d", listing[0].Views)
	}
}

// End-to-end scenario: alice publishes, bob browses and reacts.
func TestService_EndToEnd(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice-pass"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "bob-pass"); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "alice-pass"); err != nil {
		t.Fatalf("login alice: %v", err)
	}

	id, err := svc.SavePortfolio(ctx, &showcase.Portfolio{
		Username: "alice",
		Theme:    "case-study",
		Title:    "Payments Revamp",
		Media:    []string{"hero.png"},
		Tools:    []string{"figma"},
	})
	if err != nil {
		t.Fatalf("save portfolio: %v", err)
	}

	// Alice previews her own work, then bob views twice and likes once
	if err := svc.RecordView(ctx, id, "alice"); err != nil {
		t.Fatalf("alice self-view: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.RecordView(ctx, id, "bob"); err != nil {
			t.Fatalf("bob view: %v", err)
		}
	}
	if err := svc.RecordLike(ctx, id, "bob"); err != nil {
		t.Fatalf("bob like: %v", err)
	}
	if err := svc.RecordLike(ctx, id, "bob"); !showcase.IsConflictError(err) {
		t.Fatalf("expected AlreadyLiked on bob's second like, got %v", err)
	}

	all, err := svc.GetAllPortfolios(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 portfolio, got %d", len(all))
	}
	if all[0].ID != id {
		t.Errorf("expected id %q, got %q", id, all[0].ID)
	}
	if all[0].Views != 2 {
		t.Errorf("expected 2 views, got %d", all[0].Views)
	}
	if all[0].Likes != 1 {
		t.Errorf("expected 1 like, got %d", all[0].Likes)
	}
}

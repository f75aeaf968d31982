package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/internal/cache"
	"github.com/Vighnesh-M-S/PM-Helper/internal/config"
	"github.com/Vighnesh-M-S/PM-Helper/internal/feed"
	"github.com/Vighnesh-M-S/PM-Helper/internal/showcase"
	"github.com/Vighnesh-M-S/PM-Helper/internal/showcase/auth"
	"github.com/Vighnesh-M-S/PM-Helper/internal/showcase/handler"
	"github.com/Vighnesh-M-S/PM-Helper/internal/showcase/repository/memory"
	"github.com/Vighnesh-M-S/PM-Helper/internal/showcase/repository/postgres"
	"github.com/Vighnesh-M-S/PM-Helper/internal/tracing"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
	pkgshowcase "github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

var (
	configFile  = flag.String("config", "config.yaml", "Configuration file path")
	showVersion = flag.Bool("version", false, "Show version information")
)

const (
	Version   = "v1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("PM-Helper %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(&log.Config{
		Level:       log.ParseLevel(cfg.Logging.Level),
		Development: cfg.Logging.Development,
	})

	tracerProvider, err := tracing.NewTracerProvider(&cfg.Tracing)
	if err != nil {
		logger.Fatal("failed to initialize tracing", log.Error(err))
	}

	repo, err := buildRepository(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize repository", log.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("error closing repository", log.Error(err))
		}
	}()

	listingCache := buildCache(cfg, logger)
	if listingCache != nil {
		defer func() {
			if err := listingCache.Close(); err != nil {
				logger.Warn("error closing cache", log.Error(err))
			}
		}()
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		// Tokens are stateless, so a per-process secret only invalidates
		// logins across restarts
		secret = randomSecret()
		logger.Warn("jwt.secret not configured, using a generated per-process secret")
	}
	tokens, err := auth.NewJWTManager(secret, cfg.JWT.Algorithm, cfg.JWT.ExpiresIn, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatal("failed to initialize token manager", log.Error(err))
	}

	metrics, err := showcase.NewMetrics(cfg.Metrics.Namespace)
	if err != nil {
		logger.Fatal("failed to register metrics", log.Error(err))
	}

	var feedHub *feed.Hub
	if cfg.Feed.Enabled {
		feedHub = feed.NewHub(logger)
	}

	service := showcase.NewService(repo, tokens, logger, &showcase.ServiceOptions{
		Cache:    listingCache,
		CacheTTL: cfg.Cache.TTL,
		Feed:     feedHub,
		Metrics:  metrics,
	})

	server, err := showcase.NewServer(cfg, logger, handler.NewHandler(service, logger), feedHub)
	if err != nil {
		logger.Fatal("failed to create server", log.Error(err))
	}

	errCh, err := server.Start()
	if err != nil {
		logger.Fatal("failed to start server", log.Error(err))
	}

	logger.Info("pm-helper started",
		log.String("version", Version),
		log.String("address", cfg.Server.Address),
		log.String("repository", cfg.Repository.Type))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", log.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", log.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error("forced shutdown", log.Error(err))
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		logger.Warn("error shutting down tracer", log.Error(err))
	}

	logger.Info("pm-helper stopped")
}

// buildRepository selects the document store backend from configuration
func buildRepository(cfg *config.Config, logger log.Logger) (pkgshowcase.Repository, error) {
	switch cfg.Repository.Type {
	case "memory":
		logger.Info("using in-memory repository")
		return memory.NewRepository(), nil

	case "postgres":
		repo, err := postgres.NewRepository(&postgres.Config{
			DSN:             cfg.Repository.Postgres.DSN,
			MaxOpenConns:    cfg.Repository.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Repository.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Repository.Postgres.ConnMaxLifetime,
			MigrationPath:   cfg.Repository.Postgres.MigrationPath,
		})
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(); err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("using postgres repository")
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
	}
}

// buildCache constructs the optional listing cache. A cache failure is not
// fatal; the service runs repository-only.
func buildCache(cfg *config.Config, logger log.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}

	cacheCfg := &cache.Config{
		Address:   cfg.Cache.Address,
		Password:  cfg.Cache.Password,
		Database:  cfg.Cache.Database,
		KeyPrefix: cfg.Cache.KeyPrefix,
		Timeout:   5 * time.Second,
	}

	switch cfg.Cache.Type {
	case "redis":
		c, err := cache.NewRedisCache(cacheCfg)
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without cache", log.Error(err))
			return nil
		}
		logger.Info("using redis listing cache", log.String("address", cfg.Cache.Address))
		return c

	default:
		logger.Info("using memory listing cache")
		return cache.NewMemoryCache(cacheCfg)
	}
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

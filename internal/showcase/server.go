package showcase

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vighnesh-M-S/PM-Helper/internal/config"
	"github.com/Vighnesh-M-S/PM-Helper/internal/feed"
	"github.com/Vighnesh-M-S/PM-Helper/internal/middleware"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
)

// RouteRegistrar registers handler routes on the engine. Declared here so
// the server package does not import the handler package directly.
type RouteRegistrar interface {
	RegisterRoutes(router gin.IRouter)
}

// Server owns the HTTP listener of the showcase API
type Server struct {
	config     *config.Config
	logger     log.Logger
	engine     *gin.Engine
	httpServer *http.Server
	feed       *feed.Hub

	mu      sync.Mutex
	running bool
}

// NewServer builds the gin engine with the configured middleware chain and
// registers all routes
func NewServer(cfg *config.Config, logger log.Logger, registrar RouteRegistrar, feedHub *feed.Hub) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if registrar == nil {
		return nil, fmt.Errorf("route registrar cannot be nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.AccessLog(logger))
	engine.Use(middleware.CORS(&cfg.CORS))

	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}

	if cfg.Metrics.Enabled {
		prom, err := middleware.NewPrometheusMiddleware(&cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		engine.Use(prom.Handler())

		metricsPath := cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		engine.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	registrar.RegisterRoutes(engine)

	if feedHub != nil && cfg.Feed.Enabled {
		engine.GET("/ws/activity", feedHub.HandleWS)
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		config:     cfg,
		logger:     logger,
		engine:     engine,
		httpServer: httpServer,
		feed:       feedHub,
	}, nil
}

// Engine exposes the underlying gin engine, mainly for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving requests. It does not block; listener errors are
// reported on the returned channel.
func (s *Server) Start() (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil, fmt.Errorf("server is already running")
	}
	s.running = true

	if s.feed != nil && s.config.Feed.Enabled {
		go s.feed.Run()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", log.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Stop drains in-flight requests and shuts the listener down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.feed != nil && s.config.Feed.Enabled {
		s.feed.Stop()
	}

	shutdownCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

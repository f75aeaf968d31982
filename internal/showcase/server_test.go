package showcase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vighnesh-M-S/PM-Helper/internal/config"
	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
)

type testRegistrar struct{}

func (testRegistrar) RegisterRoutes(router gin.IRouter) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func newServerConfig() *config.Config {
	cfg := config.Default()
	cfg.Repository.Type = "memory"
	cfg.Feed.Enabled = false
	cfg.Tracing.Enabled = false
	return cfg
}

func TestNewServer_RoutesAndMetrics(t *testing.T) {
	cfg := newServerConfig()

	server, err := NewServer(cfg, log.NewNop(), testRegistrar{}, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /ping, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /metrics, got %d", w.Code)
	}
}

func TestServer_StartStop(t *testing.T) {
	cfg := newServerConfig()
	cfg.Server.Address = "127.0.0.1:0"

	server, err := NewServer(cfg, log.NewNop(), testRegistrar{}, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	errCh, err := server.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := server.Start(); err == nil {
		t.Error("second Start must fail")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if err, ok := <-errCh; ok && err != nil {
		t.Errorf("unexpected listener error: %v", err)
	}
}

func TestNewServer_NilArgs(t *testing.T) {
	if _, err := NewServer(nil, log.NewNop(), testRegistrar{}, nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewServer(newServerConfig(), log.NewNop(), nil, nil); err == nil {
		t.Error("expected error for nil registrar")
	}
}

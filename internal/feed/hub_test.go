package feed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	hub := NewHub(log.NewNop())
	go hub.Run()
	t.Cleanup(hub.Stop)

	router := gin.New()
	router.GET("/ws/activity", hub.HandleWS)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/activity"
	return hub, wsURL
}

func TestHub_Broadcast(t *testing.T) {
	hub, wsURL := newTestHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Registration races the publish; poll until the event arrives
	deadline := time.Now().Add(2 * time.Second)
	var got Event
	for time.Now().Before(deadline) {
		hub.Publish(Event{Type: EventPortfolioLiked, PortfolioID: "pf_1", Username: "bob"})

		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		if err := conn.ReadJSON(&got); err == nil {
			break
		}
	}

	if got.Type != EventPortfolioLiked {
		t.Fatalf("expected %q event, got %+v", EventPortfolioLiked, got)
	}
	if got.PortfolioID != "pf_1" || got.Username != "bob" {
		t.Errorf("unexpected event payload: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected a timestamp on the event")
	}
}

func TestHub_PublishAfterStop(t *testing.T) {
	hub := NewHub(log.NewNop())
	go hub.Run()
	hub.Stop()

	// Must not panic or block
	hub.Publish(Event{Type: EventPortfolioViewed, PortfolioID: "pf_1"})
}

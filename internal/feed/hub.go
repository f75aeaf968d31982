// Package feed broadcasts showcase activity (portfolio creations, views,
// likes) to connected WebSocket clients.
package feed

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Event is a single activity item pushed to feed subscribers
type Event struct {
	Type        string    `json:"type"`
	PortfolioID string    `json:"portfolio_id"`
	Username    string    `json:"username,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event types
const (
	EventPortfolioCreated = "portfolio_created"
	EventPortfolioViewed  = "portfolio_viewed"
	EventPortfolioLiked   = "portfolio_liked"
)

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	logger log.Logger

	clients    map[*client]struct{}
	broadcast  chan Event
	register   chan *client
	unregister chan *client

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}

	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan Event
	hub  *Hub
}

// NewHub creates a feed hub. Run must be called before clients connect.
func NewHub(logger log.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan Event, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The feed is read-only public data, any origin may subscribe
				return true
			},
		},
	}
}

// Run processes registrations and broadcasts until Stop is called
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug("feed client connected", log.Int("total", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("feed client disconnected", log.Int("total", len(h.clients)))
			}

		case event := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- event:
				default:
					// Slow consumer, drop the connection rather than block
					delete(h.clients, c)
					close(c.send)
				}
			}

		case <-h.stopCh:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// Stop shuts the hub down and waits for Run to exit
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	<-h.done
}

// Publish queues an event for broadcast. Events are dropped when the hub
// is saturated so publishers never block on slow feed consumers.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case h.broadcast <- event:
	case <-h.stopCh:
	default:
		h.logger.Warn("feed broadcast queue full, dropping event",
			log.String("type", event.Type),
			log.String("portfolio_id", event.PortfolioID))
	}
}

// HandleWS upgrades the request and attaches the connection to the hub
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan Event, 16),
		hub:  h,
	}

	select {
	case h.register <- cl:
	case <-h.stopCh:
		conn.Close()
		return
	}

	go cl.writePump()
	go cl.readPump()
}

// readPump discards client frames and detects disconnects
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopCh:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump pushes events and keepalive pings to the connection
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

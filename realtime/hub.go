// Package realtime pushes ranking-affecting events to connected clients over
// a websocket. Delivery is fire-and-forget: a slow or gone client is dropped,
// never waited on, and a failed broadcast is only logged.
package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	At        time.Time `json:"at"`
}

const (
	EventScoreRecorded     = "score_recorded"
	EventScoresReset       = "scores_reset"
	EventTiebreakActivated = "tiebreaker_activated"
	EventTiebreakResolved  = "tiebreaker_resolved"
	EventTiebreakCancelled = "tiebreaker_cancelled"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API already allows any origin through CORS; the socket follows.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 16),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			logging.Log.Infof("REALTIME: client connected, %d total", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Notify queues an event for all connected clients without blocking the
// caller. Correctness never depends on this reaching anyone.
func (h *Hub) Notify(eventType, sessionID string) {
	payload, err := json.Marshal(Event{Type: eventType, SessionID: sessionID, At: time.Now().UTC()})
	if err != nil {
		logging.Log.Errorf("REALTIME: failed to marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		logging.Log.Warnf("REALTIME: broadcast buffer full, dropped %s event", eventType)
	}
}

// ServeWS upgrades a ranking subscriber connection.
func (h *Hub) ServeWS(g *gin.Context) {
	conn, err := upgrader.Upgrade(g.Writer, g.Request, nil)
	if err != nil {
		logging.Log.Errorf("REALTIME: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.register <- c

	go c.writeLoop()
	go c.readLoop(h)
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readLoop only drains control frames; subscribers never send data.
func (c *client) readLoop(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

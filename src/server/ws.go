package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamEvent is one live report pushed to connected websocket clients.
type StreamEvent struct {
	Message   string    `json:"message"`
	Report    string    `json:"report"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub broadcasts finished error reports to websocket subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: map[*websocket.Conn]bool{}}
}

// HandleReport adapts the hub to the catcher's report handler contract.
func (h *Hub) HandleReport(err error, reportText string) {
	h.Broadcast(StreamEvent{
		Message:   err.Error(),
		Report:    reportText,
		Timestamp: time.Now().UTC(),
	})
}

// Broadcast pushes one event to every connected client. Clients that fail
// the write are dropped.
func (h *Hub) Broadcast(event StreamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			logger.WithError(err).Warn("Dropping slow websocket subscriber")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// handleWS upgrades the connection and keeps it registered until the client
// goes away. Incoming messages are discarded; the stream is one-way.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Error("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

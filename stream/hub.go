package stream

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

const (
	// bufferSize is the default buffer size for channels.
	bufferSize = 64
	// welcomeText is the handshake payload sent to every new subscriber.
	welcomeText = "connected to the real-time market stream"
)

// HubConfig represents the configuration for the subscriber hub.
type HubConfig struct {
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Hub fans broadcast messages out to all connected websocket subscribers.
// Delivery is fire and forget, subscribers connecting mid-cycle only receive
// subsequent batches and dead connections are dropped on write failure.
type Hub struct {
	cfg        *HubConfig
	upgrader   websocket.Upgrader
	broadcasts chan shared.Message

	clientsMtx  sync.Mutex
	clients     map[*websocket.Conn]bool
	subscribers atomic.Int32
}

// Ensure the hub implements the Publisher interface.
var _ shared.Publisher = (*Hub)(nil)

// NewHub initializes a new subscriber hub.
func NewHub(cfg *HubConfig) (*Hub, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		broadcasts: make(chan shared.Message, bufferSize),
		clients:    make(map[*websocket.Conn]bool),
	}, nil
}

// HandleWebsocket upgrades the provided request to a websocket subscription.
// Every new subscriber immediately receives a welcome frame.
func (h *Hub) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.cfg.Logger.Error().Msgf("upgrading subscriber connection: %v", err)
		return
	}

	welcome := shared.Message{Type: shared.WelcomeMessage, Data: welcomeText}

	h.clientsMtx.Lock()
	h.clients[conn] = true
	err = conn.WriteJSON(welcome)
	h.clientsMtx.Unlock()
	h.subscribers.Add(1)

	if err != nil {
		h.remove(conn)
		return
	}

	h.cfg.Logger.Info().Msgf("subscriber connected, %d active", h.subscribers.Load())

	// Drain the connection to detect disconnects, inbound payloads are
	// discarded.
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				h.remove(conn)
				return
			}
		}
	}()
}

// remove drops the provided subscriber connection.
func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMtx.Lock()
	defer h.clientsMtx.Unlock()

	if h.clients[conn] {
		delete(h.clients, conn)
		h.subscribers.Sub(1)
		conn.Close()
	}
}

// Broadcast relays the provided message for publication to all connected
// subscribers.
func (h *Hub) Broadcast(msg shared.Message) {
	select {
	case h.broadcasts <- msg:
		// do nothing.
	default:
		h.cfg.Logger.Error().Msgf("broadcast channel at capacity: %d/%d",
			len(h.broadcasts), bufferSize)
	}
}

// SubscriberCount returns the number of currently connected subscribers.
func (h *Hub) SubscriberCount() int {
	return int(h.subscribers.Load())
}

// publish writes the provided message to every connected subscriber,
// dropping connections that fail.
func (h *Hub) publish(msg *shared.Message) {
	h.clientsMtx.Lock()
	defer h.clientsMtx.Unlock()

	for conn := range h.clients {
		err := conn.WriteJSON(msg)
		if err != nil {
			h.cfg.Logger.Error().Msgf("writing to subscriber: %v", err)
			delete(h.clients, conn)
			h.subscribers.Sub(1)
			conn.Close()
		}
	}
}

// Run manages the lifecycle processes of the hub.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case msg := <-h.broadcasts:
			h.publish(&msg)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// closeAll drops every subscriber connection.
func (h *Hub) closeAll() {
	h.clientsMtx.Lock()
	defer h.clientsMtx.Unlock()

	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
	h.subscribers.Store(0)
}

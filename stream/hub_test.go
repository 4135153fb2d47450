package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ghazalyy/SSIP-App/shared"
	"github.com/gorilla/websocket"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

func setupHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub, err := NewHub(&HubConfig{Logger: &log.Logger})
	assert.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebsocket))
	t.Cleanup(server.Close)

	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(time.Second * 5))

	var msg map[string]any
	err := conn.ReadJSON(&msg)
	assert.NoError(t, err)

	return msg
}

func TestHubConfigValidate(t *testing.T) {
	// Ensure a hub without a logger is rejected.
	_, err := NewHub(&HubConfig{})
	assert.Error(t, err)
}

func TestHubWelcomeOnConnect(t *testing.T) {
	hub, server := setupHub(t)

	// Ensure a new subscriber immediately receives the welcome frame.
	conn := dial(t, server)
	msg := readMessage(t, conn)
	assert.Equal(t, msg["type"], "WELCOME")
	assert.Equal(t, hub.SubscriberCount(), 1)
}

func TestHubBroadcast(t *testing.T) {
	hub, server := setupHub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	// Connect two subscribers and drain their welcome frames.
	first := dial(t, server)
	second := dial(t, server)
	readMessage(t, first)
	readMessage(t, second)

	// Ensure a broadcast reaches every connected subscriber.
	hub.Broadcast(shared.Message{
		Type: shared.AlertsMessage,
		Data: []shared.AlertEvent{{Symbol: "BBCA", Message: "bullish trend detected"}},
	})

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, msg["type"], "ALERTS")
	}

	// Ensure the hub drains on shutdown.
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("hub did not shut down")
	}
}

func TestHubDropsDeadSubscribers(t *testing.T) {
	hub, server := setupHub(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	conn := dial(t, server)
	readMessage(t, conn)
	assert.Equal(t, hub.SubscriberCount(), 1)

	// Ensure a closed subscriber is eventually dropped from the client set.
	conn.Close()

	deadline := time.Now().Add(time.Second * 5)
	for hub.SubscriberCount() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond * 10)
	}
	assert.Equal(t, hub.SubscriberCount(), 0)
}

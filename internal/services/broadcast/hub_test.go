package broadcast

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	conn := dialHub(t, hub)

	waitForClients(t, hub, 1)
	hub.Publish(EventNewReport, map[string]any{"id": 7})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket message: %v", err)
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.Type != EventNewReport {
		t.Fatalf("unexpected event type: %q", event.Type)
	}
}

func TestDisconnectedClientIsUnregistered(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	_ = conn.Close()
	waitForClients(t, hub, 0)

	// Publishing into an empty hub must not panic or block.
	hub.Publish(EventVoteUpdate, nil)
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected read error after hub close")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("expected zero clients after close, got %d", hub.ClientCount())
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d clients, have %d", want, hub.ClientCount())
}

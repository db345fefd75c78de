package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_JoinLeave(t *testing.T) {
	hub := NewHub()
	conn := &websocket.Conn{}

	assert.Equal(t, 0, hub.RoomSize("chat-1"))

	hub.Join("chat-1", conn)
	assert.Equal(t, 1, hub.RoomSize("chat-1"))
	assert.Equal(t, 0, hub.RoomSize("chat-2"))

	hub.Leave("chat-1", conn)
	assert.Equal(t, 0, hub.RoomSize("chat-1"))

	// leaving twice is harmless
	hub.Leave("chat-1", conn)
	assert.Equal(t, 0, hub.RoomSize("chat-1"))
}

func TestHub_BroadcastReachesJoinedConnection(t *testing.T) {
	hub := NewHub()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Join("chat-1", conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize("chat-1") == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, hub.RoomSize("chat-1"))

	sent := ChatEvent{ChatID: "chat-1", SenderID: "client-1", ReceiverID: "lawyer-1", Text: "hello", Timestamp: time.Now().UnixMilli()}
	hub.Broadcast("chat-1", sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got ChatEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, sent.Text, got.Text)
	assert.Equal(t, sent.SenderID, got.SenderID)
}

func TestHub_ConcurrentBroadcastsSerializeWrites(t *testing.T) {
	hub := NewHub()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Join("chat-1", conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize("chat-1") == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, hub.RoomSize("chat-1"))

	const senders = 8
	const perSender = 25

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(sender int) {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.Broadcast("chat-1", ChatEvent{ChatID: "chat-1", SenderID: "client-1", Text: "hello"})
			}
		}(i)
	}

	// every frame must arrive intact while the senders race
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < senders*perSender; i++ {
		var got ChatEvent
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "hello", got.Text)
	}
	wg.Wait()
}

func TestHub_BroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub()
	// no connections joined, nothing to deliver to
	hub.Broadcast("chat-none", ChatEvent{Text: "lost"})
	assert.Equal(t, 0, hub.RoomSize("chat-none"))
}

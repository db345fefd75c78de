package handlers

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub is the in-memory registry of websocket connections, keyed by chat
// session ID. It is created once at router construction and handed to every
// consumer explicitly; nothing reaches it through package state.
// Gorilla connections support at most one concurrent writer, so each
// connection carries a write mutex held around every send.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*websocket.Conn]*sync.Mutex
}

// NewHub returns an empty connection registry
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*websocket.Conn]*sync.Mutex),
	}
}

// Join registers a connection under a chat session ID
func (h *Hub) Join(chatID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[chatID] == nil {
		h.rooms[chatID] = make(map[*websocket.Conn]*sync.Mutex)
	}
	if h.rooms[chatID][conn] == nil {
		h.rooms[chatID][conn] = &sync.Mutex{}
	}
}

// Leave removes a connection from a chat session's room. Empty rooms are
// dropped from the registry.
func (h *Hub) Leave(chatID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[chatID]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// Broadcast sends a payload to every connection in a chat session's room,
// including the sender's own connection. Connections that fail to write are
// evicted.
func (h *Hub) Broadcast(chatID string, payload interface{}) {
	type member struct {
		conn *websocket.Conn
		wmu  *sync.Mutex
	}

	h.mu.RLock()
	members := make([]member, 0, len(h.rooms[chatID]))
	for conn, wmu := range h.rooms[chatID] {
		members = append(members, member{conn: conn, wmu: wmu})
	}
	h.mu.RUnlock()

	for _, m := range members {
		m.wmu.Lock()
		err := m.conn.WriteJSON(payload)
		m.wmu.Unlock()
		if err != nil {
			zap.S().Warnw("failed to write to websocket, evicting", "chatID", chatID, "error", err)
			m.conn.Close()
			h.Leave(chatID, m.conn)
		}
	}
}

// RoomSize reports how many connections are joined to a chat session
func (h *Hub) RoomSize(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lexlink/lexlink-api/api"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatEvent is the wire format relayed between chat participants. The relay
// echoes events to every joined connection, the sender included, so clients
// confirm delivery by seeing their own event come back.
type ChatEvent struct {
	ChatID     string `json:"chatId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// ChatSocket exported for testing purposes
type ChatSocket struct {
	Hub *Hub
	MDB databases.MessageDatabase
	SDB databases.ChatSessionDatabase
}

// ServeWS upgrades the connection and joins the caller to a chat session's
// room. The caller identifies itself with chatId and userId query parameters
// and must be a participant of an active session. Every event read off the
// socket is rebroadcast to the room and persisted; persistence failures are
// logged without interrupting the relay.
func (cs ChatSocket) ServeWS(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chatId")
	userID := r.URL.Query().Get("userId")
	if chatID == "" || userID == "" {
		http.Error(w, "chatId and userId query parameters are required", http.StatusBadRequest)
		return
	}

	sID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		http.Error(w, "invalid chatId", http.StatusBadRequest)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sess, err := cs.SDB.FindOne(ctx, bson.M{"_id": sID})
	if err != nil {
		http.Error(w, "chat session not found", http.StatusNotFound)
		return
	}
	if !sess.IsActive {
		http.Error(w, "chat session is not active", http.StatusConflict)
		return
	}
	if userID != sess.ClientID && userID != sess.LawyerID {
		http.Error(w, "not a participant of this chat session", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("failed to upgrade websocket", "chatID", chatID, "error", err)
		return
	}

	cs.Hub.Join(chatID, conn)
	zap.S().Infow("websocket joined", "chatID", chatID, "userID", userID)

	defer func() {
		cs.Hub.Leave(chatID, conn)
		conn.Close()
		zap.S().Infow("websocket left", "chatID", chatID, "userID", userID)
	}()

	for {
		var event ChatEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.S().Warnw("websocket read error", "chatID", chatID, "error", err)
			}
			return
		}

		event.ChatID = chatID
		event.SenderID = userID
		if event.Timestamp == 0 {
			event.Timestamp = time.Now().UnixMilli()
		}
		if event.ReceiverID == "" {
			if userID == sess.ClientID {
				event.ReceiverID = sess.LawyerID
			} else {
				event.ReceiverID = sess.ClientID
			}
		}

		cs.Hub.Broadcast(chatID, event)

		go cs.persistEvent(event)
	}
}

// persistEvent stores a relayed event as a Message. The relay does not wait
// on the write: delivery and persistence are independent.
func (cs ChatSocket) persistEvent(event ChatEvent) {
	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	msg := models.Message{
		ID:            primitive.NewObjectID(),
		ChatSessionID: event.ChatID,
		SenderID:      event.SenderID,
		ReceiverID:    event.ReceiverID,
		Text:          event.Text,
		IsRead:        false,
		CreatedAt:     primitive.NewDateTimeFromTime(time.UnixMilli(event.Timestamp)),
	}

	if _, err := cs.MDB.InsertOne(ctx, msg); err != nil {
		zap.S().Errorw("failed to persist chat event", "chatID", event.ChatID, "error", err)
	}
}

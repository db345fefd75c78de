package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lexlink/lexlink-api/api"
	"github.com/lexlink/lexlink-api/config"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/models"
)

// Message exported for testing purposes
type Message struct {
	DB  databases.MessageDatabase
	SDB databases.ChatSessionDatabase
}

// MessageCreateRequest is the request body for sending a chat message
type MessageCreateRequest struct {
	ChatSessionID string `json:"chatSessionID"`
	SenderID      string `json:"senderID"`
	Text          string `json:"text"`
}

// CreateMessageHandler appends a message to an active chat session. The
// sender must be one of the session's participants; the receiver is derived
// as the other participant. New messages start unread.
func (m Message) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req MessageCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Text == "" {
		config.ErrorStatus("text is required", http.StatusBadRequest, w, fmt.Errorf("empty message text"))
		return
	}

	sID, err := primitive.ObjectIDFromHex(req.ChatSessionID)
	if err != nil {
		config.ErrorStatus("invalid chatSessionID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sess, err := m.SDB.FindOne(ctx, bson.M{"_id": sID})
	if err != nil {
		config.ErrorStatus("chat session not found", http.StatusNotFound, w, err)
		return
	}
	if !sess.IsActive {
		config.ErrorStatus("chat session is not active", http.StatusConflict, w, fmt.Errorf("session %s has ended", req.ChatSessionID))
		return
	}

	var receiverID string
	switch req.SenderID {
	case sess.ClientID:
		receiverID = sess.LawyerID
	case sess.LawyerID:
		receiverID = sess.ClientID
	default:
		config.ErrorStatus("sender is not a participant", http.StatusForbidden, w,
			fmt.Errorf("user %s is not part of session %s", req.SenderID, req.ChatSessionID))
		return
	}

	msg := models.Message{
		ID:            primitive.NewObjectID(),
		ChatSessionID: req.ChatSessionID,
		SenderID:      req.SenderID,
		ReceiverID:    receiverID,
		Text:          req.Text,
		IsRead:        false,
		CreatedAt:     primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := m.DB.InsertOne(ctx, msg); err != nil {
		config.ErrorStatus("failed to create message", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(msg)
}

// MarkMessageReadHandler marks a message as read
func (m Message) MarkMessageReadHandler(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["message_id"]

	mID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := m.DB.UpdateOne(ctx, bson.M{"_id": mID}, bson.M{"$set": bson.M{"isRead": true}}); err != nil {
		config.ErrorStatus("failed to mark message read", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Message marked read"})
}

// MessagesByChatSessionHandler returns all messages in a chat session in
// chronological order
func (m Message) MessagesByChatSessionHandler(w http.ResponseWriter, r *http.Request) {
	chatSessionID := mux.Vars(r)["chat_session_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	dbResp, err := m.DB.Find(ctx, bson.M{"chatSessionID": chatSessionID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get messages for chat session", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Message{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

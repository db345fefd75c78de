package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lexlink/lexlink-api/api"
	"github.com/lexlink/lexlink-api/config"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/models"
)

// ChatSession exported for testing purposes
type ChatSession struct {
	DB  databases.ChatSessionDatabase
	PDB databases.PaymentDatabase
	MDB databases.MessageDatabase
}

// ActivateSessionHandler opens the chat channel for a consultation once its
// payment has settled as successful. Activation is idempotent: if an active
// session already exists for the consultation it is returned instead of a
// second one being created. The payment is back-filled with the session ID.
func (c ChatSession) ActivateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConsultationID string `json:"consultationID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.ConsultationID == "" {
		config.ErrorStatus("consultationID is required", http.StatusBadRequest, w, fmt.Errorf("missing consultationID"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	payment, err := c.PDB.FindOne(ctx, bson.M{"consultationID": req.ConsultationID, "status": models.PaymentStatusSuccessful})
	if err != nil {
		// any payment at all means it exists but has not settled yet
		if pending, pErr := c.PDB.FindOne(ctx, bson.M{"consultationID": req.ConsultationID}); pErr == nil {
			config.ErrorStatus("payment has not succeeded", http.StatusConflict, w,
				fmt.Errorf("payment status is %q", pending.Status))
			return
		}
		config.ErrorStatus("no payment found for consultation", http.StatusNotFound, w, err)
		return
	}

	existing, _ := c.DB.FindOne(ctx, bson.M{"consultationID": payment.ConsultationID, "isActive": true})
	if existing != nil {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(existing)
		return
	}

	sess := models.ChatSession{
		ID:             primitive.NewObjectID(),
		ConsultationID: payment.ConsultationID,
		ClientID:       payment.ClientID,
		LawyerID:       payment.LawyerID,
		IsActive:       true,
		CreatedAt:      primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := c.DB.InsertOne(ctx, sess); err != nil {
		config.ErrorStatus("failed to create chat session", http.StatusInternalServerError, w, err)
		return
	}

	err = c.PDB.UpdateOne(ctx, bson.M{"_id": payment.ID}, bson.M{"$set": bson.M{
		"chatSessionID": sess.ID.Hex(),
		"updatedAt":     primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		// session exists, link is best-effort
		zap.S().Errorw("failed to back-fill payment with chat session", "paymentID", payment.ID.Hex(), "error", err)
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(sess)
}

// ChatSessionByIDHandler returns a chat session by ID
func (c ChatSession) ChatSessionByIDHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	sID, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.FindOne(ctx, bson.M{"_id": sID})
	if err != nil {
		config.ErrorStatus("failed to get chat session by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// EndSessionHandler deactivates a chat session. Ending an already
// ended session is a no-op success.
func (c ChatSession) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	sID, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sess, err := c.DB.FindOne(ctx, bson.M{"_id": sID})
	if err != nil {
		config.ErrorStatus("failed to get chat session by ID", http.StatusNotFound, w, err)
		return
	}

	if !sess.IsActive {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(sess)
		return
	}

	endedAt := primitive.NewDateTimeFromTime(time.Now())
	err = c.DB.UpdateOne(ctx, bson.M{"_id": sID}, bson.M{"$set": bson.M{
		"isActive": false,
		"endedAt":  endedAt,
	}})
	if err != nil {
		config.ErrorStatus("failed to end chat session", http.StatusInternalServerError, w, err)
		return
	}

	sess.IsActive = false
	sess.EndedAt = endedAt
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(sess)
}

// DeleteSessionHandler deletes a chat session and all of its messages. Only
// the client who owns the session may delete it.
func (c ChatSession) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]
	requesterID := r.URL.Query().Get("userId")

	sID, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	if requesterID == "" {
		config.ErrorStatus("userId query parameter is required", http.StatusBadRequest, w, fmt.Errorf("missing userId"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sess, err := c.DB.FindOne(ctx, bson.M{"_id": sID})
	if err != nil {
		config.ErrorStatus("failed to get chat session by ID", http.StatusNotFound, w, err)
		return
	}
	if sess.ClientID != requesterID {
		// sessions owned by other clients are invisible to the caller
		config.ErrorStatus("chat session not found", http.StatusNotFound, w,
			fmt.Errorf("user %s does not own session %s", requesterID, sessionID))
		return
	}

	// messages go first so a failed cascade leaves the session to retry through
	deleted, err := c.MDB.DeleteMany(ctx, bson.M{"chatSessionID": sessionID})
	if err != nil {
		config.ErrorStatus("failed to delete chat messages", http.StatusInternalServerError, w, err)
		return
	}

	if err := c.DB.DeleteOne(ctx, bson.M{"_id": sID}); err != nil {
		config.ErrorStatus("failed to delete chat session", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("deleted chat session", "sessionID", sessionID, "messagesDeleted", deleted)

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message":         "Chat session deleted",
		"messagesDeleted": deleted,
	})
}

// ChatSessionsByUserIDHandler returns all chat sessions a user participates in,
// as client or as lawyer
func (c ChatSession) ChatSessionsByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, bson.M{"$or": []bson.M{
		{"clientID": userID},
		{"lawyerID": userID},
	}})
	if err != nil {
		config.ErrorStatus("failed to get chat sessions for user", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.ChatSession{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lexlink/lexlink-api/api/handlers"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/databases/mocks"
	"github.com/lexlink/lexlink-api/models"
)

func newMessageHandler(msgConn, sessConn databases.CollectionHelper) handlers.Message {
	db := &MockDatabaseHelper{}
	db.On("Collection", "messages").Return(msgConn)
	db.On("Collection", "chatsessions").Return(sessConn)
	return handlers.Message{
		DB:  databases.NewMessageDatabase(db),
		SDB: databases.NewChatSessionDatabase(db),
	}
}

func TestMessage_CreateMessageHandlerInactiveSession(t *testing.T) {
	sessConn := &mocks.CollectionHelper{}
	sessResult := &mocks.SingleResultHelper{}
	sessResult.On("Decode", mock.Anything).Return(nil).Run(chatSessionDoc(false))
	sessConn.On("FindOne", mock.Anything, mock.Anything).Return(sessResult)

	m := newMessageHandler(&mocks.CollectionHelper{}, sessConn)

	body := `{"chatSessionID":"` + primitive.NewObjectID().Hex() + `","senderID":"client-1","text":"hello"}`
	req, _ := http.NewRequest("POST", "/api/v1/message", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "not active")
}

func TestMessage_CreateMessageHandlerNotParticipant(t *testing.T) {
	sessConn := &mocks.CollectionHelper{}
	sessResult := &mocks.SingleResultHelper{}
	sessResult.On("Decode", mock.Anything).Return(nil).Run(chatSessionDoc(true))
	sessConn.On("FindOne", mock.Anything, mock.Anything).Return(sessResult)

	m := newMessageHandler(&mocks.CollectionHelper{}, sessConn)

	body := `{"chatSessionID":"` + primitive.NewObjectID().Hex() + `","senderID":"intruder","text":"hello"}`
	req, _ := http.NewRequest("POST", "/api/v1/message", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "not a participant")
}

func TestMessage_CreateMessageHandlerDerivesReceiver(t *testing.T) {
	sessConn := &mocks.CollectionHelper{}
	sessResult := &mocks.SingleResultHelper{}
	sessResult.On("Decode", mock.Anything).Return(nil).Run(chatSessionDoc(true))
	sessConn.On("FindOne", mock.Anything, mock.Anything).Return(sessResult)

	msgConn := &mocks.CollectionHelper{}
	msgConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	m := newMessageHandler(msgConn, sessConn)

	body := `{"chatSessionID":"` + primitive.NewObjectID().Hex() + `","senderID":"lawyer-1","text":"hello"}`
	req, _ := http.NewRequest("POST", "/api/v1/message", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var created models.Message
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "client-1", created.ReceiverID)
	assert.False(t, created.IsRead)
}

func TestMessage_CreateMessageHandlerEmptyText(t *testing.T) {
	m := newMessageHandler(&mocks.CollectionHelper{}, &mocks.CollectionHelper{})

	body := `{"chatSessionID":"` + primitive.NewObjectID().Hex() + `","senderID":"client-1","text":""}`
	req, _ := http.NewRequest("POST", "/api/v1/message", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMessageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMessage_MessagesByChatSessionHandlerOrdered(t *testing.T) {
	now := time.Now()
	msgs := []models.Message{
		{ID: primitive.NewObjectID(), ChatSessionID: "chat-1", Text: "first", CreatedAt: primitive.NewDateTimeFromTime(now.Add(-2 * time.Minute))},
		{ID: primitive.NewObjectID(), ChatSessionID: "chat-1", Text: "second", CreatedAt: primitive.NewDateTimeFromTime(now.Add(-1 * time.Minute))},
		{ID: primitive.NewObjectID(), ChatSessionID: "chat-1", Text: "third", CreatedAt: primitive.NewDateTimeFromTime(now)},
	}

	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Message)
		*arg = msgs
	})
	cursor.On("Close", mock.Anything).Return(nil)

	msgConn := &mocks.CollectionHelper{}
	msgConn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)

	m := newMessageHandler(msgConn, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("GET", "/api/v1/messages/chat/chat-1", nil)
	req = mux.SetURLVars(req, map[string]string{"chat_session_id": "chat-1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MessagesByChatSessionHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.Message
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "third", got[2].Text)
}

func TestMessage_MarkMessageReadHandler(t *testing.T) {
	msgConn := &mocks.CollectionHelper{}
	msgConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	m := newMessageHandler(msgConn, &mocks.CollectionHelper{})

	req, _ := http.NewRequest("PUT", "/api/v1/message/x/read", nil)
	req = mux.SetURLVars(req, map[string]string{"message_id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MarkMessageReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	msgConn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

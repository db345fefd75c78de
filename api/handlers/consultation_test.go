package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lexlink/lexlink-api/api/handlers"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/databases/mocks"
	"github.com/lexlink/lexlink-api/models"
)

type MockDatabaseHelper struct {
	mock.Mock
}

// Client provides a mock function.
func (_m *MockDatabaseHelper) Client() databases.ClientHelper {
	ret := _m.Called()

	var r0 databases.ClientHelper
	if rf, ok := ret.Get(0).(func() databases.ClientHelper); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.ClientHelper)
		}
	}

	return r0
}

// Collection provides a mock function.
func (_m *MockDatabaseHelper) Collection(name string) databases.CollectionHelper {
	ret := _m.Called(name)

	var r0 databases.CollectionHelper
	if rf, ok := ret.Get(0).(func(string) databases.CollectionHelper); ok {
		r0 = rf(name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.CollectionHelper)
		}
	}

	return r0
}

func consultationWithStatus(status string) func(args mock.Arguments) {
	return func(args mock.Arguments) {
		arg := args.Get(0).(**models.Consultation)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Details.ClientID = "client-1"
		(*arg).Details.LawyerID = "lawyer-1"
		(*arg).Details.Status = status
	}
}

func newConsultationHandler(conn databases.CollectionHelper) handlers.Consultation {
	db := &MockDatabaseHelper{}
	db.On("Collection", "consultations").Return(conn)
	db.On("Collection", "users").Return(conn)
	return handlers.Consultation{
		DB:  databases.NewConsultationDatabase(db),
		UDB: databases.NewUserDatabase(db),
	}
}

func TestConsultation_CreateConsultationHandlerBadBody(t *testing.T) {
	c := newConsultationHandler(&mocks.CollectionHelper{})

	req, _ := http.NewRequest("POST", "/api/v1/consultation", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateConsultationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestConsultation_CreateConsultationHandlerDurationOutOfRange(t *testing.T) {
	c := newConsultationHandler(&mocks.CollectionHelper{})

	body := `{"clientID":"client-1","lawyerID":"lawyer-1","date":"2026-09-10","time":"14:00","durationMinutes":5}`
	req, _ := http.NewRequest("POST", "/api/v1/consultation", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateConsultationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "durationMinutes out of range")
}

func TestConsultation_CreateConsultationHandlerBadDate(t *testing.T) {
	c := newConsultationHandler(&mocks.CollectionHelper{})

	body := `{"clientID":"client-1","lawyerID":"lawyer-1","date":"next tuesday","time":"14:00","durationMinutes":60}`
	req, _ := http.NewRequest("POST", "/api/v1/consultation", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateConsultationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid date or time")
}

func TestConsultation_ConsultationByIDHandlerBadID(t *testing.T) {
	c := newConsultationHandler(&mocks.CollectionHelper{})

	req, _ := http.NewRequest("GET", "/api/v1/consultation/asdf", nil)
	req = mux.SetURLVars(req, map[string]string{"consultation_id": "asdf"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ConsultationByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestConsultation_UpdateConsultationStatusHandlerInvalidStatus(t *testing.T) {
	c := newConsultationHandler(&mocks.CollectionHelper{})

	body := `{"status":"Done"}`
	req, _ := http.NewRequest("PUT", "/api/v1/consultation/x/status", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"consultation_id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.UpdateConsultationStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid status")
}

func TestConsultation_UpdateConsultationStatusHandlerIdempotentRepeat(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	singleResult := &mocks.SingleResultHelper{}
	singleResult.On("Decode", mock.Anything).Return(nil).Run(consultationWithStatus(models.ConsultationStatusCompleted))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)

	c := newConsultationHandler(conn)

	body := `{"status":"Completed"}`
	req, _ := http.NewRequest("PUT", "/api/v1/consultation/x/status", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"consultation_id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.UpdateConsultationStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	conn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsultation_UpdateConsultationStatusHandlerTerminalConflict(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	singleResult := &mocks.SingleResultHelper{}
	singleResult.On("Decode", mock.Anything).Return(nil).Run(consultationWithStatus(models.ConsultationStatusCancelled))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)

	c := newConsultationHandler(conn)

	body := `{"status":"Completed"}`
	req, _ := http.NewRequest("PUT", "/api/v1/consultation/x/status", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"consultation_id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.UpdateConsultationStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already finalized")
}

func TestConsultation_UpdateConsultationStatusHandlerScheduledToCompleted(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	singleResult := &mocks.SingleResultHelper{}
	singleResult.On("Decode", mock.Anything).Return(nil).Run(consultationWithStatus(models.ConsultationStatusScheduled))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	c := newConsultationHandler(conn)

	body := `{"status":"Completed"}`
	req, _ := http.NewRequest("PUT", "/api/v1/consultation/x/status", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"consultation_id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.UpdateConsultationStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), models.ConsultationStatusCompleted)
	conn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsultation_UpdateConsultationStatusHandlerBackToScheduled(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	singleResult := &mocks.SingleResultHelper{}
	singleResult.On("Decode", mock.Anything).Return(nil).Run(consultationWithStatus(models.ConsultationStatusScheduled))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)

	c := newConsultationHandler(conn)

	body := `{"status":"Scheduled"}`
	req, _ := http.NewRequest("PUT", "/api/v1/consultation/x/status", bytes.NewBufferString(body))
	req = mux.SetURLVars(req, map[string]string{"consultation_id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.UpdateConsultationStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	conn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsultation_ConsultationByIDHandlerNotFound(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	singleResult := &mocks.SingleResultHelper{}
	singleResult.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)

	c := newConsultationHandler(conn)

	req, _ := http.NewRequest("GET", "/api/v1/consultation/x", nil)
	req = mux.SetURLVars(req, map[string]string{"consultation_id": primitive.NewObjectID().Hex()})
	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ConsultationByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

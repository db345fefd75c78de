package handlers_test

import (
	"bytes"
	"encoding/json"
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

func lawyerUserDoc(args mock.Arguments) {
	arg := args.Get(0).(**models.User)
	(*arg).ID = "lawyer-1"
	(*arg).Details.Name = "Jordan Reyes"
	(*arg).Details.Role = models.RoleLawyer
}

func TestReview_CreateReviewHandlerRatingOutOfRange(t *testing.T) {
	rv := handlers.Review{DB: databases.NewReviewDatabase(&MockDatabaseHelper{}), UDB: databases.NewUserDatabase(&MockDatabaseHelper{})}

	for _, rating := range []int{0, 6, -1} {
		body, _ := json.Marshal(map[string]interface{}{
			"clientID": "client-1", "lawyerID": "lawyer-1", "rating": rating, "comment": "great",
		})
		req, _ := http.NewRequest("POST", "/api/v1/review", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		http.HandlerFunc(rv.CreateReviewHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "rating must be between 1 and 5")
	}
}

func TestReview_CreateReviewHandlerEmptyComment(t *testing.T) {
	rv := handlers.Review{DB: databases.NewReviewDatabase(&MockDatabaseHelper{}), UDB: databases.NewUserDatabase(&MockDatabaseHelper{})}

	body := `{"clientID":"client-1","lawyerID":"lawyer-1","rating":4,"comment":""}`
	req, _ := http.NewRequest("POST", "/api/v1/review", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.CreateReviewHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "comment is required")
}

func TestReview_CreateReviewHandlerSelfReview(t *testing.T) {
	rv := handlers.Review{DB: databases.NewReviewDatabase(&MockDatabaseHelper{}), UDB: databases.NewUserDatabase(&MockDatabaseHelper{})}

	body := `{"clientID":"lawyer-1","lawyerID":"lawyer-1","rating":5,"comment":"outstanding"}`
	req, _ := http.NewRequest("POST", "/api/v1/review", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.CreateReviewHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot review yourself")
}

func TestReview_CreateReviewHandlerSuccess(t *testing.T) {
	userConn := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	userResult.On("Decode", mock.Anything).Return(nil).Run(lawyerUserDoc)
	userConn.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	revConn := &mocks.CollectionHelper{}
	revConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	db := &MockDatabaseHelper{}
	db.On("Collection", "users").Return(userConn)
	db.On("Collection", "reviews").Return(revConn)

	rv := handlers.Review{DB: databases.NewReviewDatabase(db), UDB: databases.NewUserDatabase(db)}

	body := `{"clientID":"client-1","lawyerID":"lawyer-1","rating":5,"comment":"clear advice, quick turnaround"}`
	req, _ := http.NewRequest("POST", "/api/v1/review", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.CreateReviewHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"rating":5`)
	revConn.AssertCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestReview_ReviewsByLawyerIDHandlerAverage(t *testing.T) {
	reviews := []models.Review{
		{ID: primitive.NewObjectID(), LawyerID: "lawyer-1", Rating: 5, Comment: "excellent"},
		{ID: primitive.NewObjectID(), LawyerID: "lawyer-1", Rating: 4, Comment: "good"},
		{ID: primitive.NewObjectID(), LawyerID: "lawyer-1", Rating: 3, Comment: "fine"},
	}

	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Review)
		*arg = reviews
	})
	cursor.On("Close", mock.Anything).Return(nil)

	revConn := &mocks.CollectionHelper{}
	revConn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)

	db := &MockDatabaseHelper{}
	db.On("Collection", "reviews").Return(revConn)

	rv := handlers.Review{DB: databases.NewReviewDatabase(db), UDB: databases.NewUserDatabase(db)}

	req, _ := http.NewRequest("GET", "/api/v1/reviews/lawyer/lawyer-1", nil)
	req = mux.SetURLVars(req, map[string]string{"lawyer_id": "lawyer-1"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.ReviewsByLawyerIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		AverageRating float64         `json:"averageRating"`
		Count         int             `json:"count"`
		Reviews       []models.Review `json:"reviews"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 4.0, resp.AverageRating)
	assert.Equal(t, 3, resp.Count)
	assert.Len(t, resp.Reviews, 3)
}

func TestReview_DeleteReviewHandlerBadID(t *testing.T) {
	rv := handlers.Review{DB: databases.NewReviewDatabase(&MockDatabaseHelper{}), UDB: databases.NewUserDatabase(&MockDatabaseHelper{})}

	req, _ := http.NewRequest("DELETE", "/api/v1/admin/review/asdf", nil)
	req = mux.SetURLVars(req, map[string]string{"review_id": "asdf"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(rv.DeleteReviewHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

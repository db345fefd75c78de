package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexlink/lexlink-api/api/handlers"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/databases/mocks"
	"github.com/lexlink/lexlink-api/models"
)

func newAdminHandler(db databases.DatabaseHelper) handlers.Admin {
	return handlers.Admin{
		ADB: databases.NewAdminDatabase(db),
		RDB: databases.NewAdminResetDatabase(db),
		UDB: databases.NewUserDatabase(db),
		PDB: databases.NewPaymentDatabase(db),
	}
}

func TestAdmin_AdminLoginHandlerUnknownEmail(t *testing.T) {
	adminConn := &mocks.CollectionHelper{}
	adminResult := &mocks.SingleResultHelper{}
	adminResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	adminConn.On("FindOne", mock.Anything, mock.Anything).Return(adminResult)

	db := &MockDatabaseHelper{}
	db.On("Collection", "admins").Return(adminConn)

	adm := newAdminHandler(db)

	body := `{"email":"nobody@lexlink.legal","password":"wrong"}`
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid credentials")
}

func TestAdmin_AdminLoginHandlerWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)

	adminConn := &mocks.CollectionHelper{}
	adminResult := &mocks.SingleResultHelper{}
	adminResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.AdminUser)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Email = "admin@lexlink.legal"
		(*arg).PasswordHash = string(hash)
		(*arg).Active = true
	})
	adminConn.On("FindOne", mock.Anything, mock.Anything).Return(adminResult)

	db := &MockDatabaseHelper{}
	db.On("Collection", "admins").Return(adminConn)

	adm := newAdminHandler(db)

	body := `{"email":"admin@lexlink.legal","password":"wrong"}`
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_AdminLoginHandlerIssuesToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)

	adminConn := &mocks.CollectionHelper{}
	adminResult := &mocks.SingleResultHelper{}
	adminResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.AdminUser)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Email = "admin@lexlink.legal"
		(*arg).PasswordHash = string(hash)
		(*arg).Active = true
		(*arg).Roles = []string{"superadmin"}
	})
	adminConn.On("FindOne", mock.Anything, mock.Anything).Return(adminResult)

	db := &MockDatabaseHelper{}
	db.On("Collection", "admins").Return(adminConn)

	adm := newAdminHandler(db)

	body := `{"email":"admin@lexlink.legal","password":"correct-password"}`
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "token")
}

func TestAdmin_AdminForgotPasswordHandlerUnknownEmailStillOK(t *testing.T) {
	adminConn := &mocks.CollectionHelper{}
	adminResult := &mocks.SingleResultHelper{}
	adminResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	adminConn.On("FindOne", mock.Anything, mock.Anything).Return(adminResult)

	db := &MockDatabaseHelper{}
	db.On("Collection", "admins").Return(adminConn)

	adm := newAdminHandler(db)

	body := `{"email":"nobody@lexlink.legal"}`
	req, _ := http.NewRequest("POST", "/api/v1/admin/forgot-password", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminForgotPasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "If that email exists")
}

func TestAdmin_AdminResetPasswordHandlerShortPassword(t *testing.T) {
	adm := newAdminHandler(&MockDatabaseHelper{})

	body := `{"token":"abc","newPassword":"short"}`
	req, _ := http.NewRequest("POST", "/api/v1/admin/reset-password", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminResetPasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "at least 8 characters")
}

func TestAdmin_AdminResetPasswordHandlerBadToken(t *testing.T) {
	resetConn := &mocks.CollectionHelper{}
	resetResult := &mocks.SingleResultHelper{}
	resetResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	resetConn.On("FindOne", mock.Anything, mock.Anything).Return(resetResult)

	db := &MockDatabaseHelper{}
	db.On("Collection", "adminresets").Return(resetConn)

	adm := newAdminHandler(db)

	body := `{"token":"not-a-real-token","newPassword":"longenoughpassword"}`
	req, _ := http.NewRequest("POST", "/api/v1/admin/reset-password", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminResetPasswordHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid or used reset token")
}

func TestAdmin_AdminListPaymentsHandlerInvalidStatus(t *testing.T) {
	adm := newAdminHandler(&MockDatabaseHelper{})

	req, _ := http.NewRequest("GET", "/api/v1/admin/payments?status=refunded", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminListPaymentsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdmin_AdminListPaymentsHandlerSortsNewestFirst(t *testing.T) {
	payments := []models.Payment{
		{ID: primitive.NewObjectID(), ClientID: "client-1", Status: models.PaymentStatusSuccessful, TransactionID: "txn-1"},
	}

	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Payment)
		*arg = payments
	})
	cursor.On("Close", mock.Anything).Return(nil)

	payConn := &mocks.CollectionHelper{}
	payConn.On("Find", mock.Anything, mock.Anything, mock.MatchedBy(func(opts *options.FindOptions) bool {
		sort, ok := opts.Sort.(bson.M)
		return ok && sort["createdAt"] == -1
	})).Return(cursor, nil)

	db := &MockDatabaseHelper{}
	db.On("Collection", "payments").Return(payConn)

	adm := newAdminHandler(db)

	req, _ := http.NewRequest("GET", "/api/v1/admin/payments", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminListPaymentsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"transactionID":"txn-1"`)
}

func TestAdmin_AdminUserSearchHandlerEmptyQuery(t *testing.T) {
	adm := newAdminHandler(&MockDatabaseHelper{})

	body := `{"query":""}`
	req, _ := http.NewRequest("POST", "/api/v1/admin/users/search", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminUserSearchHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "query is required")
}

func TestAdmin_AdminUserSearchHandlerReturnsTrimmedUsers(t *testing.T) {
	users := []models.User{
		{ID: "user-1", Details: models.UserDetails{Email: "sam@example.com", Username: "sam", Name: "Sam", Role: models.RoleClient, Password: "hash"}},
	}

	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.User)
		*arg = users
	})
	cursor.On("Close", mock.Anything).Return(nil)

	userConn := &mocks.CollectionHelper{}
	userConn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)

	db := &MockDatabaseHelper{}
	db.On("Collection", "users").Return(userConn)

	adm := newAdminHandler(db)

	body := `{"query":"sam"}`
	req, _ := http.NewRequest("POST", "/api/v1/admin/users/search", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(adm.AdminUserSearchHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sam@example.com")
	assert.NotContains(t, rr.Body.String(), "hash")
}

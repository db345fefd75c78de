package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexlink/lexlink-api/api"
	"github.com/lexlink/lexlink-api/config"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/models"
	templates "github.com/lexlink/lexlink-api/templates/html"
)

const adminResetTokenTTL = time.Hour

// Admin exported for testing purposes
type Admin struct {
	ADB databases.AdminDatabase
	RDB databases.AdminResetDatabase
	UDB databases.UserDatabase
	PDB databases.PaymentDatabase
}

// AdminLoginHandler authenticates an admin by email and password and returns
// a signed JWT
func (a Admin) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admin, err := a.ADB.FindOne(ctx, bson.M{"email": body.Email, "active": true})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, fmt.Errorf("no active admin for email"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(body.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, fmt.Errorf("password mismatch"))
		return
	}

	claims := jwt.MapClaims{
		"sub":   admin.ID.Hex(),
		"email": admin.Email,
		"roles": admin.Roles,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(12 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		config.ErrorStatus("failed to sign token", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"token": signed,
		"id":    admin.ID.Hex(),
	})
}

// AdminForgotPasswordHandler issues a password reset token and emails it to
// the admin. Only the token's SHA-256 digest is stored. The response is the
// same whether or not the email matched an admin.
func (a Admin) AdminForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admin, err := a.ADB.FindOne(ctx, bson.M{"email": body.Email, "active": true})
	if err == nil && admin != nil {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			config.ErrorStatus("failed to generate reset token", http.StatusInternalServerError, w, err)
			return
		}
		token := hex.EncodeToString(raw)
		digest := sha256.Sum256([]byte(token))

		reset := models.AdminPasswordReset{
			ID:        primitive.NewObjectID(),
			AdminID:   admin.ID,
			TokenHash: hex.EncodeToString(digest[:]),
			ExpiresAt: primitive.NewDateTimeFromTime(time.Now().Add(adminResetTokenTTL)),
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		}
		if _, err := a.RDB.InsertOne(ctx, reset); err != nil {
			config.ErrorStatus("failed to store reset token", http.StatusInternalServerError, w, err)
			return
		}

		go sendAdminResetEmail(admin.Email, token)
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "If that email exists, a reset link has been sent"})
}

// AdminResetPasswordHandler consumes a reset token and sets a new password.
// Tokens are single use and expire.
func (a Admin) AdminResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if len(body.NewPassword) < 8 {
		config.ErrorStatus("password must be at least 8 characters", http.StatusBadRequest, w, fmt.Errorf("password too short"))
		return
	}

	digest := sha256.Sum256([]byte(body.Token))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reset, err := a.RDB.FindOne(ctx, bson.M{
		"tokenHash": hex.EncodeToString(digest[:]),
		"usedAt":    bson.M{"$exists": false},
	})
	if err != nil {
		config.ErrorStatus("invalid or used reset token", http.StatusUnauthorized, w, fmt.Errorf("token not found"))
		return
	}
	if reset.ExpiresAt.Time().Before(time.Now()) {
		config.ErrorStatus("reset token has expired", http.StatusUnauthorized, w, fmt.Errorf("token expired"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	if _, err := a.ADB.UpdateOne(ctx, bson.M{"_id": reset.AdminID}, bson.M{"$set": bson.M{
		"passwordHash": string(hash),
		"updatedAt":    primitive.NewDateTimeFromTime(time.Now()),
	}}); err != nil {
		config.ErrorStatus("failed to update password", http.StatusInternalServerError, w, err)
		return
	}

	if _, err := a.RDB.UpdateOne(ctx, bson.M{"_id": reset.ID}, bson.M{"$set": bson.M{
		"usedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}); err != nil {
		zap.S().Errorw("failed to mark reset token used", "resetID", reset.ID.Hex(), "error", err)
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Password updated"})
}

// AdminUserSearchHandler searches users by email, username or name substring
func (a Admin) AdminUserSearchHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Query == "" {
		config.ErrorStatus("query is required", http.StatusBadRequest, w, fmt.Errorf("empty query"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	regex := bson.M{"$regex": body.Query, "$options": "i"}
	users, err := a.UDB.Find(ctx, bson.M{"$or": []bson.M{
		{"user.email": regex},
		{"user.username": regex},
		{"user.name": regex},
	}})
	if err != nil {
		config.ErrorStatus("failed to search users", http.StatusNotFound, w, err)
		return
	}

	results := make([]models.AdminUserResult, 0, len(users))
	for _, u := range users {
		results = append(results, models.AdminUserResult{
			ID:       u.ID,
			Email:    u.Details.Email,
			Username: u.Details.Username,
			Name:     u.Details.Name,
			Role:     u.Details.Role,
		})
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(results)
}

// AdminListPaymentsHandler returns payments across the platform, newest
// first, optionally filtered by status
func (a Admin) AdminListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if status != models.PaymentStatusPending && !models.TerminalPaymentStatus(status) {
			config.ErrorStatus("invalid payment status", http.StatusBadRequest, w, fmt.Errorf("unknown status %q", status))
			return
		}
		filter["status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	payments, err := a.PDB.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to list payments", http.StatusNotFound, w, err)
		return
	}
	if len(payments) == 0 {
		payments = []models.Payment{}
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payments)
}

func sendAdminResetEmail(toEmail, token string) {
	if os.Getenv("SENDGRID_API_KEY") == "" {
		return
	}
	conf := config.New()
	resetLink := fmt.Sprintf("%s/admin/reset-password?token=%s", conf.BaseUrl, token)
	from := mail.NewEmail("LexLink", "no-reply@lexlink.legal")
	subject := "Reset your LexLink admin password"
	to := mail.NewEmail("", toEmail)
	plain := "Use this link to reset your password: " + resetLink
	html := templates.RenderAdminPasswordReset(resetLink)
	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	if _, err := client.Send(msg); err != nil {
		zap.S().Warnw("failed to send admin reset email", "error", err)
	}
}

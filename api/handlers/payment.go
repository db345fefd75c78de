package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lexlink/lexlink-api/api"
	"github.com/lexlink/lexlink-api/config"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/models"
)

// Payment exported for testing purposes
type Payment struct {
	DB  databases.PaymentDatabase
	LDB databases.LawyerDatabase
	CDB databases.ConsultationDatabase
}

// PaymentCreateRequest is the request body for recording a payment
type PaymentCreateRequest struct {
	ConsultationID string  `json:"consultationID"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	TransactionID  string  `json:"transactionID"`
}

// CreatePaymentHandler records a payment against a consultation. The client
// and lawyer are copied off the consultation rather than trusted from the
// request. Reusing a transactionID is a conflict.
func (p Payment) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req PaymentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.ConsultationID == "" {
		config.ErrorStatus("consultationID is required", http.StatusBadRequest, w, fmt.Errorf("missing consultationID"))
		return
	}
	if req.Amount <= 0 {
		config.ErrorStatus("amount must be positive", http.StatusBadRequest, w, fmt.Errorf("amount %v out of range", req.Amount))
		return
	}
	if req.Status == "" {
		req.Status = models.PaymentStatusPending
	}
	if req.Status != models.PaymentStatusPending && !models.TerminalPaymentStatus(req.Status) {
		config.ErrorStatus("invalid payment status", http.StatusBadRequest, w, fmt.Errorf("unknown status %q", req.Status))
		return
	}
	if req.TransactionID == "" {
		req.TransactionID = uuid.NewString()
	}

	cID, err := primitive.ObjectIDFromHex(req.ConsultationID)
	if err != nil {
		config.ErrorStatus("invalid consultationID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	consultation, err := p.CDB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("consultation not found", http.StatusNotFound, w, err)
		return
	}

	existing, _ := p.DB.FindOne(ctx, bson.M{"transactionID": req.TransactionID})
	if existing != nil {
		config.ErrorStatus("transactionID already used", http.StatusConflict, w, fmt.Errorf("duplicate transactionID %q", req.TransactionID))
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	payment := models.Payment{
		ID:             primitive.NewObjectID(),
		ConsultationID: req.ConsultationID,
		ClientID:       consultation.Details.ClientID,
		LawyerID:       consultation.Details.LawyerID,
		Amount:         req.Amount,
		Status:         req.Status,
		TransactionID:  req.TransactionID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := p.DB.InsertOne(ctx, payment); err != nil {
		config.ErrorStatus("failed to create payment", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(payment)
}

// PaymentByIDHandler returns a payment by ID
func (p Payment) PaymentByIDHandler(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["payment_id"]

	pID, err := primitive.ObjectIDFromHex(paymentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := p.DB.FindOne(ctx, bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatus("failed to get payment by ID", http.StatusNotFound, w, err)
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

// UpdatePaymentStatusHandler settles a pending payment as successful or
// failed. A payment already in a terminal status is immutable.
func (p Payment) UpdatePaymentStatusHandler(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["payment_id"]

	pID, err := primitive.ObjectIDFromHex(paymentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if !models.TerminalPaymentStatus(body.Status) {
		config.ErrorStatus("status must be successful or failed", http.StatusBadRequest, w, fmt.Errorf("invalid status %q", body.Status))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	payment, err := p.DB.FindOne(ctx, bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatus("failed to get payment by ID", http.StatusNotFound, w, err)
		return
	}

	if payment.Status == body.Status {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(payment)
		return
	}
	if models.TerminalPaymentStatus(payment.Status) {
		config.ErrorStatus("payment is already settled", http.StatusConflict, w,
			fmt.Errorf("cannot move %q to %q", payment.Status, body.Status))
		return
	}

	err = p.DB.UpdateOne(ctx, bson.M{"_id": pID}, bson.M{"$set": bson.M{
		"status":    body.Status,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to update payment status", http.StatusInternalServerError, w, err)
		return
	}

	payment.Status = body.Status
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payment)
}

// PaymentsByClientIDHandler returns all payments made by a client
func (p Payment) PaymentsByClientIDHandler(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["client_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := p.DB.Find(ctx, bson.M{"clientID": clientID})
	if err != nil {
		config.ErrorStatus("failed to get payments for client", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Payment{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateCheckoutSessionHandler creates a Stripe Checkout session for a
// consultation priced off the lawyer's hourly rate.
func (p Payment) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConsultationID string `json:"consultationID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	cID, err := primitive.ObjectIDFromHex(req.ConsultationID)
	if err != nil {
		config.ErrorStatus("invalid consultationID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	consultation, err := p.CDB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("consultation not found", http.StatusNotFound, w, err)
		return
	}

	profile, err := p.LDB.FindOne(ctx, bson.M{"lawyer.userID": consultation.Details.LawyerID})
	if err != nil {
		config.ErrorStatus("lawyer profile not found", http.StatusNotFound, w, err)
		return
	}

	amountCents := int64(profile.Details.HourlyRate * float64(consultation.Details.DurationMinutes) / 60 * 100)

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Legal consultation (%d minutes)", consultation.Details.DurationMinutes)),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(p.baseURL() + "/api/v1/success"),
		CancelURL:         stripe.String(p.baseURL() + "/api/v1/cancel"),
		ClientReferenceID: stripe.String(req.ConsultationID),
	}

	s, err := session.New(params)
	if err != nil {
		config.ErrorStatus("failed to create checkout session", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("created checkout session", "consultationID", req.ConsultationID, "sessionID", s.ID)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"sessionID": s.ID, "url": s.URL})
}

func (p Payment) baseURL() string {
	conf := config.New()
	return conf.BaseUrl
}

func (p Payment) handleSuccessRedirect(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Payment completed. You can return to the app."})
}

func (p Payment) handleCancelRedirect(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Payment cancelled."})
}

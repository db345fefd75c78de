package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lexlink/lexlink-api/api"
	"github.com/lexlink/lexlink-api/config"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/models"
	templates "github.com/lexlink/lexlink-api/templates/html"
)

const (
	minConsultationMinutes = 15
	maxConsultationMinutes = 180
)

// Consultation exported for testing purposes
type Consultation struct {
	DB  databases.ConsultationDatabase
	UDB databases.UserDatabase
	LDB databases.LawyerDatabase
}

// ConsultationCreateRequest is the request body for booking a consultation
type ConsultationCreateRequest struct {
	ClientID        string `json:"clientID"`
	LawyerID        string `json:"lawyerID"`
	Date            string `json:"date"` // "2006-01-02"
	Time            string `json:"time"` // "15:04"
	DurationMinutes int    `json:"durationMinutes"`
	Notes           string `json:"notes"`
}

// CreateConsultationHandler books a consultation between a client and a lawyer.
// The consultation always starts in the Scheduled status; the duration is
// clamped server-side and the caller cannot choose a status.
func (c Consultation) CreateConsultationHandler(w http.ResponseWriter, r *http.Request) {
	var req ConsultationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.ClientID == "" || req.LawyerID == "" {
		config.ErrorStatus("clientID and lawyerID are required", http.StatusBadRequest, w, fmt.Errorf("missing participant"))
		return
	}
	if req.DurationMinutes < minConsultationMinutes || req.DurationMinutes > maxConsultationMinutes {
		config.ErrorStatus("durationMinutes out of range", http.StatusBadRequest, w,
			fmt.Errorf("durationMinutes must be between %d and %d, got %d", minConsultationMinutes, maxConsultationMinutes, req.DurationMinutes))
		return
	}

	scheduledAt, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.Time)
	if err != nil {
		config.ErrorStatus("invalid date or time", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	client, err := c.UDB.FindOne(ctx, bson.M{"_id": req.ClientID})
	if err != nil {
		config.ErrorStatus("client not found", http.StatusNotFound, w, err)
		return
	}
	lawyer, err := c.UDB.FindOne(ctx, bson.M{"_id": req.LawyerID})
	if err != nil {
		config.ErrorStatus("lawyer not found", http.StatusNotFound, w, err)
		return
	}
	if lawyer.Details.Role != models.RoleLawyer {
		config.ErrorStatus("lawyerID does not refer to a lawyer", http.StatusBadRequest, w, fmt.Errorf("role is %q", lawyer.Details.Role))
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	consultation := models.Consultation{
		ID: primitive.NewObjectID(),
		Details: models.ConsultationDetails{
			ClientID:        req.ClientID,
			LawyerID:        req.LawyerID,
			ScheduledAt:     primitive.NewDateTimeFromTime(scheduledAt),
			Time:            req.Time,
			DurationMinutes: req.DurationMinutes,
			Notes:           req.Notes,
			Status:          models.ConsultationStatusScheduled,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}

	if _, err := c.DB.InsertOne(ctx, consultation); err != nil {
		config.ErrorStatus("failed to create consultation", http.StatusInternalServerError, w, err)
		return
	}

	go sendBookingConfirmation(client.Details.Email, client.Details.Name, lawyer.Details.Name, req.Date, req.Time, req.DurationMinutes)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(consultation)
}

// ConsultationByIDHandler returns a consultation by ID
func (c Consultation) ConsultationByIDHandler(w http.ResponseWriter, r *http.Request) {
	consultationID := mux.Vars(r)["consultation_id"]

	cID, err := primitive.ObjectIDFromHex(consultationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get consultation by ID", http.StatusNotFound, w, err)
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

// UpdateConsultationStatusHandler moves a consultation through its status
// machine. Scheduled may move to Completed or Cancelled. Repeating the
// transition a consultation already took is a no-op success; crossing from one
// terminal status to the other is a conflict.
func (c Consultation) UpdateConsultationStatusHandler(w http.ResponseWriter, r *http.Request) {
	consultationID := mux.Vars(r)["consultation_id"]

	cID, err := primitive.ObjectIDFromHex(consultationID)
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
	if !models.ValidConsultationStatus(body.Status) {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w, fmt.Errorf("unknown status %q", body.Status))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	consultation, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get consultation by ID", http.StatusNotFound, w, err)
		return
	}

	if consultation.Details.Status == body.Status {
		// repeating the same transition is idempotent
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(consultation)
		return
	}
	if consultation.Details.Status != models.ConsultationStatusScheduled {
		config.ErrorStatus("consultation is already finalized", http.StatusConflict, w,
			fmt.Errorf("cannot move %q to %q", consultation.Details.Status, body.Status))
		return
	}
	if body.Status == models.ConsultationStatusScheduled {
		config.ErrorStatus("cannot return a consultation to Scheduled", http.StatusBadRequest, w,
			fmt.Errorf("invalid transition to %q", body.Status))
		return
	}

	err = c.DB.UpdateOne(ctx, bson.M{"_id": cID}, bson.M{"$set": bson.M{
		"consultation.status":    body.Status,
		"consultation.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to update consultation status", http.StatusInternalServerError, w, err)
		return
	}

	consultation.Details.Status = body.Status
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(consultation)
}

// DeleteConsultationHandler deletes a consultation. Payments and chat sessions
// that reference it are left in place and keep their consultationID.
func (c Consultation) DeleteConsultationHandler(w http.ResponseWriter, r *http.Request) {
	consultationID := mux.Vars(r)["consultation_id"]

	cID, err := primitive.ObjectIDFromHex(consultationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.DB.DeleteOne(ctx, bson.M{"_id": cID}); err != nil {
		config.ErrorStatus("failed to delete consultation", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Consultation deleted"})
}

// ConsultationsByClientIDHandler returns all consultations booked by a client
func (c Consultation) ConsultationsByClientIDHandler(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["client_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, bson.M{"consultation.clientID": clientID})
	if err != nil {
		config.ErrorStatus("failed to get consultations for client", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Consultation{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ConsultationsByLawyerIDHandler returns all consultations booked with a lawyer
func (c Consultation) ConsultationsByLawyerIDHandler(w http.ResponseWriter, r *http.Request) {
	lawyerID := mux.Vars(r)["lawyer_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, bson.M{"consultation.lawyerID": lawyerID})
	if err != nil {
		config.ErrorStatus("failed to get consultations for lawyer", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Consultation{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func sendBookingConfirmation(toEmail, clientName, lawyerName, date, timeSlot string, durationMinutes int) {
	if os.Getenv("SENDGRID_API_KEY") == "" || toEmail == "" {
		return
	}
	from := mail.NewEmail("LexLink", "no-reply@lexlink.legal")
	subject := "Your LexLink consultation is booked"
	to := mail.NewEmail(clientName, toEmail)
	plain := fmt.Sprintf("Your consultation with %s on %s at %s (%d minutes) is confirmed.", lawyerName, date, timeSlot, durationMinutes)
	html := templates.RenderBookingConfirmation(clientName, lawyerName, date, timeSlot, durationMinutes)
	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	if _, err := client.Send(msg); err != nil {
		zap.S().Warnw("failed to send booking confirmation", "error", err)
	}
}

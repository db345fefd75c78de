package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
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

// Page holds the page number for pagination defaults
var Page int

// Lawyer exported for testing purposes
type Lawyer struct {
	DB  databases.LawyerDatabase
	UDB databases.UserDatabase
	SDB databases.SpecializationDatabase
}

// CreateLawyerHandler creates a lawyer profile for an existing user with the Lawyer role
func (l Lawyer) CreateLawyerHandler(w http.ResponseWriter, r *http.Request) {
	var details models.LawyerProfileDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if details.UserID == "" {
		config.ErrorStatus("userID is required", http.StatusBadRequest, w, fmt.Errorf("missing userID"))
		return
	}
	if details.HourlyRate <= 0 {
		config.ErrorStatus("hourlyRate must be positive", http.StatusBadRequest, w, fmt.Errorf("hourlyRate %v out of range", details.HourlyRate))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := l.UDB.FindOne(ctx, bson.M{"_id": details.UserID})
	if err != nil {
		config.ErrorStatus("failed to find user for lawyer profile", http.StatusNotFound, w, err)
		return
	}
	if user.Details.Role != models.RoleLawyer {
		config.ErrorStatus("user does not have the Lawyer role", http.StatusBadRequest, w, fmt.Errorf("role is %q", user.Details.Role))
		return
	}

	if details.SpecializationID != "" {
		sID, err := primitive.ObjectIDFromHex(details.SpecializationID)
		if err != nil {
			config.ErrorStatus("invalid specializationID", http.StatusBadRequest, w, err)
			return
		}
		if _, err := l.SDB.FindOne(ctx, bson.M{"_id": sID}); err != nil {
			config.ErrorStatus("specialization not found", http.StatusNotFound, w, err)
			return
		}
	}

	// one profile per user
	existing, _ := l.DB.FindOne(ctx, bson.M{"lawyer.userID": details.UserID})
	if existing != nil {
		config.ErrorStatus("lawyer profile already exists", http.StatusConflict, w, fmt.Errorf("duplicate profile for user %s", details.UserID))
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	details.CreatedAt = now
	details.UpdatedAt = now
	details.IsVerified = false
	if details.Availability == nil {
		details.Availability = []models.AvailabilitySlot{}
	}

	profile := models.LawyerProfile{
		ID:      primitive.NewObjectID(),
		Details: details,
	}

	if _, err := l.DB.InsertOne(ctx, profile); err != nil {
		config.ErrorStatus("failed to create lawyer profile", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Lawyer profile created",
		"id":      profile.ID.Hex(),
	})
}

// LawyerByIDHandler returns a lawyer profile by ID
func (l Lawyer) LawyerByIDHandler(w http.ResponseWriter, r *http.Request) {
	lawyerID := mux.Vars(r)["lawyer_id"]

	lID, err := primitive.ObjectIDFromHex(lawyerID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := l.DB.FindOne(ctx, bson.M{"_id": lID})
	if err != nil {
		config.ErrorStatus("failed to get lawyer by ID", http.StatusNotFound, w, err)
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

// LawyerHandler returns all lawyer profiles, paginated
func (l Lawyer) LawyerHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || Limit <= 0 {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", 10, err))
		Limit = 10
	}
	Page = getPage(Page, r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := l.DB.FindPaginated(ctx, bson.M{}, Limit, Page+1)
	if err != nil {
		config.ErrorStatus("failed to get lawyers", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.LawyerProfile{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LawyerSearchHandler returns lawyer profiles filtered by specialization and verification
func (l Lawyer) LawyerSearchHandler(w http.ResponseWriter, r *http.Request) {
	specializationID := r.URL.Query().Get("specializationId")
	verified := r.URL.Query().Get("verified")

	filter := bson.M{}
	if specializationID != "" {
		filter["lawyer.specializationID"] = specializationID
	}
	if verified != "" {
		verifiedB, err := strconv.ParseBool(verified)
		if err != nil {
			config.ErrorStatus("invalid verified value", http.StatusBadRequest, w, err)
			return
		}
		filter["lawyer.isVerified"] = verifiedB
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := l.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to search lawyers", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.LawyerProfile{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateLawyerHandler updates the mutable fields of a lawyer profile
func (l Lawyer) UpdateLawyerHandler(w http.ResponseWriter, r *http.Request) {
	lawyerID := mux.Vars(r)["lawyer_id"]

	lID, err := primitive.ObjectIDFromHex(lawyerID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var details models.LawyerProfileDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	setFields := bson.M{
		"lawyer.updatedAt": now,
	}
	if details.Bio != "" {
		setFields["lawyer.bio"] = details.Bio
	}
	if details.YearsOfExperience > 0 {
		setFields["lawyer.yearsOfExperience"] = details.YearsOfExperience
	}
	if details.HourlyRate > 0 {
		setFields["lawyer.hourlyRate"] = details.HourlyRate
	}
	if details.SpecializationID != "" {
		setFields["lawyer.specializationID"] = details.SpecializationID
	}
	if details.LocationID != "" {
		setFields["lawyer.locationID"] = details.LocationID
	}
	if details.Availability != nil {
		setFields["lawyer.availability"] = details.Availability
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := l.DB.UpdateOne(ctx, bson.M{"_id": lID}, bson.M{"$set": setFields}); err != nil {
		config.ErrorStatus("failed to update lawyer profile", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Lawyer profile updated"})
}

// VerifyLawyerHandler toggles the admin verification flag on a lawyer profile
func (l Lawyer) VerifyLawyerHandler(w http.ResponseWriter, r *http.Request) {
	lawyerID := mux.Vars(r)["lawyer_id"]

	lID, err := primitive.ObjectIDFromHex(lawyerID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body struct {
		IsVerified bool `json:"isVerified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err = l.DB.UpdateOne(ctx, bson.M{"_id": lID}, bson.M{"$set": bson.M{
		"lawyer.isVerified": body.IsVerified,
		"lawyer.updatedAt":  primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to update verification", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Lawyer verification updated"})
}

// DeleteLawyerHandler deletes a lawyer profile
func (l Lawyer) DeleteLawyerHandler(w http.ResponseWriter, r *http.Request) {
	lawyerID := mux.Vars(r)["lawyer_id"]

	lID, err := primitive.ObjectIDFromHex(lawyerID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := l.DB.DeleteOne(ctx, bson.M{"_id": lID}); err != nil {
		config.ErrorStatus("failed to delete lawyer profile", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Lawyer profile deleted"})
}

func getPage(Page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", Page)
	} else {
		var err error
		Page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if Page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", Page))
			return 0
		}
	}
	return Page
}

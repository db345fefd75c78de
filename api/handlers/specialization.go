package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lexlink/lexlink-api/api"
	"github.com/lexlink/lexlink-api/config"
	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/models"
)

// Specialization exported for testing purposes
type Specialization struct {
	DB databases.SpecializationDatabase
}

// CreateSpecializationHandler creates a practice-area specialization
func (s Specialization) CreateSpecializationHandler(w http.ResponseWriter, r *http.Request) {
	var spec models.Specialization
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if spec.Name == "" {
		config.ErrorStatus("name is required", http.StatusBadRequest, w, fmt.Errorf("empty name"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, _ := s.DB.FindOne(ctx, bson.M{"name": spec.Name})
	if existing != nil {
		config.ErrorStatus("specialization already exists", http.StatusConflict, w, fmt.Errorf("duplicate name %q", spec.Name))
		return
	}

	spec.ID = primitive.NewObjectID()
	spec.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	if _, err := s.DB.InsertOne(ctx, spec); err != nil {
		config.ErrorStatus("failed to create specialization", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(spec)
}

// SpecializationHandler returns all specializations
func (s Specialization) SpecializationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := s.DB.Find(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get specializations", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Specialization{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SpecializationByIDHandler returns a specialization by ID
func (s Specialization) SpecializationByIDHandler(w http.ResponseWriter, r *http.Request) {
	specID := mux.Vars(r)["specialization_id"]

	sID, err := primitive.ObjectIDFromHex(specID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := s.DB.FindOne(ctx, bson.M{"_id": sID})
	if err != nil {
		config.ErrorStatus("failed to get specialization by ID", http.StatusNotFound, w, err)
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

// UpdateSpecializationHandler updates the name or description of a specialization
func (s Specialization) UpdateSpecializationHandler(w http.ResponseWriter, r *http.Request) {
	specID := mux.Vars(r)["specialization_id"]

	sID, err := primitive.ObjectIDFromHex(specID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	setFields := bson.M{}
	if body.Name != "" {
		setFields["name"] = body.Name
	}
	if body.Description != "" {
		setFields["description"] = body.Description
	}
	if len(setFields) == 0 {
		config.ErrorStatus("nothing to update", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.DB.UpdateOne(ctx, bson.M{"_id": sID}, bson.M{"$set": setFields}); err != nil {
		config.ErrorStatus("failed to update specialization", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Specialization updated"})
}

// DeleteSpecializationHandler deletes a specialization
func (s Specialization) DeleteSpecializationHandler(w http.ResponseWriter, r *http.Request) {
	specID := mux.Vars(r)["specialization_id"]

	sID, err := primitive.ObjectIDFromHex(specID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.DB.DeleteOne(ctx, bson.M{"_id": sID}); err != nil {
		config.ErrorStatus("failed to delete specialization", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Specialization deleted"})
}

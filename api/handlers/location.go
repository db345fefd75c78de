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

// Location exported for testing purposes
type Location struct {
	DB databases.LocationDatabase
}

// CreateLocationHandler creates a service location
func (l Location) CreateLocationHandler(w http.ResponseWriter, r *http.Request) {
	var loc models.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if loc.City == "" || loc.Country == "" {
		config.ErrorStatus("city and country are required", http.StatusBadRequest, w, fmt.Errorf("missing city or country"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	loc.ID = primitive.NewObjectID()
	loc.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	if _, err := l.DB.InsertOne(ctx, loc); err != nil {
		config.ErrorStatus("failed to create location", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(loc)
}

// LocationHandler returns all locations
func (l Location) LocationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := l.DB.Find(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get locations", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Location{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LocationByIDHandler returns a location by ID
func (l Location) LocationByIDHandler(w http.ResponseWriter, r *http.Request) {
	locationID := mux.Vars(r)["location_id"]

	lID, err := primitive.ObjectIDFromHex(locationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := l.DB.FindOne(ctx, bson.M{"_id": lID})
	if err != nil {
		config.ErrorStatus("failed to get location by ID", http.StatusNotFound, w, err)
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

// UpdateLocationHandler updates a location
func (l Location) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	locationID := mux.Vars(r)["location_id"]

	lID, err := primitive.ObjectIDFromHex(locationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body struct {
		City    string `json:"city"`
		State   string `json:"state"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	setFields := bson.M{}
	if body.City != "" {
		setFields["city"] = body.City
	}
	if body.State != "" {
		setFields["state"] = body.State
	}
	if body.Country != "" {
		setFields["country"] = body.Country
	}
	if len(setFields) == 0 {
		config.ErrorStatus("nothing to update", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := l.DB.UpdateOne(ctx, bson.M{"_id": lID}, bson.M{"$set": setFields}); err != nil {
		config.ErrorStatus("failed to update location", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Location updated"})
}

// DeleteLocationHandler deletes a location
func (l Location) DeleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	locationID := mux.Vars(r)["location_id"]

	lID, err := primitive.ObjectIDFromHex(locationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := l.DB.DeleteOne(ctx, bson.M{"_id": lID}); err != nil {
		config.ErrorStatus("failed to delete location", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Location deleted"})
}

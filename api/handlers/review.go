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

// Review exported for testing purposes
type Review struct {
	DB  databases.ReviewDatabase
	UDB databases.UserDatabase
}

// ReviewCreateRequest is the request body for leaving a review
type ReviewCreateRequest struct {
	ClientID string `json:"clientID"`
	LawyerID string `json:"lawyerID"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// CreateReviewHandler records a client's review of a lawyer. Rating is a
// whole number from 1 to 5, the comment cannot be empty, and a user cannot
// review themselves.
func (rv Review) CreateReviewHandler(w http.ResponseWriter, r *http.Request) {
	var req ReviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		config.ErrorStatus("rating must be between 1 and 5", http.StatusBadRequest, w, fmt.Errorf("rating %d out of range", req.Rating))
		return
	}
	if req.Comment == "" {
		config.ErrorStatus("comment is required", http.StatusBadRequest, w, fmt.Errorf("empty comment"))
		return
	}
	if req.ClientID == "" || req.LawyerID == "" {
		config.ErrorStatus("clientID and lawyerID are required", http.StatusBadRequest, w, fmt.Errorf("missing participant"))
		return
	}
	if req.ClientID == req.LawyerID {
		config.ErrorStatus("cannot review yourself", http.StatusBadRequest, w, fmt.Errorf("clientID equals lawyerID"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lawyer, err := rv.UDB.FindOne(ctx, bson.M{"_id": req.LawyerID})
	if err != nil {
		config.ErrorStatus("lawyer not found", http.StatusNotFound, w, err)
		return
	}
	if lawyer.Details.Role != models.RoleLawyer {
		config.ErrorStatus("lawyerID does not refer to a lawyer", http.StatusBadRequest, w, fmt.Errorf("role is %q", lawyer.Details.Role))
		return
	}
	if _, err := rv.UDB.FindOne(ctx, bson.M{"_id": req.ClientID}); err != nil {
		config.ErrorStatus("client not found", http.StatusNotFound, w, err)
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		ClientID:  req.ClientID,
		LawyerID:  req.LawyerID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := rv.DB.InsertOne(ctx, review); err != nil {
		config.ErrorStatus("failed to create review", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(review)
}

// ReviewsByLawyerIDHandler returns all reviews for a lawyer along with the
// average rating
func (rv Review) ReviewsByLawyerIDHandler(w http.ResponseWriter, r *http.Request) {
	lawyerID := mux.Vars(r)["lawyer_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reviews, err := rv.DB.Find(ctx, bson.M{"lawyerID": lawyerID})
	if err != nil {
		config.ErrorStatus("failed to get reviews for lawyer", http.StatusNotFound, w, err)
		return
	}
	if len(reviews) == 0 {
		reviews = []models.Review{}
	}

	var avg float64
	if len(reviews) > 0 {
		var sum int
		for _, rev := range reviews {
			sum += rev.Rating
		}
		avg = float64(sum) / float64(len(reviews))
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"reviews":       reviews,
		"averageRating": avg,
		"count":         len(reviews),
	})
}

// DeleteReviewHandler removes a review, used by platform moderation
func (rv Review) DeleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID := mux.Vars(r)["review_id"]

	rID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := rv.DB.FindOne(ctx, bson.M{"_id": rID}); err != nil {
		config.ErrorStatus("review not found", http.StatusNotFound, w, err)
		return
	}
	if err := rv.DB.DeleteOne(ctx, bson.M{"_id": rID}); err != nil {
		config.ErrorStatus("failed to delete review", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "Review deleted"})
}

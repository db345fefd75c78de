package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Consultation statuses. Scheduled is the only non-terminal status.
const (
	ConsultationStatusScheduled = "Scheduled"
	ConsultationStatusCompleted = "Completed"
	ConsultationStatusCancelled = "Cancelled"
)

// Consultation holds the structure for the consultations collection in mongo
type Consultation struct {
	ID      primitive.ObjectID  `json:"_id" bson:"_id"`
	Details ConsultationDetails `json:"consultation" bson:"consultation"`
	Version int32               `json:"__v" bson:"__v"`
}

// ConsultationDetails holds the structure for the inner consultation structure
type ConsultationDetails struct {
	ClientID        string             `json:"clientID" bson:"clientID"`
	LawyerID        string             `json:"lawyerID" bson:"lawyerID"`
	ScheduledAt     primitive.DateTime `json:"scheduledAt" bson:"scheduledAt"`
	Time            string             `json:"time" bson:"time"` // "HH:MM" display slot, kept alongside scheduledAt
	DurationMinutes int                `json:"durationMinutes" bson:"durationMinutes"`
	Notes           string             `json:"notes" bson:"notes"`
	Status          string             `json:"status" bson:"status"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ValidConsultationStatus reports whether s is one of the persistable statuses
func ValidConsultationStatus(s string) bool {
	switch s {
	case ConsultationStatusScheduled, ConsultationStatusCompleted, ConsultationStatusCancelled:
		return true
	}
	return false
}

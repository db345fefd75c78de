package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChatSession holds the structure for the chatsessions collection in mongo.
// A session is created only through payment-gated activation and scopes a set
// of Messages. At most one active session exists per consultation.
type ChatSession struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	ConsultationID string             `json:"consultationID" bson:"consultationID"`
	ClientID       string             `json:"clientID" bson:"clientID"`
	LawyerID       string             `json:"lawyerID" bson:"lawyerID"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
	EndedAt        primitive.DateTime `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review holds the structure for the reviews collection in mongo
type Review struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	ClientID  string             `json:"clientID" bson:"clientID"`
	LawyerID  string             `json:"lawyerID" bson:"lawyerID"`
	Rating    int                `json:"rating" bson:"rating"` // 1..5
	Comment   string             `json:"comment" bson:"comment"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

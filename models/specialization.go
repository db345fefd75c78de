package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Specialization holds the structure for the specializations collection in mongo.
// Names are unique; inserting a duplicate name is a conflict.
type Specialization struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

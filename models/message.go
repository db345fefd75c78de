package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message holds the structure for the messages collection in mongo.
// Messages are append-only and ordered by createdAt.
type Message struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	ChatSessionID string             `json:"chatSessionID" bson:"chatSessionID"`
	SenderID      string             `json:"senderID" bson:"senderID"`
	ReceiverID    string             `json:"receiverID" bson:"receiverID"`
	Text          string             `json:"text" bson:"text"`
	IsRead        bool               `json:"isRead" bson:"isRead"`
	CreatedAt     primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

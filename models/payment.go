package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Payment statuses. Successful and failed are terminal; a terminal payment is immutable.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusSuccessful = "successful"
	PaymentStatusFailed     = "failed"
)

// Payment holds the structure for the payments collection in mongo
type Payment struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	ConsultationID string             `json:"consultationID" bson:"consultationID"`
	ClientID       string             `json:"clientID" bson:"clientID"`
	LawyerID       string             `json:"lawyerID" bson:"lawyerID"`
	ChatSessionID  string             `json:"chatSessionID,omitempty" bson:"chatSessionID,omitempty"`
	Amount         float64            `json:"amount" bson:"amount"`
	Status         string             `json:"status" bson:"status"`
	TransactionID  string             `json:"transactionID" bson:"transactionID"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// TerminalPaymentStatus reports whether s is a terminal payment status
func TerminalPaymentStatus(s string) bool {
	return s == PaymentStatusSuccessful || s == PaymentStatusFailed
}

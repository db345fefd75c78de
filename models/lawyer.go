package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// LawyerProfile holds the structure for the lawyerprofiles collection in mongo
type LawyerProfile struct {
	ID      primitive.ObjectID   `json:"_id" bson:"_id"`
	Details LawyerProfileDetails `json:"lawyer" bson:"lawyer"`
	Version int32                `json:"__v" bson:"__v"`
}

// LawyerProfileDetails holds the structure for the inner lawyer profile structure
type LawyerProfileDetails struct {
	UserID            string             `json:"userID" bson:"userID"`
	Bio               string             `json:"bio" bson:"bio"`
	YearsOfExperience int                `json:"yearsOfExperience" bson:"yearsOfExperience"`
	HourlyRate        float64            `json:"hourlyRate" bson:"hourlyRate"`
	SpecializationID  string             `json:"specializationID" bson:"specializationID"`
	LocationID        string             `json:"locationID" bson:"locationID"`
	IsVerified        bool               `json:"isVerified" bson:"isVerified"`
	Availability      []AvailabilitySlot `json:"availability" bson:"availability"`
	CreatedAt         primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt         primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// AvailabilitySlot is a weekly recurring window a lawyer accepts bookings in
type AvailabilitySlot struct {
	Day       string `json:"day" bson:"day"` // "Monday" .. "Sunday"
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
}

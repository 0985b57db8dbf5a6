package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint status values
const (
	ComplaintStatusOpen       = "open"
	ComplaintStatusInProgress = "in-progress"
	ComplaintStatusResolved   = "resolved"
)

// Complaint holds the structure for the complaints collection in mongo
type Complaint struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	AdminID   primitive.ObjectID `json:"adminId" bson:"adminId"`
	MemberUID string             `json:"memberUid" bson:"memberUid"`
	FlatID    string             `json:"flatId" bson:"flatId"`
	Subject   string             `json:"subject" bson:"subject"`
	Details   string             `json:"details" bson:"details"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// CreateComplaintRequest holds the payload for raising a complaint
type CreateComplaintRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Details string `json:"details" validate:"required,min=1"`
}

// UpdateComplaintStatusRequest holds the admin status change payload
type UpdateComplaintStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in-progress resolved"`
}

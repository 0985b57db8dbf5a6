package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bill status values
const (
	BillStatusUnpaid = "unpaid"
	BillStatusPaid   = "paid"
)

// Bill holds the structure for the bills collection in mongo
type Bill struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id"`
	AdminID   primitive.ObjectID  `json:"adminId" bson:"adminId"`
	MemberUID string              `json:"memberUid" bson:"memberUid"`
	FlatID    string              `json:"flatId" bson:"flatId"`
	Category  string              `json:"category" bson:"category"`   // 'maintenance', 'water', 'electricity', 'other'
	AmountDue int64               `json:"amountDue" bson:"amountDue"` // smallest currency unit
	Currency  string              `json:"currency" bson:"currency"`
	DueDate   primitive.DateTime  `json:"dueDate" bson:"dueDate"`
	Status    string              `json:"status" bson:"status"`
	PaidAt    *primitive.DateTime `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime  `json:"updatedAt" bson:"updatedAt"`
}

// CreateBillRequest holds the payload for raising a bill
type CreateBillRequest struct {
	MemberUID string             `json:"memberUid" validate:"required"`
	FlatID    string             `json:"flatId" validate:"required"`
	Category  string             `json:"category" validate:"required,oneof=maintenance water electricity other"`
	AmountDue int64              `json:"amountDue" validate:"required,gt=0"`
	Currency  string             `json:"currency" validate:"required,len=3"`
	DueDate   primitive.DateTime `json:"dueDate" validate:"required"`
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking holds the structure for the bookings collection in mongo
type Booking struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	AdminID   primitive.ObjectID `json:"adminId" bson:"adminId"`
	AmenityID primitive.ObjectID `json:"amenityId" bson:"amenityId"`
	MemberUID string             `json:"memberUid" bson:"memberUid"`
	Date      string             `json:"date" bson:"date"`
	StartTime string             `json:"startTime" bson:"startTime"`
	EndTime   string             `json:"endTime" bson:"endTime"`
	Status    string             `json:"status" bson:"status"` // 'booked', 'cancelled'
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// CreateBookingRequest holds the payload for booking an amenity slot
type CreateBookingRequest struct {
	AmenityID string `json:"amenityId" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Amenity holds the structure for the amenities collection in mongo
type Amenity struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	AdminID     primitive.ObjectID `json:"adminId" bson:"adminId"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Capacity    int                `json:"capacity" bson:"capacity"`
	OpenTime    string             `json:"openTime" bson:"openTime"`
	CloseTime   string             `json:"closeTime" bson:"closeTime"`
	Active      bool               `json:"active" bson:"active"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// CreateAmenityRequest holds the payload for creating an amenity
type CreateAmenityRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
	OpenTime    string `json:"openTime"`
	CloseTime   string `json:"closeTime"`
}

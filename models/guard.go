package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guard holds the structure for the guards collection in mongo
type Guard struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Name         string             `json:"name" bson:"name"`
	MobileNumber string             `json:"mobileNumber" bson:"mobileNumber"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	GateID       string             `json:"gateId" bson:"gateId"`
	AdminID      primitive.ObjectID `json:"adminId" bson:"adminId"`
	Active       bool               `json:"active" bson:"active"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt    primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// CreateGuardRequest holds the payload for creating a gate guard account
type CreateGuardRequest struct {
	Name         string `json:"name" validate:"required"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	GateID       string `json:"gateId" validate:"required"`
}

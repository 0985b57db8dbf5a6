package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member holds the structure for the members collection in mongo
type Member struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	UID            string             `json:"uid" bson:"uid"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	MobileNumber   string             `json:"mobileNumber" bson:"mobileNumber"`
	FlatID         string             `json:"flatId" bson:"flatId"`
	PasswordHash   string             `json:"-" bson:"passwordHash"`
	CreatorAdminID primitive.ObjectID `json:"creatorAdminId" bson:"creatorAdminId"`
	PhotoURL       string             `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	Active         bool               `json:"active" bson:"active"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// CreateMemberRequest holds the payload for creating a member profile
type CreateMemberRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
	FlatID       string `json:"flatId" validate:"required"`
	Password     string `json:"password" validate:"required,min=6"`
	PhotoURL     string `json:"photoUrl,omitempty"`
}

// MemberLoginRequest holds the member login payload
type MemberLoginRequest struct {
	MobileNumber string `json:"mobilenumber" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement holds the structure for the announcements collection in mongo
type Announcement struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	AdminID   primitive.ObjectID `json:"adminId" bson:"adminId"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Priority  string             `json:"priority" bson:"priority"` // 'low', 'medium', 'high', 'urgent'
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// CreateAnnouncementRequest holds the structure for creating a new announcement
type CreateAnnouncementRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required,min=1"`
	Priority string `json:"priority" validate:"required,oneof=low medium high urgent"`
}

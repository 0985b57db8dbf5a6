package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/api"
	"github.com/societyhq/society-api/config"
	"github.com/societyhq/society-api/databases"
	"github.com/societyhq/society-api/models"
)

// Announcement exported for testing purposes
type Announcement struct {
	DB databases.AnnouncementDatabase
}

// AnnouncementCreateHandler lets an admin publish a society announcement
func (a Announcement) AnnouncementCreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid announcement request", http.StatusBadRequest, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	announcement := models.Announcement{
		ID:        primitive.NewObjectID(),
		AdminID:   aID,
		Title:     req.Title,
		Content:   req.Content,
		Priority:  req.Priority,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := a.DB.InsertOne(ctx, announcement); err != nil {
		config.ErrorStatus("failed to create announcement", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "announcement published",
		"announcement": announcement,
	})
}

// AnnouncementsByAdminIDHandler lists a society's active announcements
func (a Announcement) AnnouncementsByAdminIDHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := a.DB.Find(ctx, bson.M{"adminId": aID, "isActive": true}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to get announcements", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Announcement{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AnnouncementDeleteHandler removes an announcement
func (a Announcement) AnnouncementDeleteHandler(w http.ResponseWriter, r *http.Request) {
	announcementID := mux.Vars(r)["announcement_id"]

	anID, err := primitive.ObjectIDFromHex(announcementID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.DB.DeleteOne(ctx, bson.M{"_id": anID}); err != nil {
		config.ErrorStatus("failed to delete announcement", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "announcement deleted",
	})
}

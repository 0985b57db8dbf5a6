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

// Amenity exported for testing purposes
type Amenity struct {
	DB databases.AmenityDatabase
}

// AmenityCreateHandler lets an admin register a bookable facility
func (a Amenity) AmenityCreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.CreateAmenityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid amenity request", http.StatusBadRequest, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	amenity := models.Amenity{
		ID:          primitive.NewObjectID(),
		AdminID:     aID,
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := a.DB.InsertOne(ctx, amenity); err != nil {
		config.ErrorStatus("failed to create amenity", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "amenity created",
		"amenity": amenity,
	})
}

// AmenitiesByAdminIDHandler lists a society's amenities
func (a Amenity) AmenitiesByAdminIDHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := a.DB.Find(ctx, bson.M{"adminId": aID, "active": true}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		config.ErrorStatus("failed to get amenities", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Amenity{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AmenityDeleteHandler retires an amenity. The record is kept but hidden from
// listings so historical bookings still resolve.
func (a Amenity) AmenityDeleteHandler(w http.ResponseWriter, r *http.Request) {
	amenityID := mux.Vars(r)["amenity_id"]

	amID, err := primitive.ObjectIDFromHex(amenityID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	update := bson.M{"$set": bson.M{
		"active":    false,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	if err := a.DB.UpdateOne(ctx, bson.M{"_id": amID}, update); err != nil {
		config.ErrorStatus("failed to retire amenity", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "amenity retired",
	})
}

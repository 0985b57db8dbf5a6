package handlers

import (
	"encoding/json"
	"fmt"
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

// Booking exported for testing purposes
type Booking struct {
	DB  databases.BookingDatabase
	ADB databases.AmenityDatabase
	MDB databases.MemberDatabase
}

// BookingCreateHandler books an amenity slot for the authenticated member
func (b Booking) BookingCreateHandler(w http.ResponseWriter, r *http.Request) {
	memberUID, ok := api.MemberUIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("member authentication required", http.StatusUnauthorized, w, fmt.Errorf("no member uid in context"))
		return
	}

	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid booking request", http.StatusBadRequest, w, err)
		return
	}

	amenityID, err := primitive.ObjectIDFromHex(req.AmenityID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	member, err := b.MDB.FindOne(ctx, bson.M{"uid": memberUID, "active": true})
	if err != nil {
		config.ErrorStatus("member not found", http.StatusUnauthorized, w, err)
		return
	}

	amenity, err := b.ADB.FindOne(ctx, bson.M{"_id": amenityID, "active": true})
	if err != nil {
		config.ErrorStatus("amenity not found", http.StatusNotFound, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	booking := models.Booking{
		ID:        primitive.NewObjectID(),
		AdminID:   amenity.AdminID,
		AmenityID: amenity.ID,
		MemberUID: member.UID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    "booked",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := b.DB.InsertOne(ctx, booking); err != nil {
		config.ErrorStatus("failed to create booking", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "booking created",
		"booking": booking,
	})
}

// BookingsByMemberHandler lists the authenticated member's bookings
func (b Booking) BookingsByMemberHandler(w http.ResponseWriter, r *http.Request) {
	memberUID, ok := api.MemberUIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("member authentication required", http.StatusUnauthorized, w, fmt.Errorf("no member uid in context"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := b.DB.Find(ctx, bson.M{"memberUid": memberUID}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to get bookings", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Booking{}
	}
	b2, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b2)
}

// BookingsByAmenityHandler lists bookings for one amenity (admin view)
func (b Booking) BookingsByAmenityHandler(w http.ResponseWriter, r *http.Request) {
	amenityID := mux.Vars(r)["amenity_id"]

	amID, err := primitive.ObjectIDFromHex(amenityID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := b.DB.Find(ctx, bson.M{"amenityId": amID}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to get bookings", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Booking{}
	}
	b2, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b2)
}

// BookingCancelHandler cancels a member's booking. Members can only cancel
// their own bookings.
func (b Booking) BookingCancelHandler(w http.ResponseWriter, r *http.Request) {
	memberUID, ok := api.MemberUIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("member authentication required", http.StatusUnauthorized, w, fmt.Errorf("no member uid in context"))
		return
	}

	bookingID := mux.Vars(r)["booking_id"]
	bID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":    "cancelled",
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	if err := b.DB.UpdateOne(ctx, bson.M{"_id": bID, "memberUid": memberUID, "status": "booked"}, update); err != nil {
		config.ErrorStatus("failed to cancel booking", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "booking cancelled",
	})
}

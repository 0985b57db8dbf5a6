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

// Complaint exported for testing purposes
type Complaint struct {
	DB  databases.ComplaintDatabase
	MDB databases.MemberDatabase
}

// ComplaintCreateHandler lets the authenticated member raise a complaint
func (c Complaint) ComplaintCreateHandler(w http.ResponseWriter, r *http.Request) {
	memberUID, ok := api.MemberUIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("member authentication required", http.StatusUnauthorized, w, fmt.Errorf("no member uid in context"))
		return
	}

	var req models.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid complaint request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	member, err := c.MDB.FindOne(ctx, bson.M{"uid": memberUID, "active": true})
	if err != nil {
		config.ErrorStatus("member not found", http.StatusUnauthorized, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	complaint := models.Complaint{
		ID:        primitive.NewObjectID(),
		AdminID:   member.CreatorAdminID,
		MemberUID: member.UID,
		FlatID:    member.FlatID,
		Subject:   req.Subject,
		Details:   req.Details,
		Status:    models.ComplaintStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := c.DB.InsertOne(ctx, complaint); err != nil {
		config.ErrorStatus("failed to create complaint", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   "complaint raised",
		"complaint": complaint,
	})
}

// ComplaintsByAdminIDHandler lists a society's complaints, optionally
// filtered by status
func (c Complaint) ComplaintsByAdminIDHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]
	status := r.URL.Query().Get("status")

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	filter := bson.M{"adminId": aID}
	if status != "" {
		filter["status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to get complaints", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Complaint{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ComplaintStatusUpdateHandler moves a complaint through its lifecycle
func (c Complaint) ComplaintStatusUpdateHandler(w http.ResponseWriter, r *http.Request) {
	complaintID := mux.Vars(r)["complaint_id"]

	cID, err := primitive.ObjectIDFromHex(complaintID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.UpdateComplaintStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":    req.Status,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	if err := c.DB.UpdateOne(ctx, bson.M{"_id": cID}, update); err != nil {
		config.ErrorStatus("failed to update complaint", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "complaint updated",
		"status":  req.Status,
	})
}

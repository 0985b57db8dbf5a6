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
	"golang.org/x/crypto/bcrypt"

	"github.com/societyhq/society-api/api"
	"github.com/societyhq/society-api/config"
	"github.com/societyhq/society-api/databases"
	"github.com/societyhq/society-api/models"
)

// Guard exported for testing purposes
type Guard struct {
	DB databases.GuardDatabase
}

// GuardCreateHandler lets an admin register a gate guard account
func (g Guard) GuardCreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.CreateGuardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid guard request", http.StatusBadRequest, w, err)
		return
	}
	if !models.IsValidGate(req.GateID) {
		config.ErrorStatus("unknown gate", http.StatusBadRequest, w, fmt.Errorf("gate %q is not one of %v", req.GateID, models.Gates))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	guard := models.Guard{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
		PasswordHash: string(hash),
		GateID:       req.GateID,
		AdminID:      aID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := g.DB.InsertOne(ctx, guard); err != nil {
		config.ErrorStatus("failed to create guard", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "guard created",
		"guard":   guard,
	})
}

// GuardsByAdminIDHandler lists a society's guards
func (g Guard) GuardsByAdminIDHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := g.DB.Find(ctx, bson.M{"adminId": aID}, options.Find().SetSort(bson.M{"gateId": 1}))
	if err != nil {
		config.ErrorStatus("failed to get guards", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Guard{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// GuardDeleteHandler removes a guard account
func (g Guard) GuardDeleteHandler(w http.ResponseWriter, r *http.Request) {
	guardID := mux.Vars(r)["guard_id"]

	gID, err := primitive.ObjectIDFromHex(guardID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := g.DB.DeleteOne(ctx, bson.M{"_id": gID}); err != nil {
		config.ErrorStatus("failed to delete guard", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "guard deleted",
	})
}

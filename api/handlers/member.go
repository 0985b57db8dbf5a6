package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
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

var validate = validator.New()

// Member exported for testing purposes
type Member struct {
	DB  databases.MemberDatabase
	ADB databases.AdminDatabase
}

// MemberCreateHandler lets an admin register a resident profile
func (m Member) MemberCreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid member request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := m.DB.CountDocuments(ctx, bson.M{"mobileNumber": req.MobileNumber, "creatorAdminId": aID})
	if err != nil {
		config.ErrorStatus("failed to check existing members", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("mobile number already registered", http.StatusConflict, w, fmt.Errorf("duplicate member"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	member := models.Member{
		ID:             primitive.NewObjectID(),
		UID:            uuid.New().String(),
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		MobileNumber:   req.MobileNumber,
		FlatID:         req.FlatID,
		PasswordHash:   string(hash),
		CreatorAdminID: aID,
		PhotoURL:       req.PhotoURL,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := m.DB.InsertOne(ctx, member); err != nil {
		config.ErrorStatus("failed to create member", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "member created",
		"member":  member,
	})
}

// MembersByAdminIDHandler lists a society's members
func (m Member) MembersByAdminIDHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := m.DB.Find(ctx, bson.M{"creatorAdminId": aID}, options.Find().SetSort(bson.M{"flatId": 1}))
	if err != nil {
		config.ErrorStatus("failed to get members", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Member{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MemberDeleteHandler removes a member profile
func (m Member) MemberDeleteHandler(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["member_id"]

	mID, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := m.DB.DeleteOne(ctx, bson.M{"_id": mID}); err != nil {
		config.ErrorStatus("failed to delete member", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "member deleted",
	})
}

// MemberLoginHandler verifies member credentials and issues the JWT used by
// the pre-approval routes
func (m Member) MemberLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.MemberLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("mobile number and password required", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	member, err := m.DB.FindOne(ctx, bson.M{"mobileNumber": req.MobileNumber, "active": true})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
		return
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		config.ErrorStatus("server misconfigured", http.StatusInternalServerError, w, fmt.Errorf("JWT_SECRET not set"))
		return
	}

	claims := jwt.MapClaims{
		"sub":   member.UID,
		"name":  member.Name,
		"scope": "member",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		config.ErrorStatus("token generation failed", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":  signed,
		"member": member,
	})
}

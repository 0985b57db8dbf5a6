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
	"go.uber.org/zap"

	"github.com/societyhq/society-api/api"
	"github.com/societyhq/society-api/config"
	"github.com/societyhq/society-api/databases"
	"github.com/societyhq/society-api/models"
)

// Expiry window bounds for a pre-approval, in hours
const (
	defaultExpiryHours = 1
	maxExpiryHours     = 8
)

// Visitor exported for testing purposes
type Visitor struct {
	DB       databases.VisitorDatabase
	MDB      databases.MemberDatabase
	GDB      databases.GuardDatabase
	Notifier GateNotifier
	Mailer   Mailer
}

// VisitorCreateHandler creates a pre-approval on behalf of the authenticated
// member. The member uid comes from the JWT, the payload carries the variant
// details, and the allocated OTP rides back in the response message.
func (v Visitor) VisitorCreateHandler(w http.ResponseWriter, r *http.Request) {
	memberUID, ok := api.MemberUIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("member authentication required", http.StatusUnauthorized, w, fmt.Errorf("no member uid in context"))
		return
	}

	var req models.CreateVisitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.MemberUID = memberUID

	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid pre-approval request", http.StatusBadRequest, w, err)
		return
	}
	if err := req.Validate(); err != nil {
		config.ErrorStatus("invalid pre-approval request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	member, err := v.MDB.FindOne(ctx, bson.M{"uid": memberUID, "active": true})
	if err != nil {
		config.ErrorStatus("member not found", http.StatusUnauthorized, w, err)
		return
	}

	// The society is derived from the member's creator admin. A payload that
	// names a different society is rejected rather than silently rewritten.
	adminID := member.CreatorAdminID
	if req.AdminID != "" {
		claimed, err := primitive.ObjectIDFromHex(req.AdminID)
		if err != nil || claimed != adminID {
			config.ErrorStatus("member does not belong to this society", http.StatusForbidden, w, fmt.Errorf("adminId mismatch"))
			return
		}
	}

	flatID := member.FlatID
	if req.FlatID != "" {
		flatID = req.FlatID
	}

	expiryHours := req.ExpiryHours
	if expiryHours < 1 {
		expiryHours = defaultExpiryHours
	}
	if expiryHours > maxExpiryHours {
		expiryHours = maxExpiryHours
	}

	totalCount := 1
	if req.PreApprovalType == models.PreApprovalGuest && req.Guest != nil && req.Guest.InviteType == models.InviteGroup {
		totalCount = req.TotalCount
	}

	now := time.Now()
	otpCode, err := allocateOTP(ctx, v.DB)
	if err != nil {
		config.ErrorStatus("could not allocate OTP", http.StatusInternalServerError, w, err)
		return
	}

	visitor := models.VisitorRequest{
		ID:              primitive.NewObjectID(),
		AdminID:         adminID,
		MemberUID:       memberUID,
		FlatID:          flatID,
		PreApprovalType: req.PreApprovalType,
		GateIDs:         req.GateIDs,
		OTPCode:         otpCode,
		TotalCount:      totalCount,
		ApprovedCount:   0,
		Status:          models.VisitorStatusPending,
		Expiry:          primitive.NewDateTimeFromTime(now.Add(time.Duration(expiryHours) * time.Hour)),
		Guest:           req.Guest,
		Cab:             req.Cab,
		Delivery:        req.Delivery,
		Tools:           req.Tools,
		CreatedAt:       primitive.NewDateTimeFromTime(now),
		UpdatedAt:       primitive.NewDateTimeFromTime(now),
	}

	if _, err := v.DB.InsertOne(ctx, visitor); err != nil {
		config.ErrorStatus("failed to create pre-approval", http.StatusInternalServerError, w, err)
		return
	}

	if v.Mailer != nil {
		go v.Mailer.SendVisitorConfirmation(member, &visitor)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": confirmationMessage(&visitor),
		"visitor": visitor,
	})
}

// confirmationMessage phrases the creation receipt per pre-approval type
func confirmationMessage(v *models.VisitorRequest) string {
	switch v.PreApprovalType {
	case models.PreApprovalGuest:
		if v.Guest != nil && v.Guest.InviteType == models.InviteGroup {
			return fmt.Sprintf("Group invite created for %d guests. Share OTP %s with your guests.", v.TotalCount, v.OTPCode)
		}
		return fmt.Sprintf("Pre-approval created for %s. Share OTP %s with your guest.", v.DisplayName(), v.OTPCode)
	case models.PreApprovalCab:
		return fmt.Sprintf("Cab pre-approved (%s). Share OTP %s with your driver.", v.DisplayName(), v.OTPCode)
	case models.PreApprovalDelivery:
		return fmt.Sprintf("Delivery from %s pre-approved. Share OTP %s with the delivery agent.", v.DisplayName(), v.OTPCode)
	case models.PreApprovalTools:
		return fmt.Sprintf("Service visit pre-approved (%s). Share OTP %s with the service person.", v.DisplayName(), v.OTPCode)
	default:
		return fmt.Sprintf("Pre-approval created. Share OTP %s with your visitor.", v.OTPCode)
	}
}

// GuardVisitorListHandler returns the pending, unexpired pre-approvals scoped
// to the calling guard's society and gate, newest first
func (v Visitor) GuardVisitorListHandler(w http.ResponseWriter, r *http.Request) {
	var req models.GuardListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid guard list request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	guard, err := authenticateGuard(ctx, v.GDB, req.MobileNumber, req.Password)
	if err != nil {
		config.ErrorStatus("guard authentication failed", http.StatusUnauthorized, w, err)
		return
	}

	filter := bson.M{
		"adminId": guard.AdminID,
		"status":  models.VisitorStatusPending,
		"expiry":  bson.M{"$gt": primitive.NewDateTimeFromTime(time.Now())},
		"gateId":  guard.GateID,
	}

	dbResp, err := v.DB.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to get visitor requests", http.StatusNotFound, w, err)
		return
	}

	views := make([]models.GuardVisitorView, 0, len(dbResp))
	for i := range dbResp {
		views = append(views, models.GuardVisitorView{
			VisitorRequest:   dbResp[i],
			DisplayNameValue: dbResp[i].DisplayName(),
			ProgressValue:    dbResp[i].Progress(),
		})
	}

	b, err := json.Marshal(views)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// VisitorApproveHandler admits one visitor entry. The OTP check, count
// increment, and conditional status flip happen in one document write, so two
// guards approving the same request concurrently can never double-admit.
func (v Visitor) VisitorApproveHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ApproveVisitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid approval request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	guard, err := authenticateGuard(ctx, v.GDB, req.MobileNumber, req.Password)
	if err != nil {
		config.ErrorStatus("guard authentication failed", http.StatusUnauthorized, w, err)
		return
	}

	vID, err := primitive.ObjectIDFromHex(req.VisitorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	visitor, err := v.DB.ApproveOne(ctx, vID, req.OTPCode, time.Now())
	if err != nil {
		// The atomic filter can miss for several reasons (wrong id, wrong
		// OTP, already approved, expired); they are deliberately not told
		// apart so the gate UI shows one rejection message.
		config.ErrorStatus("invalid OTP or visitor request no longer pending", http.StatusBadRequest, w, err)
		return
	}

	zap.S().Infow("visitor entry approved",
		"visitorId", visitor.ID.Hex(),
		"gateId", guard.GateID,
		"progress", visitor.Progress(),
	)

	if v.Notifier != nil {
		v.Notifier.VisitorApproved(visitor)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":         "visitor approved",
		"visitor":         visitor,
		"displayName":     visitor.DisplayName(),
		"progress":        visitor.Progress(),
		"isFullyApproved": visitor.IsFullyApproved(),
	})
}

// AdminVisitorListHandler returns every visitor request of a society
func (v Visitor) AdminVisitorListHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := v.DB.Find(ctx, bson.M{"adminId": aID}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to get visitor requests", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.VisitorRequest{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// VisitorStatusUpdateHandler is the admin override: a pending request is
// forced to approved, reconciling approvedCount to totalCount. "approved" is
// the only status this route accepts.
func (v Visitor) VisitorStatusUpdateHandler(w http.ResponseWriter, r *http.Request) {
	visitorID := mux.Vars(r)["visitor_id"]

	vID, err := primitive.ObjectIDFromHex(visitorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.UpdateVisitorStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Status != models.VisitorStatusApproved {
		config.ErrorStatus("status must be 'approved'", http.StatusBadRequest, w, fmt.Errorf("unsupported status %q", req.Status))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	visitor, err := v.DB.ForceApprove(ctx, vID, time.Now())
	if err != nil {
		config.ErrorStatus("visitor request not found or not pending", http.StatusNotFound, w, err)
		return
	}

	if v.Notifier != nil {
		v.Notifier.VisitorApproved(visitor)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "visitor request approved",
		"visitor": visitor,
	})
}

// VisitorDeleteHandler removes a visitor request by ID
func (v Visitor) VisitorDeleteHandler(w http.ResponseWriter, r *http.Request) {
	visitorID := mux.Vars(r)["visitor_id"]

	vID, err := primitive.ObjectIDFromHex(visitorID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := v.DB.DeleteOne(ctx, bson.M{"_id": vID}); err != nil {
		config.ErrorStatus("failed to delete visitor request", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "visitor request deleted",
	})
}

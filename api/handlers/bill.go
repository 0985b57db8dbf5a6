package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/api"
	"github.com/societyhq/society-api/config"
	"github.com/societyhq/society-api/databases"
	"github.com/societyhq/society-api/models"
)

// Bill exported for testing purposes
type Bill struct {
	DB databases.BillDatabase
}

// BillCreateHandler lets an admin raise a bill against a flat
func (b Bill) BillCreateHandler(w http.ResponseWriter, r *http.Request) {
	adminID := mux.Vars(r)["admin_id"]

	aID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid bill request", http.StatusBadRequest, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	bill := models.Bill{
		ID:        primitive.NewObjectID(),
		AdminID:   aID,
		MemberUID: req.MemberUID,
		FlatID:    req.FlatID,
		Category:  req.Category,
		AmountDue: req.AmountDue,
		Currency:  strings.ToLower(req.Currency),
		DueDate:   req.DueDate,
		Status:    models.BillStatusUnpaid,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := b.DB.InsertOne(ctx, bill); err != nil {
		config.ErrorStatus("failed to create bill", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "bill created",
		"bill":    bill,
	})
}

// BillsByMemberHandler lists the authenticated member's bills
func (b Bill) BillsByMemberHandler(w http.ResponseWriter, r *http.Request) {
	memberUID, ok := api.MemberUIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("member authentication required", http.StatusUnauthorized, w, fmt.Errorf("no member uid in context"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := b.DB.Find(ctx, bson.M{"memberUid": memberUID}, options.Find().SetSort(bson.M{"dueDate": 1}))
	if err != nil {
		config.ErrorStatus("failed to get bills", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.Bill{}
	}
	body, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// BillPayHandler creates a Stripe Checkout session for an unpaid bill and
// returns its URL. Payment confirmation is recorded out of band by the admin
// marking the bill paid.
func (b Bill) BillPayHandler(w http.ResponseWriter, r *http.Request) {
	memberUID, ok := api.MemberUIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("member authentication required", http.StatusUnauthorized, w, fmt.Errorf("no member uid in context"))
		return
	}

	billID := mux.Vars(r)["bill_id"]
	bID, err := primitive.ObjectIDFromHex(billID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	bill, err := b.DB.FindOne(ctx, bson.M{"_id": bID, "memberUid": memberUID})
	if err != nil {
		config.ErrorStatus("bill not found", http.StatusNotFound, w, err)
		return
	}
	if bill.Status != models.BillStatusUnpaid {
		config.ErrorStatus("bill is not payable", http.StatusBadRequest, w, fmt.Errorf("bill status is %q", bill.Status))
		return
	}

	baseURL := strings.TrimRight(os.Getenv("BASE_URL"), "/")
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(bill.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%s bill for flat %s", bill.Category, bill.FlatID)),
					},
					UnitAmount: stripe.Int64(bill.AmountDue),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(baseURL + "/api/v1/success"),
		CancelURL:         stripe.String(baseURL + "/api/v1/cancel"),
		ClientReferenceID: stripe.String(bill.ID.Hex()),
	}

	s, err := session.New(params)
	if err != nil {
		config.ErrorStatus("failed to create checkout session", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"checkoutUrl": s.URL,
		"sessionId":   s.ID,
	})
}

// BillMarkPaidHandler records an unpaid bill as settled
func (b Bill) BillMarkPaidHandler(w http.ResponseWriter, r *http.Request) {
	billID := mux.Vars(r)["bill_id"]

	bID, err := primitive.ObjectIDFromHex(billID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	update := bson.M{"$set": bson.M{
		"status":    models.BillStatusPaid,
		"paidAt":    now,
		"updatedAt": now,
	}}
	if err := b.DB.UpdateOne(ctx, bson.M{"_id": bID, "status": models.BillStatusUnpaid}, update); err != nil {
		config.ErrorStatus("failed to mark bill paid", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "bill marked paid",
	})
}

// handleSuccessRedirect is the landing page after a completed checkout
func (b Bill) handleSuccessRedirect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "payment received, your society admin will confirm shortly"})
}

// handleCancelRedirect is the landing page after an abandoned checkout
func (b Bill) handleCancelRedirect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "payment cancelled"})
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/societyhq/society-api/api"
	"github.com/societyhq/society-api/api/handlers"
	"github.com/societyhq/society-api/databases"
	mocksdb "github.com/societyhq/society-api/databases/mocks"
	"github.com/societyhq/society-api/models"
)

type fakeNotifier struct {
	approved []*models.VisitorRequest
}

func (f *fakeNotifier) VisitorApproved(v *models.VisitorRequest) {
	f.approved = append(f.approved, v)
}

func guardPasswordHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func memberAuthedRequest(t *testing.T, method, url, uid string, body interface{}) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	return req.WithContext(api.ContextWithMemberUID(req.Context(), uid))
}

func TestVisitor_VisitorCreateHandlerNoAuth(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/visitors", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatal(err)
	}

	v := handlers.Visitor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "member authentication required")
}

func TestVisitor_VisitorCreateHandlerInvalidBody(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/visitors", bytes.NewReader([]byte(`{bad`)))
	if err != nil {
		t.Fatal(err)
	}
	req = req.WithContext(api.ContextWithMemberUID(req.Context(), "member-1"))

	v := handlers.Visitor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to decode request body")
}

func TestVisitor_VisitorCreateHandlerUnknownGate(t *testing.T) {
	req := memberAuthedRequest(t, "POST", "/api/v1/visitors", "member-1", models.CreateVisitorRequest{
		PreApprovalType: models.PreApprovalOther,
		GateIDs:         []string{"G9"},
	})

	v := handlers.Visitor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid pre-approval request")
}

func TestVisitor_VisitorCreateHandlerMemberNotFound(t *testing.T) {
	req := memberAuthedRequest(t, "POST", "/api/v1/visitors", "member-1", models.CreateVisitorRequest{
		PreApprovalType: models.PreApprovalOther,
		GateIDs:         []string{"G1"},
	})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "members").Return(conn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		MDB: databases.NewMemberDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "member not found")
}

func TestVisitor_VisitorCreateHandlerSocietyMismatch(t *testing.T) {
	req := memberAuthedRequest(t, "POST", "/api/v1/visitors", "member-1", models.CreateVisitorRequest{
		AdminID:         primitive.NewObjectID().Hex(),
		PreApprovalType: models.PreApprovalOther,
		GateIDs:         []string{"G1"},
	})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Member)
		(*arg).UID = "member-1"
		(*arg).CreatorAdminID = primitive.NewObjectID()
		(*arg).Active = true
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "members").Return(conn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		MDB: databases.NewMemberDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "member does not belong to this society")
}

func TestVisitor_VisitorCreateHandlerSuccess(t *testing.T) {
	req := memberAuthedRequest(t, "POST", "/api/v1/visitors", "member-1", models.CreateVisitorRequest{
		PreApprovalType: models.PreApprovalCab,
		GateIDs:         []string{"G1", "G2"},
		Cab:             &models.CabDetails{VehicleNumber: "KA01AB1234", CabCompanyName: "QuickCabs"},
	})

	adminID := primitive.NewObjectID()

	db := &mocksdb.DatabaseHelper{}
	membersConn := &mocksdb.CollectionHelper{}
	visitorsConn := &mocksdb.CollectionHelper{}
	memberResult := &mocksdb.SingleResultHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}

	memberResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Member)
		(*arg).UID = "member-1"
		(*arg).FlatID = "A-101"
		(*arg).CreatorAdminID = adminID
		(*arg).Active = true
	})
	membersConn.On("FindOne", mock.Anything, mock.Anything).Return(memberResult)
	visitorsConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	visitorsConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.On("Collection", "members").Return(membersConn)
	db.On("Collection", "visitors").Return(visitorsConn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		MDB: databases.NewMemberDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Message string                `json:"message"`
		Visitor models.VisitorRequest `json:"visitor"`
	}
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)

	assert.Equal(t, models.VisitorStatusPending, resp.Visitor.Status)
	assert.Equal(t, adminID, resp.Visitor.AdminID)
	assert.Equal(t, "A-101", resp.Visitor.FlatID)
	assert.Equal(t, 1, resp.Visitor.TotalCount)
	assert.Equal(t, 0, resp.Visitor.ApprovedCount)
	assert.Len(t, resp.Visitor.OTPCode, 4)
	assert.Contains(t, resp.Message, resp.Visitor.OTPCode)
	assert.Contains(t, resp.Message, "driver")
}

func TestVisitor_VisitorCreateHandlerGroupInvite(t *testing.T) {
	req := memberAuthedRequest(t, "POST", "/api/v1/visitors", "member-1", models.CreateVisitorRequest{
		PreApprovalType: models.PreApprovalGuest,
		GateIDs:         []string{"G3"},
		TotalCount:      12,
		Guest:           &models.GuestDetails{InviteType: models.InviteGroup},
	})

	db := &mocksdb.DatabaseHelper{}
	membersConn := &mocksdb.CollectionHelper{}
	visitorsConn := &mocksdb.CollectionHelper{}
	memberResult := &mocksdb.SingleResultHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}

	memberResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Member)
		(*arg).UID = "member-1"
		(*arg).FlatID = "B-204"
		(*arg).CreatorAdminID = primitive.NewObjectID()
		(*arg).Active = true
	})
	membersConn.On("FindOne", mock.Anything, mock.Anything).Return(memberResult)
	visitorsConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	visitorsConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.On("Collection", "members").Return(membersConn)
	db.On("Collection", "visitors").Return(visitorsConn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		MDB: databases.NewMemberDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Message string                `json:"message"`
		Visitor models.VisitorRequest `json:"visitor"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	assert.Equal(t, 12, resp.Visitor.TotalCount)
	assert.Contains(t, resp.Message, "Group invite created for 12 guests")
}

func TestVisitor_VisitorCreateHandlerDefaultExpiry(t *testing.T) {
	req := memberAuthedRequest(t, "POST", "/api/v1/visitors", "member-1", models.CreateVisitorRequest{
		PreApprovalType: models.PreApprovalOther,
		GateIDs:         []string{"G1"},
	})

	db := &mocksdb.DatabaseHelper{}
	membersConn := &mocksdb.CollectionHelper{}
	visitorsConn := &mocksdb.CollectionHelper{}
	memberResult := &mocksdb.SingleResultHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}

	memberResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Member)
		(*arg).UID = "member-1"
		(*arg).FlatID = "A-101"
		(*arg).CreatorAdminID = primitive.NewObjectID()
		(*arg).Active = true
	})
	membersConn.On("FindOne", mock.Anything, mock.Anything).Return(memberResult)
	visitorsConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	visitorsConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.On("Collection", "members").Return(membersConn)
	db.On("Collection", "visitors").Return(visitorsConn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		MDB: databases.NewMemberDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Visitor models.VisitorRequest `json:"visitor"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	// an absent expiryHours yields a 1-hour window
	window := resp.Visitor.Expiry.Time().Sub(resp.Visitor.CreatedAt.Time())
	assert.Equal(t, time.Hour, window)
}

func TestVisitor_VisitorCreateHandlerClampsExpiry(t *testing.T) {
	req := memberAuthedRequest(t, "POST", "/api/v1/visitors", "member-1", models.CreateVisitorRequest{
		PreApprovalType: models.PreApprovalOther,
		GateIDs:         []string{"G1"},
		ExpiryHours:     20,
	})

	db := &mocksdb.DatabaseHelper{}
	membersConn := &mocksdb.CollectionHelper{}
	visitorsConn := &mocksdb.CollectionHelper{}
	memberResult := &mocksdb.SingleResultHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}

	memberResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Member)
		(*arg).UID = "member-1"
		(*arg).FlatID = "A-101"
		(*arg).CreatorAdminID = primitive.NewObjectID()
		(*arg).Active = true
	})
	membersConn.On("FindOne", mock.Anything, mock.Anything).Return(memberResult)
	visitorsConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	visitorsConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.On("Collection", "members").Return(membersConn)
	db.On("Collection", "visitors").Return(visitorsConn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		MDB: databases.NewMemberDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorCreateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Visitor models.VisitorRequest `json:"visitor"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	window := resp.Visitor.Expiry.Time().Sub(resp.Visitor.CreatedAt.Time())
	assert.Equal(t, 8*time.Hour, window)
}

func TestVisitor_GuardVisitorListHandlerBadCredentials(t *testing.T) {
	body, _ := json.Marshal(models.GuardListRequest{MobileNumber: "9000000000", Password: "wrong"})
	req, err := http.NewRequest("POST", "/api/v1/visitors/guard-list", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "guards").Return(conn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		GDB: databases.NewGuardDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.GuardVisitorListHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "guard authentication failed")
}

func TestVisitor_GuardVisitorListHandlerWrongPassword(t *testing.T) {
	body, _ := json.Marshal(models.GuardListRequest{MobileNumber: "9000000000", Password: "wrong"})
	req, err := http.NewRequest("POST", "/api/v1/visitors/guard-list", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	hash := guardPasswordHash(t, "secret123")
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Guard)
		(*arg).MobileNumber = "9000000000"
		(*arg).PasswordHash = hash
		(*arg).GateID = "G1"
		(*arg).Active = true
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "guards").Return(conn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		GDB: databases.NewGuardDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.GuardVisitorListHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestVisitor_GuardVisitorListHandlerSuccess(t *testing.T) {
	body, _ := json.Marshal(models.GuardListRequest{MobileNumber: "9000000000", Password: "secret123"})
	req, err := http.NewRequest("POST", "/api/v1/visitors/guard-list", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	adminID := primitive.NewObjectID()

	db := &mocksdb.DatabaseHelper{}
	guardsConn := &mocksdb.CollectionHelper{}
	visitorsConn := &mocksdb.CollectionHelper{}
	guardResult := &mocksdb.SingleResultHelper{}
	cursorHelper := &mocksdb.CursorHelper{}

	hash := guardPasswordHash(t, "secret123")
	guardResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Guard)
		(*arg).MobileNumber = "9000000000"
		(*arg).PasswordHash = hash
		(*arg).GateID = "G2"
		(*arg).AdminID = adminID
		(*arg).Active = true
	})
	guardsConn.On("FindOne", mock.Anything, mock.Anything).Return(guardResult)

	cursorHelper.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.VisitorRequest)
		*arg = []models.VisitorRequest{{
			ID:              primitive.NewObjectID(),
			AdminID:         adminID,
			PreApprovalType: models.PreApprovalDelivery,
			GateIDs:         []string{"G2"},
			Status:          models.VisitorStatusPending,
			TotalCount:      1,
			Delivery:        &models.DeliveryDetails{DeliveryCompanyName: "SpeedPost"},
		}}
	})
	cursorHelper.On("Close", mock.Anything).Return(nil)
	visitorsConn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorHelper, nil)

	db.On("Collection", "guards").Return(guardsConn)
	db.On("Collection", "visitors").Return(visitorsConn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		GDB: databases.NewGuardDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.GuardVisitorListHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var views []models.GuardVisitorView
	_ = json.Unmarshal(rr.Body.Bytes(), &views)

	assert.Len(t, views, 1)
	assert.Equal(t, "SpeedPost", views[0].DisplayNameValue)
	assert.Equal(t, "0/1", views[0].ProgressValue)
}

func TestVisitor_GuardVisitorListHandlerMissingCredentials(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/visitors/guard-list", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatal(err)
	}

	v := handlers.Visitor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.GuardVisitorListHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid guard list request")
}

func TestVisitor_VisitorApproveHandlerMalformedOTP(t *testing.T) {
	body, _ := json.Marshal(models.ApproveVisitorRequest{
		VisitorID:    primitive.NewObjectID().Hex(),
		OTPCode:      "42",
		MobileNumber: "9000000000",
		Password:     "secret123",
	})
	req, err := http.NewRequest("POST", "/api/v1/visitors/approve", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	v := handlers.Visitor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorApproveHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid approval request")
}

func TestVisitor_VisitorApproveHandlerBadVisitorID(t *testing.T) {
	body, _ := json.Marshal(models.ApproveVisitorRequest{
		VisitorID:    "1234",
		OTPCode:      "0042",
		MobileNumber: "9000000000",
		Password:     "secret123",
	})
	req, err := http.NewRequest("POST", "/api/v1/visitors/approve", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	guardsConn := &mocksdb.CollectionHelper{}
	guardResult := &mocksdb.SingleResultHelper{}

	hash := guardPasswordHash(t, "secret123")
	guardResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Guard)
		(*arg).MobileNumber = "9000000000"
		(*arg).PasswordHash = hash
		(*arg).GateID = "G1"
		(*arg).Active = true
	})
	guardsConn.On("FindOne", mock.Anything, mock.Anything).Return(guardResult)
	db.On("Collection", "guards").Return(guardsConn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		GDB: databases.NewGuardDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorApproveHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from Hex")
}

func TestVisitor_VisitorApproveHandlerRejected(t *testing.T) {
	body, _ := json.Marshal(models.ApproveVisitorRequest{
		VisitorID:    primitive.NewObjectID().Hex(),
		OTPCode:      "0042",
		MobileNumber: "9000000000",
		Password:     "secret123",
	})
	req, err := http.NewRequest("POST", "/api/v1/visitors/approve", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	guardsConn := &mocksdb.CollectionHelper{}
	visitorsConn := &mocksdb.CollectionHelper{}
	guardResult := &mocksdb.SingleResultHelper{}
	approveResult := &mocksdb.SingleResultHelper{}

	hash := guardPasswordHash(t, "secret123")
	guardResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Guard)
		(*arg).MobileNumber = "9000000000"
		(*arg).PasswordHash = hash
		(*arg).GateID = "G1"
		(*arg).Active = true
	})
	guardsConn.On("FindOne", mock.Anything, mock.Anything).Return(guardResult)

	approveResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	visitorsConn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(approveResult)

	db.On("Collection", "guards").Return(guardsConn)
	db.On("Collection", "visitors").Return(visitorsConn)

	notifier := &fakeNotifier{}
	v := handlers.Visitor{
		DB:       databases.NewVisitorDatabase(db),
		GDB:      databases.NewGuardDatabase(db),
		Notifier: notifier,
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorApproveHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid OTP or visitor request no longer pending")
	assert.Empty(t, notifier.approved)
}

func TestVisitor_VisitorApproveHandlerSuccess(t *testing.T) {
	visitorID := primitive.NewObjectID()
	body, _ := json.Marshal(models.ApproveVisitorRequest{
		VisitorID:    visitorID.Hex(),
		OTPCode:      "0042",
		MobileNumber: "9000000000",
		Password:     "secret123",
	})
	req, err := http.NewRequest("POST", "/api/v1/visitors/approve", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	guardsConn := &mocksdb.CollectionHelper{}
	visitorsConn := &mocksdb.CollectionHelper{}
	guardResult := &mocksdb.SingleResultHelper{}
	approveResult := &mocksdb.SingleResultHelper{}

	hash := guardPasswordHash(t, "secret123")
	guardResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Guard)
		(*arg).MobileNumber = "9000000000"
		(*arg).PasswordHash = hash
		(*arg).GateID = "G1"
		(*arg).Active = true
	})
	guardsConn.On("FindOne", mock.Anything, mock.Anything).Return(guardResult)

	approveResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.VisitorRequest)
		(*arg).ID = visitorID
		(*arg).PreApprovalType = models.PreApprovalGuest
		(*arg).Guest = &models.GuestDetails{InviteType: models.InviteSingle, GuestName: "Ravi"}
		(*arg).ApprovedCount = 1
		(*arg).TotalCount = 1
		(*arg).Status = models.VisitorStatusApproved
	})
	visitorsConn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(approveResult)

	db.On("Collection", "guards").Return(guardsConn)
	db.On("Collection", "visitors").Return(visitorsConn)

	notifier := &fakeNotifier{}
	v := handlers.Visitor{
		DB:       databases.NewVisitorDatabase(db),
		GDB:      databases.NewGuardDatabase(db),
		Notifier: notifier,
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorApproveHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	assert.Equal(t, "visitor approved", resp["message"])
	assert.Equal(t, "Ravi", resp["displayName"])
	assert.Equal(t, "1/1", resp["progress"])
	assert.Equal(t, true, resp["isFullyApproved"])

	assert.Len(t, notifier.approved, 1)
	assert.Equal(t, visitorID, notifier.approved[0].ID)
}

func TestVisitor_VisitorApproveHandlerPartialGroup(t *testing.T) {
	visitorID := primitive.NewObjectID()
	body, _ := json.Marshal(models.ApproveVisitorRequest{
		VisitorID:    visitorID.Hex(),
		OTPCode:      "0042",
		MobileNumber: "9000000000",
		Password:     "secret123",
	})
	req, err := http.NewRequest("POST", "/api/v1/visitors/approve", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	guardsConn := &mocksdb.CollectionHelper{}
	visitorsConn := &mocksdb.CollectionHelper{}
	guardResult := &mocksdb.SingleResultHelper{}
	approveResult := &mocksdb.SingleResultHelper{}

	hash := guardPasswordHash(t, "secret123")
	guardResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Guard)
		(*arg).MobileNumber = "9000000000"
		(*arg).PasswordHash = hash
		(*arg).GateID = "G1"
		(*arg).Active = true
	})
	guardsConn.On("FindOne", mock.Anything, mock.Anything).Return(guardResult)

	approveResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.VisitorRequest)
		(*arg).ID = visitorID
		(*arg).PreApprovalType = models.PreApprovalGuest
		(*arg).Guest = &models.GuestDetails{InviteType: models.InviteGroup}
		(*arg).ApprovedCount = 4
		(*arg).TotalCount = 10
		(*arg).Status = models.VisitorStatusPending
	})
	visitorsConn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(approveResult)

	db.On("Collection", "guards").Return(guardsConn)
	db.On("Collection", "visitors").Return(visitorsConn)

	v := handlers.Visitor{
		DB:  databases.NewVisitorDatabase(db),
		GDB: databases.NewGuardDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorApproveHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	assert.Equal(t, "Group (4/10)", resp["displayName"])
	assert.Equal(t, "4/10", resp["progress"])
	assert.Equal(t, false, resp["isFullyApproved"])
}

func TestVisitor_AdminVisitorListHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/visitors/admin/1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"admin_id": "1234"})

	v := handlers.Visitor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.AdminVisitorListHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	expected := fmt.Sprintf(`{"response": "failed to get objectID from Hex, %v"}`, primitive.ErrInvalidHex)
	assert.Equal(t, expected, rr.Body.String())
}

func TestVisitor_AdminVisitorListHandlerEmptyResponse(t *testing.T) {
	adminID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/visitors/admin/"+adminID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"admin_id": adminID.Hex()})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursorHelper := &mocksdb.CursorHelper{}

	cursorHelper.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.VisitorRequest)
		*arg = nil
	})
	cursorHelper.On("Close", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db.On("Collection", "visitors").Return(conn)

	v := handlers.Visitor{DB: databases.NewVisitorDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.AdminVisitorListHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestVisitor_VisitorStatusUpdateHandlerRejectsOtherStatus(t *testing.T) {
	visitorID := primitive.NewObjectID()
	body, _ := json.Marshal(models.UpdateVisitorStatusRequest{Status: models.VisitorStatusExpired})
	req, err := http.NewRequest("PATCH", "/api/v1/visitors/"+visitorID.Hex()+"/status", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"visitor_id": visitorID.Hex()})

	v := handlers.Visitor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorStatusUpdateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "status must be 'approved'")
}

func TestVisitor_VisitorStatusUpdateHandlerSuccess(t *testing.T) {
	visitorID := primitive.NewObjectID()
	body, _ := json.Marshal(models.UpdateVisitorStatusRequest{Status: models.VisitorStatusApproved})
	req, err := http.NewRequest("PATCH", "/api/v1/visitors/"+visitorID.Hex()+"/status", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"visitor_id": visitorID.Hex()})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.VisitorRequest)
		(*arg).ID = visitorID
		(*arg).PreApprovalType = models.PreApprovalGuest
		(*arg).Guest = &models.GuestDetails{InviteType: models.InviteGroup}
		(*arg).ApprovedCount = 10
		(*arg).TotalCount = 10
		(*arg).Status = models.VisitorStatusApproved
	})
	conn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "visitors").Return(conn)

	notifier := &fakeNotifier{}
	v := handlers.Visitor{DB: databases.NewVisitorDatabase(db), Notifier: notifier}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorStatusUpdateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "visitor request approved")
	assert.Len(t, notifier.approved, 1)
}

func TestVisitor_VisitorStatusUpdateHandlerNotPending(t *testing.T) {
	visitorID := primitive.NewObjectID()
	body, _ := json.Marshal(models.UpdateVisitorStatusRequest{Status: models.VisitorStatusApproved})
	req, err := http.NewRequest("PATCH", "/api/v1/visitors/"+visitorID.Hex()+"/status", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"visitor_id": visitorID.Hex()})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "visitors").Return(conn)

	v := handlers.Visitor{DB: databases.NewVisitorDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorStatusUpdateHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "visitor request not found or not pending")
}

func TestVisitor_VisitorDeleteHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/visitors/1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"visitor_id": "1234"})

	v := handlers.Visitor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(v.VisitorDeleteHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

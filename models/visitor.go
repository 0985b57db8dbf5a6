package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visitor status values
const (
	VisitorStatusPending  = "pending"
	VisitorStatusApproved = "approved"
	VisitorStatusExpired  = "expired"
)

// Pre-approval types
const (
	PreApprovalGuest    = "guest"
	PreApprovalCab      = "cab"
	PreApprovalDelivery = "delivery"
	PreApprovalTools    = "tools"
	PreApprovalOther    = "other"
)

// Guest invite types
const (
	InviteSingle = "single"
	InviteGroup  = "group"
)

// Gates holds the fixed set of physical entry points a pre-approval can be scoped to
var Gates = []string{"G1", "G2", "G3", "G4", "G5", "G6"}

// IsValidGate reports whether id is one of the six known gates
func IsValidGate(id string) bool {
	for _, g := range Gates {
		if g == id {
			return true
		}
	}
	return false
}

// VisitorRequest holds the structure for the visitors collection in mongo.
// Exactly one of the detail structs is set, matching PreApprovalType.
type VisitorRequest struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id"`
	AdminID         primitive.ObjectID `json:"adminId" bson:"adminId"`
	MemberUID       string             `json:"memberUid" bson:"memberUid"`
	FlatID          string             `json:"flatId" bson:"flatId"`
	PreApprovalType string             `json:"preApprovalType" bson:"preApprovalType"`
	GateIDs         []string           `json:"gateId" bson:"gateId"`
	OTPCode         string             `json:"otpCode" bson:"otpCode"`
	TotalCount      int                `json:"totalCount" bson:"totalCount"`
	ApprovedCount   int                `json:"approvedCount" bson:"approvedCount"`
	Status          string             `json:"status" bson:"status"`
	Expiry          primitive.DateTime `json:"expiry" bson:"expiry"`
	Guest           *GuestDetails      `json:"guest,omitempty" bson:"guest,omitempty"`
	Cab             *CabDetails        `json:"cab,omitempty" bson:"cab,omitempty"`
	Delivery        *DeliveryDetails   `json:"delivery,omitempty" bson:"delivery,omitempty"`
	Tools           *ToolsDetails      `json:"tools,omitempty" bson:"tools,omitempty"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// GuestDetails carries the guest variant fields
type GuestDetails struct {
	InviteType string `json:"inviteType" bson:"inviteType"`
	GuestName  string `json:"guestName,omitempty" bson:"guestName,omitempty"`
	GuestPhone string `json:"guestPhone,omitempty" bson:"guestPhone,omitempty"`
}

// CabDetails carries the cab variant fields
type CabDetails struct {
	VehicleNumber  string `json:"vehicleNumber" bson:"vehicleNumber"`
	CabCompanyName string `json:"cabCompanyName" bson:"cabCompanyName"`
}

// DeliveryDetails carries the delivery variant fields
type DeliveryDetails struct {
	DeliveryCompanyName string `json:"deliveryCompanyName" bson:"deliveryCompanyName"`
}

// ToolsDetails carries the tools/service variant fields
type ToolsDetails struct {
	ServiceName        string `json:"serviceName" bson:"serviceName"`
	ServicePersonName  string `json:"servicePersonName" bson:"servicePersonName"`
	ServicePersonPhone string `json:"servicePersonPhone" bson:"servicePersonPhone"`
}

// CreateVisitorRequest holds the payload for creating a pre-approval
type CreateVisitorRequest struct {
	MemberUID       string           `json:"memberUid" validate:"required"`
	AdminID         string           `json:"adminId,omitempty"`
	FlatID          string           `json:"flatId,omitempty"`
	PreApprovalType string           `json:"preApprovalType" validate:"required,oneof=guest cab delivery tools other"`
	GateIDs         []string         `json:"gateId" validate:"required,min=1"`
	ExpiryHours     int              `json:"expiryHours,omitempty"`
	TotalCount      int              `json:"totalCount,omitempty"`
	Guest           *GuestDetails    `json:"guest,omitempty"`
	Cab             *CabDetails      `json:"cab,omitempty"`
	Delivery        *DeliveryDetails `json:"delivery,omitempty"`
	Tools           *ToolsDetails    `json:"tools,omitempty"`
}

// Validate enforces gate and per-variant required fields
func (c *CreateVisitorRequest) Validate() error {
	if len(c.GateIDs) == 0 {
		return fmt.Errorf("gateId must be a non-empty array")
	}
	for _, g := range c.GateIDs {
		if !IsValidGate(g) {
			return fmt.Errorf("unknown gate %q", g)
		}
	}

	switch c.PreApprovalType {
	case PreApprovalGuest:
		if c.Guest == nil {
			return fmt.Errorf("missing required fields for guest pre-approval")
		}
		switch c.Guest.InviteType {
		case InviteSingle:
			if c.Guest.GuestName == "" || c.Guest.GuestPhone == "" {
				return fmt.Errorf("missing required fields for guest pre-approval")
			}
		case InviteGroup:
			if c.TotalCount < 2 || c.TotalCount > 50 {
				return fmt.Errorf("group invite totalCount must be between 2 and 50")
			}
		default:
			return fmt.Errorf("inviteType must be single or group")
		}
	case PreApprovalCab:
		if c.Cab == nil || c.Cab.VehicleNumber == "" || c.Cab.CabCompanyName == "" {
			return fmt.Errorf("missing required fields for cab pre-approval")
		}
	case PreApprovalDelivery:
		if c.Delivery == nil || c.Delivery.DeliveryCompanyName == "" {
			return fmt.Errorf("missing required fields for delivery pre-approval")
		}
	case PreApprovalTools:
		if c.Tools == nil || c.Tools.ServiceName == "" || c.Tools.ServicePersonName == "" || c.Tools.ServicePersonPhone == "" {
			return fmt.Errorf("missing required fields for tools pre-approval")
		}
	case PreApprovalOther:
		// no extra fields
	default:
		return fmt.Errorf("unknown preApprovalType %q", c.PreApprovalType)
	}
	return nil
}

// DisplayName computes the presentation name shown to gate guards
func (v *VisitorRequest) DisplayName() string {
	switch v.PreApprovalType {
	case PreApprovalGuest:
		if v.Guest != nil && v.Guest.InviteType == InviteSingle {
			return v.Guest.GuestName
		}
		return fmt.Sprintf("Group (%d/%d)", v.ApprovedCount, v.TotalCount)
	case PreApprovalCab:
		if v.Cab != nil {
			return fmt.Sprintf("%s - %s", v.Cab.VehicleNumber, v.Cab.CabCompanyName)
		}
	case PreApprovalDelivery:
		if v.Delivery != nil {
			return v.Delivery.DeliveryCompanyName
		}
	case PreApprovalTools:
		if v.Tools != nil {
			return fmt.Sprintf("%s - %s", v.Tools.ServiceName, v.Tools.ServicePersonName)
		}
	}
	return "Visitor"
}

// Progress renders the approvedCount/totalCount string
func (v *VisitorRequest) Progress() string {
	return fmt.Sprintf("%d/%d", v.ApprovedCount, v.TotalCount)
}

// IsFullyApproved reports whether every expected entry has been admitted
func (v *VisitorRequest) IsFullyApproved() bool {
	return v.ApprovedCount >= v.TotalCount
}

// GuardVisitorView is the guard-facing listing shape
type GuardVisitorView struct {
	VisitorRequest
	DisplayNameValue string `json:"displayName"`
	ProgressValue    string `json:"progress"`
}

// ApproveVisitorRequest holds the payload for an OTP-gated approval
type ApproveVisitorRequest struct {
	VisitorID    string `json:"visitorId" validate:"required"`
	OTPCode      string `json:"otpCode" validate:"required,len=4,numeric"`
	MobileNumber string `json:"mobilenumber" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// GuardListRequest holds the guard credentials for the gate listing call
type GuardListRequest struct {
	MobileNumber string `json:"mobilenumber" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// UpdateVisitorStatusRequest holds the admin override payload
type UpdateVisitorStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

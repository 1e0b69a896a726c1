// Package residency covers tenant accounts: shadow identities created on behalf of
// residents who never sign in, and the profile rows that link them to a house.
package residency

import (
	"strings"
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RoleTenant is the profile role of every provisioned resident
const RoleTenant = "tenant"

// Residency errors
var (
	ErrHouseNotFound          = shared.NewDomainError(shared.CodeHouseNotFound, "House not found")
	ErrIdentityProvisioning   = shared.NewDomainError(shared.CodeIdentityProvisioningFailed, "Failed to create identity")
	ErrProfileWrite           = shared.NewDomainError(shared.CodeProfileWriteFailed, "Failed to create tenant profile")
	ErrMetadataSync           = shared.NewDomainError(shared.CodeMetadataSyncFailed, "Failed to refresh identity metadata")
	ErrIdentityNotFound       = shared.NewDomainError(shared.CodeNotFound, "Identity not found")
	ErrTenantProfileNotFound  = shared.NewDomainError(shared.CodeNotFound, "Tenant profile not found")
	ErrIdentityEmailDuplicate = shared.NewDomainError(shared.CodeAlreadyExists, "An identity with this email already exists")
)

// TenantRequest is the validated input of a provisioning call
type TenantRequest struct {
	FullName    string
	PhoneNumber string
	HouseID     uuid.UUID
}

// NewTenantRequest trims and validates provisioning input
func NewTenantRequest(fullName, phoneNumber string, houseID uuid.UUID) (TenantRequest, error) {
	name := strings.TrimSpace(fullName)
	phone := strings.TrimSpace(phoneNumber)
	switch {
	case name == "":
		return TenantRequest{}, shared.NewValidationError("Full name is required")
	case phone == "":
		return TenantRequest{}, shared.NewValidationError("Phone number is required")
	case houseID == uuid.Nil:
		return TenantRequest{}, shared.NewValidationError("House is required")
	}
	if DigitsOnly(phone) == "" {
		return TenantRequest{}, shared.NewValidationError("Phone number must contain digits")
	}
	return TenantRequest{FullName: name, PhoneNumber: phone, HouseID: houseID}, nil
}

// Metadata returns the identity metadata for the request
func (r TenantRequest) Metadata() IdentityMetadata {
	return IdentityMetadata{
		FullName:        r.FullName,
		PhoneNumber:     r.PhoneNumber,
		IsShadowAccount: true,
	}
}

// TenantProfile links a shadow identity to a house
type TenantProfile struct {
	IdentityID  uuid.UUID
	ShadowEmail string
	Role        string
	HouseID     uuid.UUID
	FullName    string
	PhoneNumber string
	CreatedAt   time.Time
}

// NewTenantProfile builds the profile row for an identity created for req
func NewTenantProfile(identity Identity, req TenantRequest, now time.Time) *TenantProfile {
	return &TenantProfile{
		IdentityID:  identity.ID,
		ShadowEmail: identity.Email,
		Role:        RoleTenant,
		HouseID:     req.HouseID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   now,
	}
}

package residency

import (
	"time"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/google/uuid"
)

// ProvisionTenantRequest represents a request to create a shadow tenant account
type ProvisionTenantRequest struct {
	FullName    string    `json:"full_name" binding:"required,max=200"`
	PhoneNumber string    `json:"phone_number" binding:"required,max=30,phone"`
	HouseID     uuid.UUID `json:"house_id"`
}

// TenantAccountResponse represents a provisioned tenant. The shadow password
// is never part of it.
type TenantAccountResponse struct {
	IdentityID  uuid.UUID `json:"identity_id"`
	ShadowEmail string    `json:"shadow_email"`
	Role        string    `json:"role"`
	HouseID     uuid.UUID `json:"house_id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// ToTenantAccountResponse converts a tenant profile to a response
func ToTenantAccountResponse(p *residency.TenantProfile, warnings []string) TenantAccountResponse {
	return TenantAccountResponse{
		IdentityID:  p.IdentityID,
		ShadowEmail: p.ShadowEmail,
		Role:        p.Role,
		HouseID:     p.HouseID,
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		CreatedAt:   p.CreatedAt,
		Warnings:    warnings,
	}
}

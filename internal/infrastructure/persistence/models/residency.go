package models

import (
	"time"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/google/uuid"
)

// TenantProfileModel is the persistence model for a tenant profile.
// house_id references houses with ON DELETE RESTRICT.
type TenantProfileModel struct {
	IdentityID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShadowEmail string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Role        string    `gorm:"type:varchar(20);not null;default:'tenant'"`
	HouseID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName    string    `gorm:"type:varchar(200);not null"`
	PhoneNumber string    `gorm:"type:varchar(30);not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TenantProfileModel) TableName() string {
	return "tenant_profiles"
}

// ToDomain converts the persistence model to a domain TenantProfile
func (m *TenantProfileModel) ToDomain() *residency.TenantProfile {
	return &residency.TenantProfile{
		IdentityID:  m.IdentityID,
		ShadowEmail: m.ShadowEmail,
		Role:        m.Role,
		HouseID:     m.HouseID,
		FullName:    m.FullName,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   m.CreatedAt,
	}
}

// TenantProfileModelFromDomain creates a new persistence model from a domain TenantProfile
func TenantProfileModelFromDomain(p *residency.TenantProfile) *TenantProfileModel {
	return &TenantProfileModel{
		IdentityID:  p.IdentityID,
		ShadowEmail: p.ShadowEmail,
		Role:        p.Role,
		HouseID:     p.HouseID,
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		CreatedAt:   p.CreatedAt,
	}
}

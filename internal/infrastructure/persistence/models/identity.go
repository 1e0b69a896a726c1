package models

import (
	"encoding/json"
	"time"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/google/uuid"
)

// IdentityModel backs the local identity store
type IdentityModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	ConfirmedAt  *time.Time `gorm:"column:confirmed_at"`
	Metadata     string     `gorm:"type:text;not null;default:'{}'"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IdentityModel) TableName() string {
	return "identities"
}

// ToDomain converts the persistence model to a domain Identity
func (m *IdentityModel) ToDomain() (*residency.Identity, error) {
	var meta residency.IdentityMetadata
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &meta); err != nil {
			return nil, err
		}
	}
	return &residency.Identity{
		ID:        m.ID,
		Email:     m.Email,
		Confirmed: m.ConfirmedAt != nil,
		Metadata:  meta,
		CreatedAt: m.CreatedAt,
	}, nil
}

// EncodeIdentityMetadata serializes metadata for the metadata column
func EncodeIdentityMetadata(meta residency.IdentityMetadata) (string, error) {
	b, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package residency

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdentityMetadata is the free-form user metadata stored with an identity
type IdentityMetadata struct {
	FullName        string `json:"name"`
	PhoneNumber     string `json:"phone_number"`
	IsShadowAccount bool   `json:"is_shadow_account,omitempty"`
}

// NewIdentity describes an identity to be created
type NewIdentity struct {
	Email     string
	Password  string
	Confirmed bool
	Metadata  IdentityMetadata
}

// Identity is an account held by the identity store
type Identity struct {
	ID        uuid.UUID
	Email     string
	Confirmed bool
	Metadata  IdentityMetadata
	CreatedAt time.Time
}

// IdentityStore is the external identity provider
type IdentityStore interface {
	// CreateIdentity creates an identity, pre-confirmed when Confirmed is set
	CreateIdentity(ctx context.Context, identity NewIdentity) (*Identity, error)

	// DeleteIdentity removes an identity. Deleting an identity that does not exist succeeds.
	DeleteIdentity(ctx context.Context, id uuid.UUID) error

	// UpdateIdentityMetadata replaces the identity's metadata
	UpdateIdentityMetadata(ctx context.Context, id uuid.UUID, metadata IdentityMetadata) error

	// FindIdentityByEmail returns ErrIdentityNotFound when no identity uses email
	FindIdentityByEmail(ctx context.Context, email string) (*Identity, error)
}

// TenantProfileRepository defines the interface for tenant profile persistence
type TenantProfileRepository interface {
	// Create inserts a profile. A missing house surfaces as ErrHouseNotFound.
	Create(ctx context.Context, profile *TenantProfile) error

	// FindByIdentityID finds the profile of an identity
	FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*TenantProfile, error)

	// FindAll returns profiles, optionally restricted to one house, newest first
	FindAll(ctx context.Context, houseID *uuid.UUID) ([]TenantProfile, error)
}

package residency

import (
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for tenant accounts
const AggregateTypeTenantAccount = "TenantAccount"

// Event type constants for tenant accounts
const (
	EventTypeTenantProvisioned            = "TenantProvisioned"
	EventTypeTenantProvisioningRolledBack = "TenantProvisioningRolledBack"
)

// TenantProvisionedEvent is published after identity and profile both exist
type TenantProvisionedEvent struct {
	shared.BaseDomainEvent
	IdentityID  uuid.UUID `json:"identity_id"`
	ShadowEmail string    `json:"shadow_email"`
	HouseID     uuid.UUID `json:"house_id"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// NewTenantProvisionedEvent creates a new TenantProvisionedEvent
func NewTenantProvisionedEvent(p *TenantProfile, warnings []string, at time.Time) *TenantProvisionedEvent {
	return &TenantProvisionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantProvisioned, AggregateTypeTenantAccount, p.IdentityID, at),
		IdentityID:      p.IdentityID,
		ShadowEmail:     p.ShadowEmail,
		HouseID:         p.HouseID,
		Warnings:        warnings,
	}
}

// TenantProvisioningRolledBackEvent is published when a failed provisioning removed its identity
type TenantProvisioningRolledBackEvent struct {
	shared.BaseDomainEvent
	IdentityID      uuid.UUID `json:"identity_id"`
	HouseID         uuid.UUID `json:"house_id"`
	FailedStep      string    `json:"failed_step"`
	Cause           string    `json:"cause"`
	CompensationErr string    `json:"compensation_error,omitempty"`
}

// NewTenantProvisioningRolledBackEvent creates a new TenantProvisioningRolledBackEvent
func NewTenantProvisioningRolledBackEvent(identityID, houseID uuid.UUID, failedStep string, cause, compensationErr error, at time.Time) *TenantProvisioningRolledBackEvent {
	e := &TenantProvisioningRolledBackEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantProvisioningRolledBack, AggregateTypeTenantAccount, identityID, at),
		IdentityID:      identityID,
		HouseID:         houseID,
		FailedStep:      failedStep,
	}
	if cause != nil {
		e.Cause = cause.Error()
	}
	if compensationErr != nil {
		e.CompensationErr = compensationErr.Error()
	}
	return e
}

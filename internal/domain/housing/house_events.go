package housing

import (
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for House
const AggregateTypeHouse = "House"

// Event type constants for House
const (
	EventTypeHouseCreated = "HouseCreated"
	EventTypeHouseUpdated = "HouseUpdated"
	EventTypeHouseDeleted = "HouseDeleted"
)

// HouseCreatedEvent is published when a new house is registered
type HouseCreatedEvent struct {
	shared.BaseDomainEvent
	HouseID               uuid.UUID `json:"house_id"`
	HouseNumber           string    `json:"house_number"`
	OwnerName             string    `json:"owner_name"`
	TotalPortions         int       `json:"total_portions"`
	RentedPortions        int       `json:"rented_portions"`
	OwnerOccupiedPortions int       `json:"owner_occupied_portions"`
	VacantPortions        int       `json:"vacant_portions"`
}

// NewHouseCreatedEvent creates a new HouseCreatedEvent
func NewHouseCreatedEvent(h *House, at time.Time) *HouseCreatedEvent {
	return &HouseCreatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeHouseCreated, AggregateTypeHouse, h.ID, at),
		HouseID:               h.ID,
		HouseNumber:           h.HouseNumber,
		OwnerName:             h.OwnerName,
		TotalPortions:         h.Portions.Total(),
		RentedPortions:        h.Portions.Rented(),
		OwnerOccupiedPortions: h.Portions.OwnerOccupied(),
		VacantPortions:        h.Portions.Vacant(),
	}
}

// HouseUpdatedEvent is published when a house is edited
type HouseUpdatedEvent struct {
	shared.BaseDomainEvent
	HouseID               uuid.UUID `json:"house_id"`
	HouseNumber           string    `json:"house_number"`
	OwnerName             string    `json:"owner_name"`
	TotalPortions         int       `json:"total_portions"`
	RentedPortions        int       `json:"rented_portions"`
	OwnerOccupiedPortions int       `json:"owner_occupied_portions"`
	VacantPortions        int       `json:"vacant_portions"`
	Version               int       `json:"version"`
}

// NewHouseUpdatedEvent creates a new HouseUpdatedEvent
func NewHouseUpdatedEvent(h *House, at time.Time) *HouseUpdatedEvent {
	return &HouseUpdatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeHouseUpdated, AggregateTypeHouse, h.ID, at),
		HouseID:               h.ID,
		HouseNumber:           h.HouseNumber,
		OwnerName:             h.OwnerName,
		TotalPortions:         h.Portions.Total(),
		RentedPortions:        h.Portions.Rented(),
		OwnerOccupiedPortions: h.Portions.OwnerOccupied(),
		VacantPortions:        h.Portions.Vacant(),
		Version:               h.Version,
	}
}

// HouseDeletedEvent is published when a house is removed from the registry
type HouseDeletedEvent struct {
	shared.BaseDomainEvent
	HouseID     uuid.UUID `json:"house_id"`
	HouseNumber string    `json:"house_number"`
}

// NewHouseDeletedEvent creates a new HouseDeletedEvent
func NewHouseDeletedEvent(h *House, at time.Time) *HouseDeletedEvent {
	return &HouseDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeHouseDeleted, AggregateTypeHouse, h.ID, at),
		HouseID:         h.ID,
		HouseNumber:     h.HouseNumber,
	}
}

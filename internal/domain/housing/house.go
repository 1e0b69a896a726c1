// Package housing owns the House aggregate and its occupancy portion split.
package housing

import (
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	maxHouseNumberLength = 50
	maxOwnerNameLength   = 200
)

// Housing errors
var (
	ErrCapacityExceeded     = shared.NewDomainError(shared.CodeCapacityExceeded, "Occupied portions exceed total portions")
	ErrHouseNotFound        = shared.NewDomainError(shared.CodeNotFound, "House not found")
	ErrDuplicateHouseNumber = shared.NewDomainError(shared.CodeAlreadyExists, "House number already exists")
	ErrHouseInUse           = shared.NewDomainError(shared.CodeHouseInUse, "House is still referenced by tenant accounts")
)

// House is a registered dwelling of the association, subdivided into portions
type House struct {
	shared.BaseAggregateRoot
	HouseNumber string
	OwnerName   string
	Portions    Portions
}

// HouseChanges holds the fields requested by an edit. Nil fields keep their current value.
type HouseChanges struct {
	HouseNumber           *string
	OwnerName             *string
	TotalPortions         *int
	RentedPortions        *int
	OwnerOccupiedPortions *int
}

// IsEmpty reports whether no field was requested
func (c HouseChanges) IsEmpty() bool {
	return c.HouseNumber == nil && c.OwnerName == nil &&
		c.TotalPortions == nil && c.RentedPortions == nil && c.OwnerOccupiedPortions == nil
}

// NewHouse registers a house. Nil portion arguments fall back to the (1,0,0) default split.
func NewHouse(houseNumber, ownerName string, total, rented, ownerOccupied *int, now time.Time) (*House, error) {
	number, err := validateHouseNumber(houseNumber)
	if err != nil {
		return nil, err
	}
	owner, err := validateOwnerName(ownerName)
	if err != nil {
		return nil, err
	}
	portions, err := DefaultPortions().Merge(total, rented, ownerOccupied)
	if err != nil {
		return nil, err
	}

	house := &House{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		HouseNumber:       number,
		OwnerName:         owner,
		Portions:          portions,
	}
	house.AddDomainEvent(NewHouseCreatedEvent(house, now))
	return house, nil
}

// Apply merges the requested changes into the house and re-derives the vacant count.
// The house is left untouched when any field is rejected.
func (h *House) Apply(changes HouseChanges, now time.Time) error {
	number := h.HouseNumber
	if changes.HouseNumber != nil {
		n, err := validateHouseNumber(*changes.HouseNumber)
		if err != nil {
			return err
		}
		number = n
	}
	owner := h.OwnerName
	if changes.OwnerName != nil {
		o, err := validateOwnerName(*changes.OwnerName)
		if err != nil {
			return err
		}
		owner = o
	}
	portions, err := h.Portions.Merge(changes.TotalPortions, changes.RentedPortions, changes.OwnerOccupiedPortions)
	if err != nil {
		return err
	}

	h.HouseNumber = number
	h.OwnerName = owner
	h.Portions = portions
	h.Touch(now)
	h.IncrementVersion()
	h.AddDomainEvent(NewHouseUpdatedEvent(h, now))
	return nil
}

// MarkDeleted records the deletion event
func (h *House) MarkDeleted(now time.Time) {
	h.AddDomainEvent(NewHouseDeletedEvent(h, now))
}

// NumberKey returns the case-folded key used for uniqueness and search
func (h *House) NumberKey() string {
	return FoldKey(h.HouseNumber)
}

// RehydrateHouse rebuilds a house from stored values without emitting events.
// The stored split is trusted; the store enforces the same invariant with a check constraint.
func RehydrateHouse(id uuid.UUID, houseNumber, ownerName string, total, rented, ownerOccupied, version int, createdAt, updatedAt time.Time) *House {
	return &House{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        id,
				CreatedAt: createdAt,
				UpdatedAt: updatedAt,
			},
			Version: version,
		},
		HouseNumber: houseNumber,
		OwnerName:   ownerName,
		Portions:    Portions{total: total, rented: rented, ownerOccupied: ownerOccupied},
	}
}

func validateHouseNumber(houseNumber string) (string, error) {
	number := NormalizeText(houseNumber)
	if number == "" {
		return "", shared.NewValidationError("House number cannot be empty")
	}
	if len([]rune(number)) > maxHouseNumberLength {
		return "", shared.NewValidationError("House number cannot exceed 50 characters")
	}
	return number, nil
}

func validateOwnerName(ownerName string) (string, error) {
	owner := NormalizeText(ownerName)
	if owner == "" {
		return "", shared.NewValidationError("Owner name cannot be empty")
	}
	if len([]rune(owner)) > maxOwnerNameLength {
		return "", shared.NewValidationError("Owner name cannot exceed 200 characters")
	}
	return owner, nil
}

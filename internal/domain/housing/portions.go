package housing

import (
	"fmt"

	"github.com/colony/backend/internal/domain/shared"
)

// Default split for a house created without explicit numbers:
// one portion, neither rented nor owner-occupied.
const (
	DefaultTotalPortions         = 1
	DefaultRentedPortions        = 0
	DefaultOwnerOccupiedPortions = 0
)

// Portions is the occupancy split of a house.
// Vacant is never stored independently; it is always Total - Rented - OwnerOccupied.
type Portions struct {
	total         int
	rented        int
	ownerOccupied int
}

// NewPortions validates a split and derives its vacant count.
// A split whose vacant count would be negative is rejected with CAPACITY_EXCEEDED.
func NewPortions(total, rented, ownerOccupied int) (Portions, error) {
	if total < 1 {
		return Portions{}, shared.NewValidationError("Total portions must be at least 1")
	}
	if rented < 0 {
		return Portions{}, shared.NewValidationError("Rented portions cannot be negative")
	}
	if ownerOccupied < 0 {
		return Portions{}, shared.NewValidationError("Owner-occupied portions cannot be negative")
	}
	if rented+ownerOccupied > total {
		return Portions{}, ErrCapacityExceeded.WithMessage(fmt.Sprintf(
			"Rented (%d) and owner-occupied (%d) portions exceed total portions (%d)",
			rented, ownerOccupied, total,
		))
	}
	return Portions{total: total, rented: rented, ownerOccupied: ownerOccupied}, nil
}

// DefaultPortions returns the (1,0,0) split used when a house is created without numbers
func DefaultPortions() Portions {
	return Portions{total: DefaultTotalPortions, rented: DefaultRentedPortions, ownerOccupied: DefaultOwnerOccupiedPortions}
}

// Total returns the number of portions in the house
func (p Portions) Total() int { return p.total }

// Rented returns the number of rented portions
func (p Portions) Rented() int { return p.rented }

// OwnerOccupied returns the number of owner-occupied portions
func (p Portions) OwnerOccupied() int { return p.ownerOccupied }

// Vacant returns the derived number of vacant portions
func (p Portions) Vacant() int { return p.total - p.rented - p.ownerOccupied }

// Occupied returns rented plus owner-occupied portions
func (p Portions) Occupied() int { return p.rented + p.ownerOccupied }

// Merge overlays the non-nil requested values on p and validates the result
func (p Portions) Merge(total, rented, ownerOccupied *int) (Portions, error) {
	t, r, o := p.total, p.rented, p.ownerOccupied
	if total != nil {
		t = *total
	}
	if rented != nil {
		r = *rented
	}
	if ownerOccupied != nil {
		o = *ownerOccupied
	}
	return NewPortions(t, r, o)
}

// Occupancy aggregates portion counts across houses
type Occupancy struct {
	Houses        int64 `json:"houses"`
	Total         int64 `json:"total_portions"`
	Rented        int64 `json:"rented_portions"`
	OwnerOccupied int64 `json:"owner_occupied_portions"`
	Vacant        int64 `json:"vacant_portions"`
}

package housing

import (
	"time"

	"github.com/colony/backend/internal/domain/housing"
	"github.com/google/uuid"
)

// CreateHouseRequest represents a request to register a house.
// Omitted portion counts default to one vacant portion.
type CreateHouseRequest struct {
	HouseNumber           string `json:"house_number" binding:"required,max=50"`
	OwnerName             string `json:"owner_name" binding:"required,max=200"`
	TotalPortions         *int   `json:"total_portions" binding:"omitempty,min=1"`
	RentedPortions        *int   `json:"rented_portions" binding:"omitempty,min=0"`
	OwnerOccupiedPortions *int   `json:"owner_occupied_portions" binding:"omitempty,min=0"`
}

// UpdateHouseRequest represents a partial edit; nil fields keep their value
type UpdateHouseRequest struct {
	HouseNumber           *string `json:"house_number" binding:"omitempty,max=50"`
	OwnerName             *string `json:"owner_name" binding:"omitempty,max=200"`
	TotalPortions         *int    `json:"total_portions" binding:"omitempty,min=1"`
	RentedPortions        *int    `json:"rented_portions" binding:"omitempty,min=0"`
	OwnerOccupiedPortions *int    `json:"owner_occupied_portions" binding:"omitempty,min=0"`
}

func (r UpdateHouseRequest) toChanges() housing.HouseChanges {
	return housing.HouseChanges{
		HouseNumber:           r.HouseNumber,
		OwnerName:             r.OwnerName,
		TotalPortions:         r.TotalPortions,
		RentedPortions:        r.RentedPortions,
		OwnerOccupiedPortions: r.OwnerOccupiedPortions,
	}
}

// HouseResponse represents a house in API responses
type HouseResponse struct {
	ID                    uuid.UUID `json:"id"`
	HouseNumber           string    `json:"house_number"`
	OwnerName             string    `json:"owner_name"`
	TotalPortions         int       `json:"total_portions"`
	RentedPortions        int       `json:"rented_portions"`
	OwnerOccupiedPortions int       `json:"owner_occupied_portions"`
	VacantPortions        int       `json:"vacant_portions"`
	Version               int       `json:"version"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ToHouseResponse converts a domain House to a response
func ToHouseResponse(h *housing.House) HouseResponse {
	return HouseResponse{
		ID:                    h.ID,
		HouseNumber:           h.HouseNumber,
		OwnerName:             h.OwnerName,
		TotalPortions:         h.Portions.Total(),
		RentedPortions:        h.Portions.Rented(),
		OwnerOccupiedPortions: h.Portions.OwnerOccupied(),
		VacantPortions:        h.Portions.Vacant(),
		Version:               h.Version,
		CreatedAt:             h.CreatedAt,
		UpdatedAt:             h.UpdatedAt,
	}
}

// ToHouseResponses converts a slice of houses
func ToHouseResponses(houses []housing.House) []HouseResponse {
	out := make([]HouseResponse, len(houses))
	for i := range houses {
		out[i] = ToHouseResponse(&houses[i])
	}
	return out
}

// OccupancyResponse is the colony-wide portion summary
type OccupancyResponse struct {
	Houses                int64 `json:"houses"`
	TotalPortions         int64 `json:"total_portions"`
	RentedPortions        int64 `json:"rented_portions"`
	OwnerOccupiedPortions int64 `json:"owner_occupied_portions"`
	VacantPortions        int64 `json:"vacant_portions"`
}

func toOccupancyResponse(o housing.Occupancy) OccupancyResponse {
	return OccupancyResponse{
		Houses:                o.Houses,
		TotalPortions:         o.Total,
		RentedPortions:        o.Rented,
		OwnerOccupiedPortions: o.OwnerOccupied,
		VacantPortions:        o.Vacant,
	}
}

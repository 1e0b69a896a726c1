package governance

import (
	"time"

	"github.com/colony/backend/internal/domain/governance"
	"github.com/google/uuid"
)

// AppointRequest represents a request to appoint an office bearer
type AppointRequest struct {
	Role     string `json:"role" binding:"required,max=50"`
	FullName string `json:"full_name" binding:"required,max=200"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
}

// RoleResponse represents a catalog role
type RoleResponse struct {
	Key    string            `json:"key"`
	Seat   string            `json:"seat"`
	Order  int               `json:"order"`
	Labels map[string]string `json:"labels"`
}

// CatalogResponse is the configured role catalog
type CatalogResponse struct {
	Version string         `json:"version"`
	Roles   []RoleResponse `json:"roles"`
}

// OfficeBearerResponse represents one tenure in API responses
type OfficeBearerResponse struct {
	ID        uuid.UUID  `json:"id"`
	Role      string     `json:"role"`
	Seat      string     `json:"seat"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone,omitempty"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Status    string     `json:"status"`
	Version   int        `json:"version"`
}

// AppointmentResponse is the new tenure and the tenures it archived
type AppointmentResponse struct {
	Bearer       OfficeBearerResponse   `json:"bearer"`
	Predecessors []OfficeBearerResponse `json:"predecessors"`
}

// RosterEntry is one catalog role with its active holders
type RosterEntry struct {
	Role    RoleResponse           `json:"role"`
	Holders []OfficeBearerResponse `json:"holders"`
}

// ToRoleResponse converts a catalog role to a response
func ToRoleResponse(r governance.Role) RoleResponse {
	return RoleResponse{
		Key:    r.Key,
		Seat:   string(r.Seat),
		Order:  r.Order,
		Labels: r.Labels,
	}
}

// ToOfficeBearerResponse converts a domain OfficeBearer to a response
func ToOfficeBearerResponse(b *governance.OfficeBearer) OfficeBearerResponse {
	return OfficeBearerResponse{
		ID:        b.ID,
		Role:      b.Role,
		Seat:      string(b.Seat),
		FullName:  b.FullName,
		Phone:     b.Phone,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Status:    string(b.Status),
		Version:   b.Version,
	}
}

// ToOfficeBearerResponses converts a slice of office bearers
func ToOfficeBearerResponses(bearers []governance.OfficeBearer) []OfficeBearerResponse {
	out := make([]OfficeBearerResponse, len(bearers))
	for i := range bearers {
		out[i] = ToOfficeBearerResponse(&bearers[i])
	}
	return out
}

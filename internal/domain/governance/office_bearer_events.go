package governance

import (
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for OfficeBearer
const AggregateTypeOfficeBearer = "OfficeBearer"

// Event type constants for OfficeBearer
const (
	EventTypeOfficeBearerAppointed = "OfficeBearerAppointed"
	EventTypeOfficeBearerRetired   = "OfficeBearerRetired"
)

// OfficeBearerAppointedEvent is published when a new tenure starts
type OfficeBearerAppointedEvent struct {
	shared.BaseDomainEvent
	BearerID     uuid.UUID   `json:"bearer_id"`
	Role         string      `json:"role"`
	Seat         SeatType    `json:"seat"`
	FullName     string      `json:"full_name"`
	StartDate    time.Time   `json:"start_date"`
	Predecessors []uuid.UUID `json:"predecessors,omitempty"`
}

// NewOfficeBearerAppointedEvent creates a new OfficeBearerAppointedEvent
func NewOfficeBearerAppointedEvent(b *OfficeBearer, predecessors []uuid.UUID, at time.Time) *OfficeBearerAppointedEvent {
	return &OfficeBearerAppointedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfficeBearerAppointed, AggregateTypeOfficeBearer, b.ID, at),
		BearerID:        b.ID,
		Role:            b.Role,
		Seat:            b.Seat,
		FullName:        b.FullName,
		StartDate:       b.StartDate,
		Predecessors:    predecessors,
	}
}

// OfficeBearerRetiredEvent is published when a tenure ends by succession or removal
type OfficeBearerRetiredEvent struct {
	shared.BaseDomainEvent
	BearerID uuid.UUID        `json:"bearer_id"`
	Role     string           `json:"role"`
	FullName string           `json:"full_name"`
	EndDate  time.Time        `json:"end_date"`
	Reason   RetirementReason `json:"reason"`
}

// NewOfficeBearerRetiredEvent creates a new OfficeBearerRetiredEvent
func NewOfficeBearerRetiredEvent(b *OfficeBearer, reason RetirementReason, at time.Time) *OfficeBearerRetiredEvent {
	var end time.Time
	if b.EndDate != nil {
		end = *b.EndDate
	}
	return &OfficeBearerRetiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfficeBearerRetired, AggregateTypeOfficeBearer, b.ID, at),
		BearerID:        b.ID,
		Role:            b.Role,
		FullName:        b.FullName,
		EndDate:         end,
		Reason:          reason,
	}
}

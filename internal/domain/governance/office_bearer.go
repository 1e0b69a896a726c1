package governance

import (
	"strings"
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BearerStatus is the lifecycle state of an office-bearer record
type BearerStatus string

const (
	BearerStatusActive BearerStatus = "active"
	BearerStatusFormer BearerStatus = "former"
)

// RetirementReason records why a tenure ended
type RetirementReason string

const (
	RetiredBySuccession RetirementReason = "succession"
	RetiredByRemoval    RetirementReason = "removal"
)

const (
	maxFullNameLength = 200
	maxPhoneLength    = 30
)

// OfficeBearer is one tenure of one person in one role.
// Records move from active to former exactly once and are never deleted.
type OfficeBearer struct {
	shared.BaseAggregateRoot
	Role      string
	Seat      SeatType
	FullName  string
	Phone     string
	StartDate time.Time
	EndDate   *time.Time
	Status    BearerStatus
}

// NewOfficeBearer creates an active tenure for role starting today
func NewOfficeBearer(role Role, fullName, phone string, now time.Time) (*OfficeBearer, error) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return nil, shared.NewValidationError("Full name cannot be empty")
	}
	if len([]rune(name)) > maxFullNameLength {
		return nil, shared.NewValidationError("Full name cannot exceed 200 characters")
	}
	phone = strings.TrimSpace(phone)
	if len(phone) > maxPhoneLength {
		return nil, shared.NewValidationError("Phone cannot exceed 30 characters")
	}

	b := &OfficeBearer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Role:              role.Key,
		Seat:              role.Seat,
		FullName:          name,
		Phone:             phone,
		StartDate:         shared.Today(now),
		Status:            BearerStatusActive,
	}
	return b, nil
}

// IsActive reports whether the tenure is ongoing
func (b *OfficeBearer) IsActive() bool {
	return b.Status == BearerStatusActive
}

// Retire ends the tenure with end date today. A former record cannot be retired again.
func (b *OfficeBearer) Retire(reason RetirementReason, now time.Time) error {
	if !b.IsActive() {
		return ErrAlreadyFormer
	}
	end := shared.Today(now)
	b.Status = BearerStatusFormer
	b.EndDate = &end
	b.Touch(now)
	b.IncrementVersion()
	b.AddDomainEvent(NewOfficeBearerRetiredEvent(b, reason, now))
	return nil
}

// RecordAppointment emits the appointment event, naming any predecessors it displaced
func (b *OfficeBearer) RecordAppointment(predecessors []uuid.UUID, now time.Time) {
	b.AddDomainEvent(NewOfficeBearerAppointedEvent(b, predecessors, now))
}

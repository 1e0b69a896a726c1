package models

import (
	"time"

	"github.com/colony/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditEntryModel is one recorded domain event
type AuditEntryModel struct {
	EventID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType     string    `gorm:"type:varchar(100);not null;index"`
	AggregateType string    `gorm:"type:varchar(50);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OccurredAt    time.Time `gorm:"not null;index"`
	Payload       string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain audit Entry
func (m *AuditEntryModel) ToDomain() audit.Entry {
	return audit.Entry{
		EventID:       m.EventID,
		EventType:     m.EventType,
		AggregateType: m.AggregateType,
		AggregateID:   m.AggregateID,
		OccurredAt:    m.OccurredAt,
		Payload:       m.Payload,
	}
}

// AuditEntryModelFromDomain creates a new persistence model from an audit Entry
func AuditEntryModelFromDomain(e audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID,
		OccurredAt:    e.OccurredAt,
		Payload:       e.Payload,
	}
}

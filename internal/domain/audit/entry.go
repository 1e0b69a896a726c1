// Package audit records every published domain event as an append-only trail.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultLimit and MaxLimit bound how many entries a listing returns
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Entry is one recorded domain event
type Entry struct {
	EventID       uuid.UUID `json:"event_id"`
	EventType     string    `json:"event_type"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       string    `json:"payload"`
}

// NewEntry captures event and its JSON payload
func NewEntry(event shared.DomainEvent) (Entry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		OccurredAt:    event.OccurredAt(),
		Payload:       string(payload),
	}, nil
}

// ClampLimit maps a requested listing size into [1, MaxLimit]
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Repository stores audit entries
type Repository interface {
	// Append stores entry. Appending an event id twice is a no-op.
	Append(ctx context.Context, entry Entry) error

	// Latest returns up to limit entries, newest first
	Latest(ctx context.Context, limit int) ([]Entry, error)
}

package event

import (
	"context"
	"fmt"

	"github.com/colony/backend/internal/domain/audit"
	"github.com/colony/backend/internal/domain/shared"
)

// AuditTrailHandler appends every domain event it receives to the audit trail
type AuditTrailHandler struct {
	repo audit.Repository
}

// NewAuditTrailHandler creates a handler writing to repo
func NewAuditTrailHandler(repo audit.Repository) *AuditTrailHandler {
	return &AuditTrailHandler{repo: repo}
}

// EventTypes is empty: the trail subscribes to everything
func (h *AuditTrailHandler) EventTypes() []string {
	return nil
}

// Handle records event. The write is detached from the caller's cancellation,
// so a client that hangs up right after a commit still leaves a trail.
func (h *AuditTrailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry, err := audit.NewEntry(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventType(), err)
	}
	if err := h.repo.Append(context.WithoutCancel(ctx), entry); err != nil {
		return fmt.Errorf("append %s to audit trail: %w", event.EventType(), err)
	}
	return nil
}

var _ shared.EventHandler = (*AuditTrailHandler)(nil)

package persistence

import (
	"context"

	"github.com/colony/backend/internal/domain/audit"
	"github.com/colony/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append stores entry; an event id already recorded is ignored
func (r *GormAuditRepository) Append(ctx context.Context, entry audit.Entry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(models.AuditEntryModelFromDomain(entry)).Error
}

// Latest returns up to limit entries, newest first
func (r *GormAuditRepository) Latest(ctx context.Context, limit int) ([]audit.Entry, error) {
	var rows []models.AuditEntryModel
	if err := r.db.WithContext(ctx).
		Order("occurred_at DESC").Order("event_id ASC").
		Limit(audit.ClampLimit(limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]audit.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

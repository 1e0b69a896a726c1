package persistence

import (
	"context"
	"errors"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantProfileRepository implements residency.TenantProfileRepository using GORM
type GormTenantProfileRepository struct {
	db *gorm.DB
}

// NewGormTenantProfileRepository creates a new GormTenantProfileRepository
func NewGormTenantProfileRepository(db *gorm.DB) *GormTenantProfileRepository {
	return &GormTenantProfileRepository{db: db}
}

// Create inserts a profile. The house foreign key turns a house deleted since
// validation into ErrHouseNotFound.
func (r *GormTenantProfileRepository) Create(ctx context.Context, profile *residency.TenantProfile) error {
	if err := r.db.WithContext(ctx).Create(models.TenantProfileModelFromDomain(profile)).Error; err != nil {
		switch {
		case IsForeignKeyViolation(err):
			return residency.ErrHouseNotFound.WithCause(err)
		case IsDuplicateKey(err):
			return shared.ErrAlreadyExists.WithCause(err)
		}
		return err
	}
	return nil
}

// FindByIdentityID finds the profile of an identity
func (r *GormTenantProfileRepository) FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*residency.TenantProfile, error) {
	var model models.TenantProfileModel
	if err := r.db.WithContext(ctx).First(&model, "identity_id = ?", identityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, residency.ErrTenantProfileNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns profiles, optionally restricted to one house, newest first
func (r *GormTenantProfileRepository) FindAll(ctx context.Context, houseID *uuid.UUID) ([]residency.TenantProfile, error) {
	query := r.db.WithContext(ctx).Model(&models.TenantProfileModel{})
	if houseID != nil {
		query = query.Where("house_id = ?", *houseID)
	}

	var rows []models.TenantProfileModel
	if err := query.Order("created_at DESC").Order("identity_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	profiles := make([]residency.TenantProfile, len(rows))
	for i := range rows {
		profiles[i] = *rows[i].ToDomain()
	}
	return profiles, nil
}

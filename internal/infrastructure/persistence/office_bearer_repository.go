package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/colony/backend/internal/domain/governance"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOfficeBearerRepository implements governance.OfficeBearerRepository using GORM
type GormOfficeBearerRepository struct {
	db *gorm.DB
}

// NewGormOfficeBearerRepository creates a new GormOfficeBearerRepository
func NewGormOfficeBearerRepository(db *gorm.DB) *GormOfficeBearerRepository {
	return &GormOfficeBearerRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormOfficeBearerRepository) FindByID(ctx context.Context, id uuid.UUID) (*governance.OfficeBearer, error) {
	var model models.OfficeBearerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, governance.ErrOfficeBearerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByRole returns the active records of a role
func (r *GormOfficeBearerRepository) FindActiveByRole(ctx context.Context, role string) ([]governance.OfficeBearer, error) {
	var rows []models.OfficeBearerModel
	err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", role, string(governance.BearerStatusActive)).
		Order("start_date ASC").Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOfficeBearers(rows), nil
}

// FindAllActive returns every active record across roles
func (r *GormOfficeBearerRepository) FindAllActive(ctx context.Context) ([]governance.OfficeBearer, error) {
	var rows []models.OfficeBearerModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(governance.BearerStatusActive)).
		Order("role ASC").Order("start_date ASC").Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOfficeBearers(rows), nil
}

// FindByRole returns every record of a role, newest tenure first
func (r *GormOfficeBearerRepository) FindByRole(ctx context.Context, role string) ([]governance.OfficeBearer, error) {
	var rows []models.OfficeBearerModel
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("start_date DESC").Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOfficeBearers(rows), nil
}

// Create inserts a record without touching other holders of the role
func (r *GormOfficeBearerRepository) Create(ctx context.Context, bearer *governance.OfficeBearer) error {
	if err := r.db.WithContext(ctx).Create(models.OfficeBearerModelFromDomain(bearer)).Error; err != nil {
		if IsDuplicateKey(err) {
			return shared.ErrConcurrencyConflict.WithCause(err)
		}
		return err
	}
	return nil
}

// Succeed archives the active holders of incoming.Role and inserts incoming in
// one transaction. The active rows are read FOR UPDATE so two successions on
// the same role serialize; when both find the seat empty the partial unique
// index rejects the second insert and the caller sees ErrConcurrencyConflict.
func (r *GormOfficeBearerRepository) Succeed(ctx context.Context, incoming *governance.OfficeBearer, now time.Time) ([]governance.OfficeBearer, error) {
	var retired []governance.OfficeBearer

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.OfficeBearerModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("role = ? AND status = ?", incoming.Role, string(governance.BearerStatusActive)).
			Order("start_date ASC").Order("created_at ASC").
			Find(&rows).Error; err != nil {
			return err
		}

		for i := range rows {
			predecessor := rows[i].ToDomain()
			if err := predecessor.Retire(governance.RetiredBySuccession, now); err != nil {
				return err
			}
			if err := retireRow(tx, predecessor); err != nil {
				if errors.Is(err, governance.ErrAlreadyFormer) {
					return shared.ErrConcurrencyConflict.WithCause(err)
				}
				return err
			}
			retired = append(retired, *predecessor)
		}

		if err := tx.Create(models.OfficeBearerModelFromDomain(incoming)).Error; err != nil {
			if IsDuplicateKey(err) {
				return shared.ErrConcurrencyConflict.WithCause(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return retired, nil
}

// Retire persists an active-to-former transition
func (r *GormOfficeBearerRepository) Retire(ctx context.Context, bearer *governance.OfficeBearer) error {
	err := retireRow(r.db.WithContext(ctx), bearer)
	if !errors.Is(err, governance.ErrAlreadyFormer) {
		return err
	}

	var count int64
	if cerr := r.db.WithContext(ctx).Model(&models.OfficeBearerModel{}).
		Where("id = ?", bearer.ID).
		Count(&count).Error; cerr != nil {
		return cerr
	}
	if count == 0 {
		return governance.ErrOfficeBearerNotFound
	}
	return err
}

// retireRow writes the former state only while the stored row is still active,
// so an end date is never overwritten
func retireRow(tx *gorm.DB, bearer *governance.OfficeBearer) error {
	model := models.OfficeBearerModelFromDomain(bearer)
	result := tx.Model(&models.OfficeBearerModel{}).
		Where("id = ? AND status = ?", bearer.ID, string(governance.BearerStatusActive)).
		Updates(model.RetirementColumns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return governance.ErrAlreadyFormer
	}
	return nil
}

func toOfficeBearers(rows []models.OfficeBearerModel) []governance.OfficeBearer {
	bearers := make([]governance.OfficeBearer, len(rows))
	for i := range rows {
		bearers[i] = *rows[i].ToDomain()
	}
	return bearers
}

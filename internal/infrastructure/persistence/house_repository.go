package persistence

import (
	"context"
	"errors"

	"github.com/colony/backend/internal/domain/housing"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormHouseRepository implements housing.HouseRepository using GORM
type GormHouseRepository struct {
	db *gorm.DB
}

// NewGormHouseRepository creates a new GormHouseRepository
func NewGormHouseRepository(db *gorm.DB) *GormHouseRepository {
	return &GormHouseRepository{db: db}
}

// FindByID finds a house by its ID
func (r *GormHouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.House, error) {
	var model models.HouseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, housing.ErrHouseNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByID reports whether a house with the given ID exists
func (r *GormHouseRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.HouseModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByNumber reports whether another house uses the same folded house number
func (r *GormHouseRepository) ExistsByNumber(ctx context.Context, houseNumber string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.HouseModel{}).
		Where("house_number_key = ?", housing.FoldKey(housing.NormalizeText(houseNumber)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns houses whose number or owner contains filter.Search,
// ignoring case, ordered by house number
func (r *GormHouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]housing.House, error) {
	query := r.db.WithContext(ctx).Model(&models.HouseModel{})

	if term := housing.FoldKey(housing.NormalizeText(filter.Search)); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		query = query.Where(`house_number_key LIKE ? ESCAPE '\' OR owner_name_key LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []models.HouseModel
	if err := query.Order("house_number ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	houses := make([]housing.House, len(rows))
	for i := range rows {
		houses[i] = *rows[i].ToDomain()
	}
	return houses, nil
}

// Create inserts a new house
func (r *GormHouseRepository) Create(ctx context.Context, house *housing.House) error {
	model := models.HouseModelFromDomain(house)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if IsDuplicateKey(err) {
			return housing.ErrDuplicateHouseNumber.WithCause(err)
		}
		return err
	}
	return nil
}

// Update writes house when the stored version still equals expectedVersion
func (r *GormHouseRepository) Update(ctx context.Context, house *housing.House, expectedVersion int) error {
	model := models.HouseModelFromDomain(house)
	result := r.db.WithContext(ctx).Model(&models.HouseModel{}).
		Where("id = ? AND version = ?", house.ID, expectedVersion).
		Updates(model.UpdateColumns())
	if result.Error != nil {
		if IsDuplicateKey(result.Error) {
			return housing.ErrDuplicateHouseNumber.WithCause(result.Error)
		}
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	exists, err := r.ExistsByID(ctx, house.ID)
	if err != nil {
		return err
	}
	if !exists {
		return housing.ErrHouseNotFound
	}
	return shared.ErrConcurrencyConflict
}

// Delete removes a house. Tenant profiles that still point at it block the delete.
func (r *GormHouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.HouseModel{}, "id = ?", id)
	if result.Error != nil {
		if IsForeignKeyViolation(result.Error) {
			return housing.ErrHouseInUse.WithCause(result.Error)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return housing.ErrHouseNotFound
	}
	return nil
}

// Summarize aggregates portion counts across all houses
func (r *GormHouseRepository) Summarize(ctx context.Context) (housing.Occupancy, error) {
	var occupancy housing.Occupancy
	err := r.db.WithContext(ctx).Model(&models.HouseModel{}).
		Select(`COUNT(*) AS houses,
			COALESCE(SUM(total_portions), 0) AS total,
			COALESCE(SUM(rented_portions), 0) AS rented,
			COALESCE(SUM(owner_occupied_portions), 0) AS owner_occupied,
			COALESCE(SUM(vacant_portions), 0) AS vacant`).
		Scan(&occupancy).Error
	return occupancy, err
}

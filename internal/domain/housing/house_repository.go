package housing

import (
	"context"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// HouseRepository defines the interface for house persistence
type HouseRepository interface {
	// FindByID finds a house by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*House, error)

	// ExistsByID reports whether a house with the given ID exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsByNumber reports whether another house already uses the folded house number.
	// excludeID is ignored when uuid.Nil.
	ExistsByNumber(ctx context.Context, houseNumber string, excludeID uuid.UUID) (bool, error)

	// FindAll returns houses matching filter.Search, ordered by house number ascending
	FindAll(ctx context.Context, filter shared.Filter) ([]House, error)

	// Create inserts a new house
	Create(ctx context.Context, house *House) error

	// Update writes the house if its stored version still equals expectedVersion.
	// Returns ErrConcurrencyConflict when another writer got there first.
	Update(ctx context.Context, house *House, expectedVersion int) error

	// Delete removes a house
	Delete(ctx context.Context, id uuid.UUID) error

	// Summarize aggregates portion counts across all houses
	Summarize(ctx context.Context) (Occupancy, error)
}

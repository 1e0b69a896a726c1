package governance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OfficeBearerRepository defines the interface for office-bearer persistence
type OfficeBearerRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*OfficeBearer, error)

	// FindActiveByRole returns the active records of a role, ordered by start date then creation
	FindActiveByRole(ctx context.Context, role string) ([]OfficeBearer, error)

	// FindAllActive returns every active record across roles
	FindAllActive(ctx context.Context) ([]OfficeBearer, error)

	// FindByRole returns every record of a role, newest tenure first
	FindByRole(ctx context.Context, role string) ([]OfficeBearer, error)

	// Create inserts a record without touching other holders of the role
	Create(ctx context.Context, bearer *OfficeBearer) error

	// Succeed retires every active record of incoming.Role and inserts incoming,
	// as a single transaction. It returns the retired predecessors.
	// A concurrent succession on the same role surfaces as ErrConcurrencyConflict.
	Succeed(ctx context.Context, incoming *OfficeBearer, now time.Time) ([]OfficeBearer, error)

	// Retire persists an active-to-former transition.
	// Returns ErrAlreadyFormer when the stored record is no longer active.
	Retire(ctx context.Context, bearer *OfficeBearer) error
}

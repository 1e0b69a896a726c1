package housing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/colony/backend/internal/domain/housing"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mocks
// =============================================================================

type MockHouseRepository struct {
	mock.Mock
}

func (m *MockHouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.House, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.House), args.Error(1)
}

func (m *MockHouseRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockHouseRepository) ExistsByNumber(ctx context.Context, houseNumber string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, houseNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockHouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]housing.House, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]housing.House), args.Error(1)
}

func (m *MockHouseRepository) Create(ctx context.Context, house *housing.House) error {
	args := m.Called(ctx, house)
	return args.Error(0)
}

func (m *MockHouseRepository) Update(ctx context.Context, house *housing.House, expectedVersion int) error {
	args := m.Called(ctx, house, expectedVersion)
	return args.Error(0)
}

func (m *MockHouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHouseRepository) Summarize(ctx context.Context) (housing.Occupancy, error) {
	args := m.Called(ctx)
	return args.Get(0).(housing.Occupancy), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func newTestService(repo *MockHouseRepository, pub *MockEventPublisher) *HouseService {
	return NewHouseService(HouseServiceConfig{
		Repository:     repo,
		EventPublisher: pub,
		Clock:          shared.FixedClock{At: testNow},
	})
}

func storedHouse(id uuid.UUID, version int) *housing.House {
	created := testNow.Add(-24 * time.Hour)
	return housing.RehydrateHouse(id, "A-12", "Meera Rao", 4, 2, 1, version, created, created)
}

func eventTypes(events []shared.DomainEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType()
	}
	return out
}

// =============================================================================
// Tests
// =============================================================================

func TestHouseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to one vacant portion", func(t *testing.T) {
		repo := new(MockHouseRepository)
		pub := new(MockEventPublisher)
		svc := newTestService(repo, pub)

		repo.On("ExistsByNumber", ctx, "B-7", uuid.Nil).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*housing.House")).Return(nil)
		pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == housing.EventTypeHouseCreated
		})).Return(nil)

		resp, err := svc.Create(ctx, CreateHouseRequest{HouseNumber: "  B-7 ", OwnerName: "Arjun"})
		require.NoError(t, err)
		assert.Equal(t, "B-7", resp.HouseNumber)
		assert.Equal(t, 1, resp.TotalPortions)
		assert.Equal(t, 1, resp.VacantPortions)
		assert.Equal(t, 1, resp.Version)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("rejects duplicate number", func(t *testing.T) {
		repo := new(MockHouseRepository)
		svc := newTestService(repo, new(MockEventPublisher))

		repo.On("ExistsByNumber", ctx, "B-7", uuid.Nil).Return(true, nil)

		_, err := svc.Create(ctx, CreateHouseRequest{HouseNumber: "B-7", OwnerName: "Arjun"})
		assert.ErrorIs(t, err, housing.ErrDuplicateHouseNumber)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects overfull split before touching the store", func(t *testing.T) {
		repo := new(MockHouseRepository)
		svc := newTestService(repo, new(MockEventPublisher))

		_, err := svc.Create(ctx, CreateHouseRequest{
			HouseNumber:           "B-7",
			OwnerName:             "Arjun",
			TotalPortions:         intPtr(2),
			RentedPortions:        intPtr(2),
			OwnerOccupiedPortions: intPtr(1),
		})
		assert.Equal(t, shared.CodeCapacityExceeded, shared.CodeOf(err))
		repo.AssertNotCalled(t, "ExistsByNumber", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the write", func(t *testing.T) {
		repo := new(MockHouseRepository)
		pub := new(MockEventPublisher)
		svc := newTestService(repo, pub)

		repo.On("ExistsByNumber", ctx, "C-1", uuid.Nil).Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		pub.On("Publish", ctx, mock.Anything).Return(errors.New("bus stopped"))

		resp, err := svc.Create(ctx, CreateHouseRequest{HouseNumber: "C-1", OwnerName: "Lata"})
		require.NoError(t, err)
		assert.Equal(t, "C-1", resp.HouseNumber)
	})
}

func TestHouseService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("merges partial fields and recomputes vacant", func(t *testing.T) {
		repo := new(MockHouseRepository)
		pub := new(MockEventPublisher)
		svc := newTestService(repo, pub)

		repo.On("FindByID", ctx, id).Return(storedHouse(id, 3), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*housing.House"), 3).Return(nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Update(ctx, id, UpdateHouseRequest{RentedPortions: intPtr(3)})
		require.NoError(t, err)
		assert.Equal(t, 4, resp.TotalPortions)
		assert.Equal(t, 3, resp.RentedPortions)
		assert.Equal(t, 1, resp.OwnerOccupiedPortions)
		assert.Equal(t, 0, resp.VacantPortions)
		assert.Equal(t, 4, resp.Version)
	})

	t.Run("retries after losing a version race", func(t *testing.T) {
		repo := new(MockHouseRepository)
		pub := new(MockEventPublisher)
		svc := newTestService(repo, pub)

		repo.On("FindByID", ctx, id).Return(storedHouse(id, 3), nil).Once()
		repo.On("Update", ctx, mock.Anything, 3).Return(shared.ErrConcurrencyConflict).Once()
		repo.On("FindByID", ctx, id).Return(storedHouse(id, 4), nil).Once()
		repo.On("Update", ctx, mock.Anything, 4).Return(nil).Once()
		pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return assert.ObjectsAreEqual([]string{housing.EventTypeHouseUpdated}, eventTypes(events))
		})).Return(nil).Once()

		resp, err := svc.Update(ctx, id, UpdateHouseRequest{OwnerName: strPtr("Kavya Rao")})
		require.NoError(t, err)
		assert.Equal(t, "Kavya Rao", resp.OwnerName)
		assert.Equal(t, 5, resp.Version)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("gives up after repeated conflicts", func(t *testing.T) {
		repo := new(MockHouseRepository)
		svc := newTestService(repo, new(MockEventPublisher))

		for i := 0; i < maxWriteAttempts; i++ {
			repo.On("FindByID", ctx, id).Return(storedHouse(id, 3), nil).Once()
		}
		repo.On("Update", ctx, mock.Anything, 3).Return(shared.ErrConcurrencyConflict).Times(maxWriteAttempts)

		_, err := svc.Update(ctx, id, UpdateHouseRequest{OwnerName: strPtr("Kavya Rao")})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		repo.AssertExpectations(t)
	})

	t.Run("empty change returns the stored house", func(t *testing.T) {
		repo := new(MockHouseRepository)
		svc := newTestService(repo, new(MockEventPublisher))

		repo.On("FindByID", ctx, id).Return(storedHouse(id, 3), nil)

		resp, err := svc.Update(ctx, id, UpdateHouseRequest{})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Version)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("capacity violation leaves store untouched", func(t *testing.T) {
		repo := new(MockHouseRepository)
		svc := newTestService(repo, new(MockEventPublisher))

		repo.On("FindByID", ctx, id).Return(storedHouse(id, 3), nil)

		_, err := svc.Update(ctx, id, UpdateHouseRequest{TotalPortions: intPtr(2)})
		assert.ErrorIs(t, err, housing.ErrCapacityExceeded)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("renaming onto a taken number fails", func(t *testing.T) {
		repo := new(MockHouseRepository)
		svc := newTestService(repo, new(MockEventPublisher))

		repo.On("FindByID", ctx, id).Return(storedHouse(id, 3), nil)
		repo.On("ExistsByNumber", ctx, "A-13", id).Return(true, nil)

		_, err := svc.Update(ctx, id, UpdateHouseRequest{HouseNumber: strPtr("A-13")})
		assert.ErrorIs(t, err, housing.ErrDuplicateHouseNumber)
	})

	t.Run("unknown house", func(t *testing.T) {
		repo := new(MockHouseRepository)
		svc := newTestService(repo, new(MockEventPublisher))

		repo.On("FindByID", ctx, id).Return(nil, housing.ErrHouseNotFound)

		_, err := svc.Update(ctx, id, UpdateHouseRequest{OwnerName: strPtr("X")})
		assert.ErrorIs(t, err, housing.ErrHouseNotFound)
	})
}

func TestHouseService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("publishes deletion", func(t *testing.T) {
		repo := new(MockHouseRepository)
		pub := new(MockEventPublisher)
		svc := newTestService(repo, pub)

		repo.On("FindByID", ctx, id).Return(storedHouse(id, 1), nil)
		repo.On("Delete", ctx, id).Return(nil)
		pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == housing.EventTypeHouseDeleted
		})).Return(nil)

		require.NoError(t, svc.Delete(ctx, id))
		pub.AssertExpectations(t)
	})

	t.Run("house in use", func(t *testing.T) {
		repo := new(MockHouseRepository)
		pub := new(MockEventPublisher)
		svc := newTestService(repo, pub)

		repo.On("FindByID", ctx, id).Return(storedHouse(id, 1), nil)
		repo.On("Delete", ctx, id).Return(housing.ErrHouseInUse)

		err := svc.Delete(ctx, id)
		assert.ErrorIs(t, err, housing.ErrHouseInUse)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestHouseService_Queries(t *testing.T) {
	ctx := context.Background()
	repo := new(MockHouseRepository)
	svc := newTestService(repo, nil)
	id := uuid.New()

	repo.On("FindAll", ctx, shared.DefaultFilter().WithSearch("rao")).Return([]housing.House{*storedHouse(id, 1)}, nil)
	repo.On("Summarize", ctx).Return(housing.Occupancy{Houses: 2, Total: 6, Rented: 3, OwnerOccupied: 1, Vacant: 2}, nil)
	repo.On("ExistsByID", ctx, id).Return(true, nil)

	list, err := svc.List(ctx, "rao")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, 1, list[0].VacantPortions)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.VacantPortions)
	assert.Equal(t, int64(2), summary.Houses)

	ok, err := svc.HouseExists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

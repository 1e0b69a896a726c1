// Package housing implements the portion ledger use cases: registering houses
// and keeping their rented / owner-occupied / vacant split consistent.
package housing

import (
	"context"
	"errors"

	"github.com/colony/backend/internal/domain/housing"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/logger"
	"github.com/colony/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxWriteAttempts bounds how often an update is re-read and re-applied after
// losing an optimistic-lock race
const maxWriteAttempts = 3

// HouseServiceConfig holds the dependencies of HouseService
type HouseServiceConfig struct {
	Repository     housing.HouseRepository
	EventPublisher shared.EventPublisher
	Clock          shared.Clock
	Metrics        *telemetry.RegistryMetrics
	Logger         *zap.Logger
}

// HouseService handles house registration and portion bookkeeping
type HouseService struct {
	repo      housing.HouseRepository
	publisher shared.EventPublisher
	clock     shared.Clock
	metrics   *telemetry.RegistryMetrics
	logger    *zap.Logger
}

// NewHouseService creates a new HouseService
func NewHouseService(cfg HouseServiceConfig) *HouseService {
	s := &HouseService{
		repo:      cfg.Repository,
		publisher: cfg.EventPublisher,
		clock:     cfg.Clock,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
	if s.clock == nil {
		s.clock = shared.SystemClock{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Create registers a house. The house number must be unique ignoring case.
func (s *HouseService) Create(ctx context.Context, req CreateHouseRequest) (resp *HouseResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "house", "create", telemetry.AttrHouseNumber, req.HouseNumber)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	house, err := housing.NewHouse(req.HouseNumber, req.OwnerName,
		req.TotalPortions, req.RentedPortions, req.OwnerOccupiedPortions, s.clock.Now())
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByNumber(ctx, house.HouseNumber, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, housing.ErrDuplicateHouseNumber
	}

	if err := s.repo.Create(ctx, house); err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.AttrHouseID, house.ID.String())
	s.metrics.HouseWritten(ctx, "create")
	s.publish(ctx, house)
	logger.Enrich(ctx, s.logger).Info("House registered",
		zap.String("house_id", house.ID.String()),
		zap.String("house_number", house.HouseNumber),
	)

	out := ToHouseResponse(house)
	return &out, nil
}

// Update merges the requested fields into the stored house. Concurrent writers
// on the same house are serialized by the version column; a lost race re-reads
// the house and re-applies the change.
func (s *HouseService) Update(ctx context.Context, id uuid.UUID, req UpdateHouseRequest) (resp *HouseResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "house", "update", telemetry.AttrHouseID, id.String())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	changes := req.toChanges()
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		house, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if changes.IsEmpty() {
			out := ToHouseResponse(house)
			return &out, nil
		}

		expected := house.Version
		if err := house.Apply(changes, s.clock.Now()); err != nil {
			return nil, err
		}
		if changes.HouseNumber != nil {
			taken, err := s.repo.ExistsByNumber(ctx, house.HouseNumber, house.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, housing.ErrDuplicateHouseNumber
			}
		}

		err = s.repo.Update(ctx, house, expected)
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			telemetry.AddEvent(span, "version_conflict", telemetry.AttrAttempt, attempt)
			s.metrics.ConflictRetried(ctx, "house.update")
			logger.Enrich(ctx, s.logger).Debug("House changed concurrently, retrying",
				zap.String("house_id", id.String()),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.metrics.HouseWritten(ctx, "update")
		s.publish(ctx, house)
		out := ToHouseResponse(house)
		return &out, nil
	}
	return nil, shared.ErrConcurrencyConflict
}

// Delete removes a house. Houses still linked to tenant accounts are kept and
// the call fails with HOUSE_IN_USE.
func (s *HouseService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "house", "delete", telemetry.AttrHouseID, id.String())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	house, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	house.MarkDeleted(s.clock.Now())
	s.metrics.HouseWritten(ctx, "delete")
	s.publish(ctx, house)
	logger.Enrich(ctx, s.logger).Info("House deleted",
		zap.String("house_id", id.String()),
		zap.String("house_number", house.HouseNumber),
	)
	return nil
}

// GetByID returns one house
func (s *HouseService) GetByID(ctx context.Context, id uuid.UUID) (*HouseResponse, error) {
	house, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToHouseResponse(house)
	return &out, nil
}

// List returns every house whose number or owner contains search, ignoring
// case, ordered by house number
func (s *HouseService) List(ctx context.Context, search string) ([]HouseResponse, error) {
	houses, err := s.repo.FindAll(ctx, shared.DefaultFilter().WithSearch(search))
	if err != nil {
		return nil, err
	}
	return ToHouseResponses(houses), nil
}

// Summary returns colony-wide portion totals
func (s *HouseService) Summary(ctx context.Context) (*OccupancyResponse, error) {
	occ, err := s.repo.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	out := toOccupancyResponse(occ)
	return &out, nil
}

// HouseExists reports whether id names a registered house
func (s *HouseService) HouseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}

// publish hands the pending events of house to the bus after the write committed
func (s *HouseService) publish(ctx context.Context, house *housing.House) {
	events := house.PullDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Error("Failed to publish house events", zap.Error(err))
	}
}

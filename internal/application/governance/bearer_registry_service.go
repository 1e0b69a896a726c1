// Package governance implements appointment and succession of the
// association's office bearers.
package governance

import (
	"context"
	"errors"
	"time"

	"github.com/colony/backend/internal/domain/governance"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/logger"
	"github.com/colony/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxSuccessionAttempts bounds how often a succession is retried after a
// concurrent appointment to the same seat
const maxSuccessionAttempts = 3

// BearerRegistryServiceConfig holds the dependencies of BearerRegistryService
type BearerRegistryServiceConfig struct {
	Repository     governance.OfficeBearerRepository
	Catalog        *governance.RoleCatalog
	EventPublisher shared.EventPublisher
	Clock          shared.Clock
	Metrics        *telemetry.RegistryMetrics
	Logger         *zap.Logger
}

// BearerRegistryService keeps the office-bearer history. Single-seat roles
// never have two active holders; a new appointment archives the previous one.
type BearerRegistryService struct {
	repo      governance.OfficeBearerRepository
	catalog   *governance.RoleCatalog
	publisher shared.EventPublisher
	clock     shared.Clock
	metrics   *telemetry.RegistryMetrics
	logger    *zap.Logger
}

// NewBearerRegistryService creates a new BearerRegistryService
func NewBearerRegistryService(cfg BearerRegistryServiceConfig) *BearerRegistryService {
	s := &BearerRegistryService{
		repo:      cfg.Repository,
		catalog:   cfg.Catalog,
		publisher: cfg.EventPublisher,
		clock:     cfg.Clock,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
	if s.catalog == nil {
		s.catalog = governance.DefaultRoleCatalog()
	}
	if s.clock == nil {
		s.clock = shared.SystemClock{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Appoint starts a tenure. For a single-seat role the current holder, if any,
// is archived in the same transaction.
func (s *BearerRegistryService) Appoint(ctx context.Context, req AppointRequest) (resp *AppointmentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "governance", "appoint", telemetry.AttrRole, req.Role)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	role, err := s.catalog.Lookup(req.Role)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.AttrSeat, string(role.Seat))

	now := s.clock.Now()
	bearer, err := governance.NewOfficeBearer(role, req.FullName, req.Phone, now)
	if err != nil {
		return nil, err
	}

	var retired []governance.OfficeBearer
	if role.IsSingleSeat() {
		retired, err = s.succeed(ctx, bearer, now)
	} else {
		err = s.repo.Create(ctx, bearer)
	}
	if err != nil {
		return nil, err
	}
	s.metrics.BearerAppointed(ctx, string(role.Seat), len(retired) > 0)

	predecessors := make([]uuid.UUID, len(retired))
	for i := range retired {
		predecessors[i] = retired[i].ID
	}
	bearer.RecordAppointment(predecessors, now)

	for i := range retired {
		s.publish(ctx, &retired[i])
	}
	s.publish(ctx, bearer)

	telemetry.SetAttributes(span, telemetry.AttrBearerID, bearer.ID.String())
	logger.Enrich(ctx, s.logger).Info("Office bearer appointed",
		zap.String("bearer_id", bearer.ID.String()),
		zap.String("role", role.Key),
		zap.Int("archived", len(retired)),
	)

	return &AppointmentResponse{
		Bearer:       ToOfficeBearerResponse(bearer),
		Predecessors: ToOfficeBearerResponses(retired),
	}, nil
}

func (s *BearerRegistryService) succeed(ctx context.Context, bearer *governance.OfficeBearer, now time.Time) ([]governance.OfficeBearer, error) {
	var err error
	for attempt := 1; attempt <= maxSuccessionAttempts; attempt++ {
		var retired []governance.OfficeBearer
		retired, err = s.repo.Succeed(ctx, bearer, now)
		if err == nil {
			return retired, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		s.metrics.ConflictRetried(ctx, "governance.succeed")
		logger.Enrich(ctx, s.logger).Debug("Seat taken concurrently, retrying succession",
			zap.String("role", bearer.Role),
			zap.Int("attempt", attempt),
		)
	}
	return nil, err
}

// Remove ends an active tenure without naming a successor
func (s *BearerRegistryService) Remove(ctx context.Context, id uuid.UUID) (resp *OfficeBearerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "governance", "remove", telemetry.AttrBearerID, id.String())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	bearer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := bearer.Retire(governance.RetiredByRemoval, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Retire(ctx, bearer); err != nil {
		return nil, err
	}

	s.publish(ctx, bearer)
	logger.Enrich(ctx, s.logger).Info("Office bearer removed",
		zap.String("bearer_id", id.String()),
		zap.String("role", bearer.Role),
	)
	out := ToOfficeBearerResponse(bearer)
	return &out, nil
}

// ActiveFor returns the current holder of a single-seat role, or nil when the
// seat is vacant
func (s *BearerRegistryService) ActiveFor(ctx context.Context, roleKey string) (*OfficeBearerResponse, error) {
	role, err := s.catalog.Lookup(roleKey)
	if err != nil {
		return nil, err
	}
	if !role.IsSingleSeat() {
		return nil, governance.ErrNotSingleSeat
	}

	active, err := s.repo.FindActiveByRole(ctx, role.Key)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	if len(active) > 1 {
		logger.Enrich(ctx, s.logger).Warn("Single-seat role has several active holders",
			zap.String("role", role.Key),
			zap.Int("count", len(active)),
		)
	}
	// newest tenure wins if the store ever holds more than one
	out := ToOfficeBearerResponse(&active[len(active)-1])
	return &out, nil
}

// ActiveMultiSeat returns the active holders of any role
func (s *BearerRegistryService) ActiveMultiSeat(ctx context.Context, roleKey string) ([]OfficeBearerResponse, error) {
	role, err := s.catalog.Lookup(roleKey)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.FindActiveByRole(ctx, role.Key)
	if err != nil {
		return nil, err
	}
	return ToOfficeBearerResponses(active), nil
}

// Tenure returns every record of a role, newest first
func (s *BearerRegistryService) Tenure(ctx context.Context, roleKey string) ([]OfficeBearerResponse, error) {
	role, err := s.catalog.Lookup(roleKey)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.FindByRole(ctx, role.Key)
	if err != nil {
		return nil, err
	}
	return ToOfficeBearerResponses(records), nil
}

// Roster lists every catalog role in catalog order with its active holders.
// Active records of roles no longer in the catalog are left out.
func (s *BearerRegistryService) Roster(ctx context.Context) ([]RosterEntry, error) {
	active, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	byRole := make(map[string][]governance.OfficeBearer)
	for _, b := range active {
		byRole[b.Role] = append(byRole[b.Role], b)
	}

	roles := s.catalog.Roles()
	roster := make([]RosterEntry, 0, len(roles))
	for _, role := range roles {
		roster = append(roster, RosterEntry{
			Role:    ToRoleResponse(role),
			Holders: ToOfficeBearerResponses(byRole[role.Key]),
		})
	}
	return roster, nil
}

// Catalog returns the configured role catalog
func (s *BearerRegistryService) Catalog() CatalogResponse {
	roles := s.catalog.Roles()
	out := CatalogResponse{
		Version: s.catalog.Version(),
		Roles:   make([]RoleResponse, len(roles)),
	}
	for i, r := range roles {
		out.Roles[i] = ToRoleResponse(r)
	}
	return out
}

func (s *BearerRegistryService) publish(ctx context.Context, bearer *governance.OfficeBearer) {
	events := bearer.PullDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Error("Failed to publish office bearer events", zap.Error(err))
	}
}

// Package residency provisions shadow tenant accounts: an identity in the
// external identity store plus a profile row linking it to a house.
package residency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colony/backend/internal/domain/residency"
	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/logger"
	"github.com/colony/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HouseCatalog resolves house ids owned by the portion ledger
type HouseCatalog interface {
	HouseExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TenantProvisioningServiceConfig holds the dependencies of TenantProvisioningService
type TenantProvisioningServiceConfig struct {
	Houses         HouseCatalog
	Identities     residency.IdentityStore
	Profiles       residency.TenantProfileRepository
	Credentials    *residency.CredentialSynthesizer
	EventPublisher shared.EventPublisher
	Clock          shared.Clock
	Metrics        *telemetry.RegistryMetrics
	Logger         *zap.Logger
}

// TenantProvisioningService creates tenant accounts. An identity never outlives
// a failed provisioning call: when the profile cannot be written the identity
// is deleted before the error is returned.
type TenantProvisioningService struct {
	houses      HouseCatalog
	identities  residency.IdentityStore
	profiles    residency.TenantProfileRepository
	credentials *residency.CredentialSynthesizer
	publisher   shared.EventPublisher
	clock       shared.Clock
	metrics     *telemetry.RegistryMetrics
	logger      *zap.Logger
}

// NewTenantProvisioningService creates a new TenantProvisioningService
func NewTenantProvisioningService(cfg TenantProvisioningServiceConfig) *TenantProvisioningService {
	s := &TenantProvisioningService{
		houses:      cfg.Houses,
		identities:  cfg.Identities,
		profiles:    cfg.Profiles,
		credentials: cfg.Credentials,
		publisher:   cfg.EventPublisher,
		clock:       cfg.Clock,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
	if s.clock == nil {
		s.clock = shared.SystemClock{}
	}
	if s.credentials == nil {
		s.credentials = residency.NewCredentialSynthesizer(residency.DefaultShadowEmailDomain, s.clock, nil)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Provision validates the request, then creates the identity, the profile and
// finally refreshes the identity metadata. A metadata failure is returned as a
// warning on an otherwise successful account.
func (s *TenantProvisioningService) Provision(ctx context.Context, in ProvisionTenantRequest) (resp *TenantAccountResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tenant", "provision", telemetry.AttrHouseID, in.HouseID.String())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()
	started := s.clock.Now()
	log := logger.Enrich(ctx, s.logger)

	req, err := residency.NewTenantRequest(in.FullName, in.PhoneNumber, in.HouseID)
	if err != nil {
		return nil, err
	}
	exists, err := s.houses.HouseExists(ctx, req.HouseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, residency.ErrHouseNotFound
	}
	creds, err := s.credentials.Synthesize(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	var (
		identity *residency.Identity
		profile  *residency.TenantProfile
	)
	result := RunSaga(ctx, []SagaStep{
		{
			Name: StepCreateIdentity,
			Action: func(ctx context.Context) error {
				created, err := s.identities.CreateIdentity(ctx, residency.NewIdentity{
					Email:     creds.Email,
					Password:  creds.Password,
					Confirmed: true,
					Metadata:  req.Metadata(),
				})
				if err != nil {
					return err
				}
				identity = created
				telemetry.SetAttributes(span, telemetry.AttrIdentityID, created.ID.String())
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.identities.DeleteIdentity(ctx, identity.ID)
			},
		},
		{
			Name: StepCreateProfile,
			Action: func(ctx context.Context) error {
				profile = residency.NewTenantProfile(*identity, req, s.clock.Now())
				return s.profiles.Create(ctx, profile)
			},
		},
		{
			Name: StepSyncMetadata,
			Soft: true,
			Action: func(ctx context.Context) error {
				return s.identities.UpdateIdentityMetadata(ctx, identity.ID, req.Metadata())
			},
		},
	})

	for _, c := range result.Compensations {
		s.metrics.CompensationRan(ctx, c.Step, c.Err == nil)
		telemetry.AddEvent(span, "compensation", telemetry.AttrSagaStep, c.Step, "ok", c.Err == nil)
	}

	if result.Failed() {
		err = s.failure(ctx, req, identity, result, started)
		telemetry.SetAttributes(span, telemetry.AttrSagaStep, result.FailedStep)
		log.Error("Tenant provisioning failed",
			zap.String("step", result.FailedStep),
			zap.String("house_id", req.HouseID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	var warnings []string
	for _, f := range result.SoftFailures {
		warnings = append(warnings, shared.CodeMetadataSyncFailed)
		log.Warn("Tenant metadata refresh failed",
			zap.String("identity_id", identity.ID.String()),
			zap.String("step", f.Step),
			zap.Error(residency.ErrMetadataSync.WithCause(f.Err)),
		)
	}

	outcome := telemetry.OutcomeSuccess
	if len(warnings) > 0 {
		outcome = telemetry.OutcomeWarning
	}
	s.metrics.TenantProvisioned(ctx, outcome, s.clock.Now().Sub(started))
	s.publish(ctx, residency.NewTenantProvisionedEvent(profile, warnings, s.clock.Now()))
	log.Info("Tenant provisioned",
		zap.String("identity_id", identity.ID.String()),
		zap.String("house_id", req.HouseID.String()),
		zap.Int("warnings", len(warnings)),
	)

	out := ToTenantAccountResponse(profile, warnings)
	return &out, nil
}

// failure maps a failed saga to the error the caller sees and records the rollback
func (s *TenantProvisioningService) failure(ctx context.Context, req residency.TenantRequest, identity *residency.Identity, result SagaResult, started time.Time) error {
	elapsed := s.clock.Now().Sub(started)
	if result.FailedStep == StepCreateIdentity {
		s.metrics.TenantProvisioned(ctx, telemetry.OutcomeFailed, elapsed)
		return residency.ErrIdentityProvisioning.WithCause(result.Cause)
	}

	compErr := result.CompensationErr()
	outcome := telemetry.OutcomeRolledBack
	cause := result.Cause
	if compErr != nil {
		outcome = telemetry.OutcomeCompensationFailed
		cause = errors.Join(cause, fmt.Errorf("delete identity %s: %w", identity.ID, compErr))
	}
	s.metrics.TenantProvisioned(ctx, outcome, elapsed)
	s.publish(ctx, residency.NewTenantProvisioningRolledBackEvent(
		identity.ID, req.HouseID, result.FailedStep, result.Cause, compErr, s.clock.Now()))

	return residency.ErrProfileWrite.WithCause(cause)
}

// List returns tenant accounts, optionally restricted to one house, newest first
func (s *TenantProvisioningService) List(ctx context.Context, houseID *uuid.UUID) ([]TenantAccountResponse, error) {
	profiles, err := s.profiles.FindAll(ctx, houseID)
	if err != nil {
		return nil, err
	}
	out := make([]TenantAccountResponse, len(profiles))
	for i := range profiles {
		out[i] = ToTenantAccountResponse(&profiles[i], nil)
	}
	return out, nil
}

func (s *TenantProvisioningService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Enrich(ctx, s.logger).Error("Failed to publish tenant event", zap.Error(err))
	}
}

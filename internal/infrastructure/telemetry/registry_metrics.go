package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrKeyOperation = attribute.Key("operation")
	AttrKeyOutcome   = attribute.Key("outcome")
	AttrKeySeat      = attribute.Key("seat")
	AttrKeyStep      = attribute.Key("step")
)

// Outcome values recorded on provisioning metrics
const (
	OutcomeSuccess            = "success"
	OutcomeWarning            = "warning"
	OutcomeRolledBack         = "rolled_back"
	OutcomeFailed             = "failed"
	OutcomeCompensationFailed = "compensation_failed"
)

// RegistryMetrics holds the business instruments of the registry. A nil
// *RegistryMetrics is valid and records nothing.
type RegistryMetrics struct {
	houseWrites           *Counter
	successions           *Counter
	concurrencyRetries    *Counter
	provisionings         *Counter
	compensations         *Counter
	provisioningDurations *Histogram
}

// NewRegistryMetrics creates the registry instruments on meter
func NewRegistryMetrics(meter metric.Meter) (*RegistryMetrics, error) {
	var (
		m    RegistryMetrics
		err  error
		errs []error
	)

	m.houseWrites, err = NewCounter(meter, "colony.house.writes", "House create/update/delete operations", "{operation}")
	errs = append(errs, err)
	m.successions, err = NewCounter(meter, "colony.governance.appointments", "Office bearer appointments", "{appointment}")
	errs = append(errs, err)
	m.concurrencyRetries, err = NewCounter(meter, "colony.concurrency.retries", "Retries after an optimistic or uniqueness conflict", "{retry}")
	errs = append(errs, err)
	m.provisionings, err = NewCounter(meter, "colony.tenant.provisionings", "Tenant provisioning attempts by outcome", "{provisioning}")
	errs = append(errs, err)
	m.compensations, err = NewCounter(meter, "colony.tenant.compensations", "Saga compensations executed", "{compensation}")
	errs = append(errs, err)
	m.provisioningDurations, err = NewHistogram(meter, "colony.tenant.provisioning.duration", "Tenant provisioning latency", "s",
		0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// HouseWritten counts a house write
func (m *RegistryMetrics) HouseWritten(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.houseWrites.Inc(ctx, AttrKeyOperation.String(operation))
}

// BearerAppointed counts an appointment and whether it archived predecessors
func (m *RegistryMetrics) BearerAppointed(ctx context.Context, seat string, archived bool) {
	if m == nil {
		return
	}
	outcome := "first"
	if archived {
		outcome = "succession"
	}
	m.successions.Inc(ctx, AttrKeySeat.String(seat), AttrKeyOutcome.String(outcome))
}

// ConflictRetried counts one retry of operation
func (m *RegistryMetrics) ConflictRetried(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.concurrencyRetries.Inc(ctx, AttrKeyOperation.String(operation))
}

// TenantProvisioned records the outcome and latency of one provisioning
func (m *RegistryMetrics) TenantProvisioned(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.provisionings.Inc(ctx, AttrKeyOutcome.String(outcome))
	m.provisioningDurations.RecordDuration(ctx, elapsed, AttrKeyOutcome.String(outcome))
}

// CompensationRan counts a compensation of step
func (m *RegistryMetrics) CompensationRan(ctx context.Context, step string, ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailed
	}
	m.compensations.Inc(ctx, AttrKeyStep.String(step), AttrKeyOutcome.String(outcome))
}

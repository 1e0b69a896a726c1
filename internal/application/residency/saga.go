package residency

import (
	"context"
	"errors"
)

// Saga step names
const (
	StepCreateIdentity = "create-identity"
	StepCreateProfile  = "create-profile"
	StepSyncMetadata   = "sync-metadata"
)

// SagaStep is one forward action with an optional compensation.
// A soft step never aborts the saga; its failure is reported and later
// steps still run.
type SagaStep struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
	Soft       bool
}

// CompensationResult reports one compensation attempt
type CompensationResult struct {
	Step string
	Err  error
}

// StepFailure is a failed soft step
type StepFailure struct {
	Step string
	Err  error
}

// SagaResult summarizes a saga run
type SagaResult struct {
	FailedStep    string
	Cause         error
	Compensations []CompensationResult
	SoftFailures  []StepFailure
}

// Failed reports whether a hard step failed
func (r SagaResult) Failed() bool {
	return r.Cause != nil
}

// CompensationErr joins the errors of failed compensations, or returns nil
func (r SagaResult) CompensationErr() error {
	var errs []error
	for _, c := range r.Compensations {
		if c.Err != nil {
			errs = append(errs, c.Err)
		}
	}
	return errors.Join(errs...)
}

// RunSaga executes steps in order. When a hard step fails, the compensations
// of the completed steps run in reverse order before RunSaga returns. They run
// on a context detached from ctx's cancellation so an abandoned request still
// cleans up.
func RunSaga(ctx context.Context, steps []SagaStep) SagaResult {
	var (
		result    SagaResult
		completed []SagaStep
	)

	for _, step := range steps {
		err := step.Action(ctx)
		if err == nil {
			completed = append(completed, step)
			continue
		}
		if step.Soft {
			result.SoftFailures = append(result.SoftFailures, StepFailure{Step: step.Name, Err: err})
			continue
		}

		result.FailedStep = step.Name
		result.Cause = err
		result.Compensations = compensate(context.WithoutCancel(ctx), completed)
		return result
	}
	return result
}

func compensate(ctx context.Context, completed []SagaStep) []CompensationResult {
	var results []CompensationResult
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		results = append(results, CompensationResult{Step: step.Name, Err: step.Compensate(ctx)})
	}
	return results
}

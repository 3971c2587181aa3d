// Package walker provides a small recurring-action scheduler: given an interval and a step
// function, it keeps invoking the step at that interval until the walk is stopped or a step fails.
//
// It is safe against re-entrancy, overlapping Start/Stop calls, and a Stop that races with the
// step currently in flight.
//
// Features:
//   - Exactly one walk per scheduler; Start while active supersedes the running walk.
//   - Optimistic activation: the observer sees the walk as active before the first step returns.
//   - Stale step results (the walk was stopped or replaced meanwhile) are ignored.
//   - A failed step ends the walk; there is no built-in retry.
//   - ForceNext and ResetTimer conveniences for hosts reacting to user activity.
//   - Opaque configuration: any type with an Interval() method is passed through untouched.
//   - Pluggable monitoring with an in-memory default; Prometheus and SQLite backends live
//     under monitoring/.
//
// Example usage:
//
//	type Display struct{ ShowProgress bool }
//
//	s, _ := walker.New(context.Background(), walker.Options[walker.Walk[Display]]{
//		Step: func(ctx context.Context, cfg walker.Walk[Display]) error {
//			return openRandomNote(cfg.Params.ShowProgress)
//		},
//		OnStateChange: func(active bool, cfg walker.Walk[Display]) {
//			ui.SetWalking(active)
//		},
//	}, nil)
//	defer s.Close()
//
//	_ = s.Start(walker.Walk[Display]{Every: 30 * time.Second, Params: Display{ShowProgress: true}})
package walker

import (
	"context"

	"github.com/osmike/walker/internal/domain"
	"github.com/osmike/walker/internal/walk"
)

// Config is the configuration of a walk. The scheduler only reads Interval; the value
// itself is handed back to the callbacks unchanged.
type Config = domain.Config

// Every is a bare interval used as a walk configuration.
type Every = domain.Every

// Walk bundles an interval with opaque host parameters.
//
// Parameters:
//   - Every: Delay between the end of one step and the start of the next.
//   - Params: Host data passed through to Step and OnStateChange.
type Walk[T any] = domain.Walk[T]

// StepFunc performs one step. Returning nil continues the walk; any error ends it.
type StepFunc[C Config] = domain.StepFunc[C]

// StateFunc observes walk transitions: (true, cfg) on start, (false, zero) on stop.
type StateFunc[C Config] = domain.StateFunc[C]

// Options configures a scheduler.
//
// Parameters:
//   - Step: Required step function.
//   - OnStateChange: Required transition observer.
//   - Clock: Time source for the step timer. Defaults to the real clock.
//   - Logger: zap logger. Defaults to a no-op logger.
//   - Monitoring: Used when New gets a nil mon argument.
type Options[C Config] = domain.Options[C]

// Scheduler runs one walk at a time.
//
// Methods:
//   - Start(cfg): Begins a walk, superseding the current one.
//   - Stop(): Ends the current walk. Idempotent.
//   - IsActive(): Reports whether a walk is running.
//   - Current(): Returns the running walk's configuration.
//   - ForceNext(): Restarts the walk so a step runs now.
//   - ResetTimer(): Re-arms the pending timer for a full interval.
//   - Close(): Stops the walk, waits for steps in flight and refuses further starts.
type Scheduler[C Config] = walk.Scheduler[C]

// StepStatus is the outcome of a step as seen by monitoring.
type StepStatus = domain.StepStatus

// StepState describes one finished step:
//   - WalkID / Seq identify the step.
//   - StartAt / EndAt / Duration time it.
//   - Status is Succeeded, Failed or Stale.
//   - Error is the step error, if any.
type StepState = domain.StepState

const (
	Succeeded = domain.Succeeded
	Failed    = domain.Failed
	Stale     = domain.Stale
)

// Monitoring defines an interface for collecting metrics about step execution.
//
// Implementations of this interface can persist metrics in various ways, such as:
// - In-memory storage for simple debugging and development purposes.
// - Metric registries (see monitoring/prometheus).
// - Databases used as an audit log (see monitoring/sqlite).
type Monitoring interface {
	// SaveMetrics stores the outcome of one finished step.
	//
	// Parameters:
	//   - dto: StepState describing the step.
	SaveMetrics(dto StepState)
}

// New creates a scheduler in Idle state.
//
// Parameters:
//   - ctx: Parent context; its cancellation is visible to steps through their context.
//   - opts: Callbacks and optional clock and logger.
//   - mon: Monitoring implementation. If nil, opts.Monitoring is used, and if
//     that is nil too, the in-memory DefaultMon.
//
// Returns:
//   - The scheduler.
//   - ErrEmptyStep or ErrEmptyObserver if a callback is missing.
func New[C Config](ctx context.Context, opts Options[C], mon Monitoring) (*Scheduler[C], error) {
	switch {
	case mon != nil:
		opts.Monitoring = mon
	case opts.Monitoring == nil:
		opts.Monitoring = NewDefaultMon()
	}
	return walk.New(ctx, opts)
}

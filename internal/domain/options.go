package domain

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Options configures a scheduler instance. Step and OnStateChange are bound
// for the scheduler's lifetime and cannot be replaced later.
type Options[C Config] struct {
	// Step performs one step of the walk. Required.
	Step StepFunc[C]

	// OnStateChange observes Idle/Active transitions. Required.
	OnStateChange StateFunc[C]

	// Clock drives the step timer. Defaults to the real clock if nil.
	Clock clockwork.Clock

	// Logger receives lifecycle and failure logs. Defaults to zap.NewNop() if nil.
	Logger *zap.Logger

	// Monitoring receives one StepState per finished step. Optional.
	Monitoring Monitoring
}

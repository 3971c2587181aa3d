package domain

import (
	"time"
)

// StepState is a snapshot of one finished step, handed to Monitoring.
type StepState struct {
	// WalkID identifies the walk the step belonged to. A new ID is issued on every Start.
	WalkID string

	// Seq is the 1-based position of the step within its walk.
	Seq int

	// StartAt is the clock time when the step was invoked.
	StartAt time.Time

	// EndAt is the clock time when the step returned.
	EndAt time.Time

	// Duration is EndAt - StartAt.
	Duration time.Duration

	// Status is the outcome of the step.
	Status StepStatus

	// Error holds the step error when Status is Failed, and the error a stale
	// step returned, if any.
	Error error
}

package domain

// StepStatus represents the outcome of a single step as recorded by monitoring.
//
// Possible values include:
// - Succeeded: The step returned nil and the walk was still current.
// - Failed:    The step returned an error (or panicked); the walk was ended.
// - Stale:     The walk was stopped or superseded while the step was in flight,
//   so its result was ignored.
type StepStatus string

const (
	// Succeeded indicates the step completed and the next one has been scheduled.
	Succeeded StepStatus = "succeeded"

	// Failed indicates the step could not be performed.
	// A failed step always terminates the walk; there is no retry.
	Failed StepStatus = "failed"

	// Stale indicates the step resolved after its walk had already ended.
	// The scheduler drops such results without arming a timer or notifying.
	Stale StepStatus = "stale"
)

package domain

import "context"

// StepFunc performs one step of a walk.
//
// A nil error means the step succeeded and the walk goes on. Any error means
// the step could not be performed (for example, nothing eligible to visit);
// the scheduler then ends the walk without retrying. Expected failures should be
// returned, not panicked.
//
// The context is cancelled when the scheduler is closed. The scheduler never
// cancels a step because its walk was stopped; it simply ignores the result.
type StepFunc[C Config] func(ctx context.Context, cfg C) error

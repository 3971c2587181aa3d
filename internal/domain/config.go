package domain

import "time"

// Config is the configuration of a single walk.
//
// The scheduler only ever reads Interval. Everything else a host puts into its
// configuration type is carried through untouched: the exact value passed to
// Start is handed to every Step and OnStateChange call of that walk.
type Config interface {
	// Interval is the delay between the end of one step and the start of the next.
	// Values <= 0 are rejected by Start.
	Interval() time.Duration
}

// Every is the bare-interval shape of a walk configuration.
type Every time.Duration

// Interval returns the duration itself.
func (e Every) Interval() time.Duration {
	return time.Duration(e)
}

// Walk bundles an interval with opaque host parameters, such as display flags.
//
// Example:
//
//	type Display struct{ ShowProgress bool }
//	cfg := Walk[Display]{Every: 5 * time.Second, Params: Display{ShowProgress: true}}
type Walk[T any] struct {
	// Every is the delay between steps.
	Every time.Duration

	// Params is passed through to the host callbacks unchanged.
	Params T
}

// Interval returns w.Every.
func (w Walk[T]) Interval() time.Duration {
	return w.Every
}

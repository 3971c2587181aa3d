package walker

import errs "github.com/osmike/walker/internal/error"

var (
	ErrEmptyStep       = errs.ErrEmptyStep
	ErrEmptyObserver   = errs.ErrEmptyObserver
	ErrInvalidInterval = errs.ErrInvalidInterval
	ErrClosed          = errs.ErrClosed
)

var (
	ErrStepFailed   = errs.ErrStepFailed
	ErrStepPanicked = errs.ErrStepPanicked
)

package error

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyStep       = errors.New("step function is empty")
	ErrEmptyObserver   = errors.New("state change observer is empty")
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrClosed          = errors.New("scheduler is closed")
)

var (
	ErrStepFailed       = errors.New("step failed")
	ErrStepPanicked     = errors.New("step panicked")
	ErrObserverPanicked = errors.New("state change observer panicked")
)

var (
	ErrInvalidEvery   = errors.New("invalid walk interval")
	ErrEmptyDir       = errors.New("walk directory is empty")
	ErrNothingToVisit = errors.New("nothing to visit")
	ErrInvalidConfig  = errors.New("invalid config")
)

var (
	ErrHistoryOpen  = errors.New("error opening step history")
	ErrHistoryWrite = errors.New("error writing step history")
	ErrHistoryRead  = errors.New("error reading step history")
)

// New wraps err with a detail message, keeping err reachable through errors.Is.
func New(err error, str string) error {
	return fmt.Errorf("%w: %s", err, str)
}

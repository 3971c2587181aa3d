// Package walk implements the walk scheduler: a single-slot timer that keeps
// invoking a host-supplied step at a fixed interval until it is stopped or a
// step fails.
package walk

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/osmike/walker/internal/domain"
	errs "github.com/osmike/walker/internal/error"
)

// Scheduler runs at most one walk at a time.
//
// State is Idle when slot is nil and Active otherwise; there is no separate
// flag. While Active the slot holds the configuration and, between steps, the
// armed timer. The timer is nil while a step is in flight.
type Scheduler[C domain.Config] struct {
	step    domain.StepFunc[C]
	observe domain.StateFunc[C]
	clock   clockwork.Clock
	log     *zap.Logger
	mon     domain.Monitoring

	// ctx is handed to every step and cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	// mu guards every field below. It is never held while a host callback runs.
	mu     sync.Mutex
	slot   *slot[C]
	epoch  uint64
	closed bool

	// queue holds host notifications in commit order; see notify.go.
	queue      []event[C]
	delivering bool
	// drained is signalled on mu when a deliverer empties the queue.
	drained *sync.Cond

	// running counts steps in flight. Add happens under mu.
	running sync.WaitGroup
}

// New creates a scheduler bound to the given callbacks.
//
// Parameters:
//   - ctx: Parent context. Cancelling it cancels the context seen by steps;
//     it does not stop the walk.
//   - opts: Callbacks plus optional clock, logger and monitoring.
//
// Returns:
//   - The scheduler in Idle state.
//   - ErrEmptyStep or ErrEmptyObserver if a callback is missing.
func New[C domain.Config](ctx context.Context, opts domain.Options[C]) (*Scheduler[C], error) {
	if opts.Step == nil {
		return nil, errs.ErrEmptyStep
	}
	if opts.OnStateChange == nil {
		return nil, errs.ErrEmptyObserver
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Scheduler[C]{
		step:    opts.Step,
		observe: opts.OnStateChange,
		clock:   opts.Clock,
		log:     opts.Logger,
		mon:     opts.Monitoring,
	}
	s.drained = sync.NewCond(&s.mu)
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s, nil
}

// Start begins a new walk with cfg, superseding the current one if any.
//
// The scheduler becomes Active before the first step runs: the observer is
// told (true, cfg) and only then is the step launched. Start returns once the
// walk is committed; it does not wait for the step. If the step succeeds and
// the walk is still current, the timer is armed for cfg.Interval(). If it
// fails, the walk ends.
//
// Returns:
//   - ErrInvalidInterval if cfg.Interval() <= 0. Nothing changes and no
//     callback fires.
//   - ErrClosed after Close.
func (s *Scheduler[C]) Start(cfg C) error {
	if cfg.Interval() <= 0 {
		return errs.New(errs.ErrInvalidInterval, fmt.Sprintf("got %s", cfg.Interval()))
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errs.ErrClosed
	}
	s.begin(cfg)
	s.flush()
	return nil
}

// Stop ends the current walk. The observer gets exactly one (false, zero)
// notification. It is a no-op when Idle and safe to call from callbacks.
//
// A step that is in flight keeps running; its result is ignored.
func (s *Scheduler[C]) Stop() {
	s.mu.Lock()
	if s.slot == nil {
		s.mu.Unlock()
		return
	}
	s.release()
	s.flush()
}

// IsActive reports whether a walk is running.
func (s *Scheduler[C]) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot != nil
}

// Current returns the configuration of the running walk, and false when Idle.
func (s *Scheduler[C]) Current() (C, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot == nil {
		var zero C
		return zero, false
	}
	return s.slot.cfg, true
}

// Close stops the current walk, cancels the step context, waits for steps in
// flight to return and makes every later Start return ErrClosed. After Close
// returns no callback or monitoring call is made. Calling Close more than
// once is safe; calling it from a callback deadlocks.
func (s *Scheduler[C]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.slot != nil {
		s.release()
	}
	// Another goroutine may be delivering; it will deliver our events too.
	for s.delivering {
		s.drained.Wait()
	}
	s.flush()
	s.cancel()
	s.running.Wait()
}

// begin installs a new slot for cfg. Caller must hold mu.
func (s *Scheduler[C]) begin(cfg C) {
	if s.slot != nil {
		s.release()
	}
	s.epoch++
	s.slot = newSlot(cfg, s.epoch)
	s.log.Debug("walk started",
		zap.String("walk_id", s.slot.id),
		zap.Duration("interval", cfg.Interval()),
	)
	s.enqueue(
		event[C]{kind: becameActive, cfg: cfg},
		event[C]{kind: launchStep, epoch: s.epoch},
	)
}

// release drops the current slot and queues the Idle notification. Caller
// must hold mu and slot must be non-nil.
func (s *Scheduler[C]) release() {
	s.slot.disarm()
	s.log.Debug("walk stopped",
		zap.String("walk_id", s.slot.id),
		zap.Int("steps", s.slot.seq),
	)
	s.slot = nil
	s.enqueue(event[C]{kind: becameIdle})
}

// current returns the slot if it still belongs to epoch. Caller must hold mu.
func (s *Scheduler[C]) current(epoch uint64) *slot[C] {
	if s.slot == nil || s.slot.epoch != epoch {
		return nil
	}
	return s.slot
}

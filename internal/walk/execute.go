package walk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/osmike/walker/internal/domain"
	errs "github.com/osmike/walker/internal/error"
)

// launch starts the first step of walk epoch on its own goroutine.
//
// It runs from flush, right after the (true, cfg) notification of the same
// walk. If the observer already stopped or replaced the walk, nothing runs.
func (s *Scheduler[C]) launch(epoch uint64) {
	s.mu.Lock()
	sl := s.current(epoch)
	if sl == nil {
		s.mu.Unlock()
		return
	}
	cfg, id, seq := sl.cfg, sl.id, sl.next()
	s.running.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.running.Done()
		s.run(epoch, cfg, id, seq)
	}()
}

// fire is the timer callback. It runs the next step if the timer that fired
// is still the one armed for the current walk.
func (s *Scheduler[C]) fire(epoch, tick uint64) {
	s.mu.Lock()
	sl := s.current(epoch)
	if sl == nil || !sl.armed(tick) {
		s.mu.Unlock()
		return
	}
	sl.timer = nil
	cfg, id, seq := sl.cfg, sl.id, sl.next()
	s.running.Add(1)
	s.mu.Unlock()

	defer s.running.Done()
	s.run(epoch, cfg, id, seq)
}

// run invokes the step and applies its result.
//
// This is the only suspension point of a walk. After the step returns the
// walk is looked up again by epoch: if it has been stopped or superseded in
// the meantime, the result is dropped without arming a timer or notifying.
func (s *Scheduler[C]) run(epoch uint64, cfg C, id string, seq int) {
	state := domain.StepState{
		WalkID:  id,
		Seq:     seq,
		StartAt: s.clock.Now(),
	}

	err := s.invoke(cfg)

	state.EndAt = s.clock.Now()
	state.Duration = state.EndAt.Sub(state.StartAt)
	state.Error = err

	s.mu.Lock()
	sl := s.current(epoch)
	switch {
	case sl == nil:
		s.mu.Unlock()
		state.Status = domain.Stale
	case err != nil:
		s.release()
		s.flush()
		state.Status = domain.Failed
		s.log.Warn("step failed, walk ended",
			zap.String("walk_id", id),
			zap.Int("seq", seq),
			zap.Error(err),
		)
	default:
		sl.arm(s.clock, s.fire)
		s.mu.Unlock()
		state.Status = domain.Succeeded
	}

	s.record(state)
}

// invoke calls the step, turning a panic into ErrStepPanicked.
func (s *Scheduler[C]) invoke(cfg C) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.New(errs.ErrStepPanicked, fmt.Sprint(r))
		}
	}()
	if err = s.step(s.ctx, cfg); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrStepFailed, err)
	}
	return nil
}

func (s *Scheduler[C]) record(state domain.StepState) {
	if s.mon != nil {
		s.mon.SaveMetrics(state)
	}
}

package walk

// ForceNext restarts the running walk with its current configuration, so a
// step runs now instead of when the timer fires.
//
// It behaves exactly like Start(current): the observer sees (false, zero)
// then (true, cfg), the pending timer is dropped and a step in flight, if
// any, becomes stale. It is a no-op when Idle.
func (s *Scheduler[C]) ForceNext() {
	s.mu.Lock()
	if s.slot == nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.begin(s.slot.cfg)
	s.flush()
}

// ResetTimer pushes the next step a full interval away from now without
// running one.
//
// It only acts while the timer is armed. While a step is in flight there is no
// timer to reset; the step will arm a fresh one when it succeeds. It is a
// no-op when Idle.
func (s *Scheduler[C]) ResetTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil || s.slot.timer == nil {
		return
	}
	s.slot.arm(s.clock, s.fire)
}

package walk

import (
	"fmt"

	"go.uber.org/zap"

	errs "github.com/osmike/walker/internal/error"
)

type eventKind int

const (
	becameActive eventKind = iota
	becameIdle
	launchStep
)

// event is queued under mu in the order transitions are committed and handled
// by flush outside of it.
type event[C any] struct {
	kind  eventKind
	cfg   C
	epoch uint64
}

// enqueue appends events to the delivery queue. Caller must hold mu.
func (s *Scheduler[C]) enqueue(evs ...event[C]) {
	s.queue = append(s.queue, evs...)
}

// flush delivers queued events and releases mu. Caller must hold mu.
//
// Only one goroutine delivers at a time. A goroutine that finds delivery in
// progress leaves its events to the current deliverer and returns at once;
// that is what makes scheduler calls from inside the observer safe.
func (s *Scheduler[C]) flush() {
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue[0] = event[C]{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.deliver(ev)

		s.mu.Lock()
	}
	s.queue = nil
	s.delivering = false
	s.drained.Broadcast()
	s.mu.Unlock()
}

func (s *Scheduler[C]) deliver(ev event[C]) {
	switch ev.kind {
	case becameActive:
		s.notify(true, ev.cfg)
	case becameIdle:
		var zero C
		s.notify(false, zero)
	case launchStep:
		s.launch(ev.epoch)
	}
}

// notify calls the observer, containing a panic so that delivery can continue.
func (s *Scheduler[C]) notify(active bool, cfg C) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("state change observer panicked",
				zap.Bool("active", active),
				zap.Error(errs.New(errs.ErrObserverPanicked, fmt.Sprint(r))),
			)
		}
	}()
	s.observe(active, cfg)
}

package walk

import (
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/osmike/walker/internal/domain"
)

// slot is the single timer slot of a scheduler, together with the walk it
// belongs to. All fields are guarded by the owning Scheduler's mu.
type slot[C domain.Config] struct {
	cfg   C
	epoch uint64

	// id identifies the walk in logs and monitoring.
	id string

	// seq counts the steps launched in this walk.
	seq int

	// timer is nil while a step is in flight.
	timer clockwork.Timer

	// tick identifies the armed timer, so that a timer that fired just as it
	// was replaced cannot run a step.
	tick uint64
}

func newSlot[C domain.Config](cfg C, epoch uint64) *slot[C] {
	return &slot[C]{
		cfg:   cfg,
		epoch: epoch,
		id:    uuid.NewString(),
	}
}

// arm replaces the pending timer with one that calls fire after the walk interval.
func (sl *slot[C]) arm(clock clockwork.Clock, fire func(epoch, tick uint64)) {
	sl.disarm()
	sl.tick++
	epoch, tick := sl.epoch, sl.tick
	sl.timer = clock.AfterFunc(sl.cfg.Interval(), func() {
		fire(epoch, tick)
	})
}

// disarm stops the pending timer, if any.
func (sl *slot[C]) disarm() {
	if sl.timer != nil {
		sl.timer.Stop()
		sl.timer = nil
	}
}

// armed reports whether tick is the timer currently held by the slot.
func (sl *slot[C]) armed(tick uint64) bool {
	return sl.timer != nil && sl.tick == tick
}

// next marks a step as launched and returns its sequence number.
func (sl *slot[C]) next() int {
	sl.seq++
	return sl.seq
}

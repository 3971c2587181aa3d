package walk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/osmike/walker/internal/domain"
)

// waitForCondition polls the condition function until it returns true or timeout is reached.
// It fails the test with a fatal error if the timeout is reached.
func waitForCondition(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timeout waiting for condition")
}

// testCfg is a walk configuration carrying a name next to the interval.
type testCfg struct {
	Name  string
	Every time.Duration
}

func (c testCfg) Interval() time.Duration { return c.Every }

// change is one observer call.
type change struct {
	Active bool
	Name   string
}

var errNothing = errors.New("nothing to visit")

// harness records every callback of a scheduler driven by a fake clock.
type harness struct {
	t     *testing.T
	s     *Scheduler[testCfg]
	clock *clockwork.FakeClock

	mu      sync.Mutex
	changes []change
	steps   []string
	states  []domain.StepState

	// result decides what the n-th step (1-based) returns. Nil means success.
	result func(n int, cfg testCfg) error
	// onChange runs inside the observer after the change is recorded.
	onChange func(active bool, cfg testCfg)
}

func newHarness(t *testing.T) *harness {
	h := &harness{t: t, clock: clockwork.NewFakeClock()}

	s, err := New(context.Background(), domain.Options[testCfg]{
		Step:          h.step,
		OnStateChange: h.observe,
		Clock:         h.clock,
		Monitoring:    h,
	})
	require.NoError(t, err)
	h.s = s
	t.Cleanup(s.Close)
	return h
}

func (h *harness) step(_ context.Context, cfg testCfg) error {
	h.mu.Lock()
	h.steps = append(h.steps, cfg.Name)
	n := len(h.steps)
	result := h.result
	h.mu.Unlock()

	if result != nil {
		return result(n, cfg)
	}
	return nil
}

func (h *harness) observe(active bool, cfg testCfg) {
	h.mu.Lock()
	h.changes = append(h.changes, change{Active: active, Name: cfg.Name})
	hook := h.onChange
	h.mu.Unlock()

	if hook != nil {
		hook(active, cfg)
	}
}

func (h *harness) SaveMetrics(dto domain.StepState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, dto)
}

func (h *harness) Steps() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.steps...)
}

func (h *harness) StepCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.steps)
}

func (h *harness) Changes() []change {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]change(nil), h.changes...)
}

func (h *harness) States() []domain.StepState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.StepState(nil), h.states...)
}

// waitSteps blocks until n steps have been invoked.
func (h *harness) waitSteps(n int) {
	h.t.Helper()
	waitForCondition(h.t, time.Second, func() bool { return h.StepCount() >= n })
}

// waitStates blocks until n step results have been recorded.
func (h *harness) waitStates(n int) {
	h.t.Helper()
	waitForCondition(h.t, time.Second, func() bool { return len(h.States()) >= n })
}

// waitArmed blocks until the fake clock holds n pending timers.
func (h *harness) waitArmed(n int) {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(h.t, h.clock.BlockUntilContext(ctx, n))
}

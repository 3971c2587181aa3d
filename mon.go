package walker

import (
	"sync"
)

// DefaultMon provides an in-memory, thread-safe implementation of the Monitoring interface.
//
// It keeps the latest StepState of every walk in a concurrent-safe map (`sync.Map`) keyed by
// walk ID, plus running totals per status. This basic implementation is suitable for debugging,
// tests and simple runtime analytics. For production, use monitoring/prometheus or supply your own.
type DefaultMon struct {
	data   *sync.Map // Latest StepState per WalkID.
	mu     sync.Mutex
	totals map[StepStatus]int
}

// NewDefaultMon creates and initializes a new DefaultMon.
func NewDefaultMon() *DefaultMon {
	return &DefaultMon{
		data:   &sync.Map{},
		totals: make(map[StepStatus]int),
	}
}

// SaveMetrics stores the provided StepState as the latest for its walk and bumps the
// total for its status.
//
// Parameters:
//   - dto: StepState of a finished step.
func (m *DefaultMon) SaveMetrics(dto StepState) {
	m.data.Store(dto.WalkID, dto)

	m.mu.Lock()
	m.totals[dto.Status]++
	m.mu.Unlock()
}

// GetMetrics retrieves the latest step of every walk seen so far.
//
// Returns:
//   - A map with WalkID as keys and StepState values.
func (m *DefaultMon) GetMetrics() map[string]StepState {
	result := make(map[string]StepState)
	m.data.Range(func(key, value interface{}) bool {
		result[key.(string)] = value.(StepState)
		return true
	})
	return result
}

// Totals returns how many steps ended with each status.
func (m *DefaultMon) Totals() map[StepStatus]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[StepStatus]int, len(m.totals))
	for k, v := range m.totals {
		out[k] = v
	}
	return out
}

// Tee returns a Monitoring that forwards every StepState to each of mons in order.
// Nil entries are skipped.
func Tee(mons ...Monitoring) Monitoring {
	var out tee
	for _, m := range mons {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

type tee []Monitoring

func (t tee) SaveMetrics(dto StepState) {
	for _, m := range t {
		m.SaveMetrics(dto)
	}
}

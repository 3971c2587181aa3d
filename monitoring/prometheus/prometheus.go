// Package prometheus exposes walk metrics through a Prometheus registry.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/osmike/walker/internal/domain"
)

// Monitoring implements walker.Monitoring on top of Prometheus collectors.
//
// Collectors:
//   - walker_steps_total{status}: steps by outcome (succeeded, failed, stale).
//   - walker_step_duration_seconds{status}: step duration histogram.
//   - walker_active: 1 while a walk is running, 0 otherwise. Driven by ObserveState.
//   - walker_walk_steps: steps taken by the current or last walk.
type Monitoring struct {
	steps     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	active    prometheus.Gauge
	walkSteps prometheus.Gauge
}

// New creates the collectors and registers them on reg.
//
// Parameters:
//   - reg: Registry to register on. prometheus.DefaultRegisterer is used if nil.
//
// Returns:
//   - The monitoring, or the registration error.
func New(reg prometheus.Registerer) (*Monitoring, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Monitoring{
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walker_steps_total",
				Help: "Total number of finished steps by outcome",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walker_step_duration_seconds",
				Help:    "Step execution duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walker_active",
			Help: "Whether a walk is running (1) or not (0)",
		}),
		walkSteps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walker_walk_steps",
			Help: "Steps taken by the current or last walk",
		}),
	}

	for _, c := range []prometheus.Collector{m.steps, m.duration, m.active, m.walkSteps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SaveMetrics counts the step and observes its duration.
// Stale steps are counted but do not move walker_walk_steps.
func (m *Monitoring) SaveMetrics(state domain.StepState) {
	status := string(state.Status)
	m.steps.WithLabelValues(status).Inc()
	m.duration.WithLabelValues(status).Observe(state.Duration.Seconds())
	if state.Status != domain.Stale {
		m.walkSteps.Set(float64(state.Seq))
	}
}

// ObserveState tracks walker_active. Call it from the scheduler's OnStateChange.
func (m *Monitoring) ObserveState(active bool) {
	if active {
		m.active.Set(1)
		m.walkSteps.Set(0)
		return
	}
	m.active.Set(0)
}

package domain

// Monitoring defines an interface for collecting metrics related to step execution.
//
// Implementations of this interface can persist metrics in various ways, such as:
// - In-memory storage for simple debugging and development purposes.
// - Metric registries scraped by external systems.
// - Databases used as an audit log by the host.
type Monitoring interface {
	// SaveMetrics stores the outcome of one finished step.
	//
	// It is called once per step, after the scheduler has applied the result,
	// and never with the scheduler lock held.
	//
	// Parameters:
	//   - dto: StepState describing the step.
	SaveMetrics(dto StepState)
}

package domain

// StateFunc observes walk transitions.
//
// It is called exactly once for every Idle to Active transition with
// active=true and the walk configuration, and exactly once for every Active to
// Idle transition with active=false and the zero value of C.
//
// Calls are delivered in the order the transitions happened and never
// concurrently with each other. The observer may call back into the scheduler
// (IsActive, Stop, Start, ForceNext); such calls never deadlock. Close must not
// be called from the observer.
type StateFunc[C Config] func(active bool, cfg C)

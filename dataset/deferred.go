package dataset

import "sync"

// Deferred wraps lazy production of a float64 buffer. The producer runs
// at most once; Force blocks until it completes and every subsequent
// call returns the same buffer. This mirrors deferred array evaluation:
// the engine forces values only at well-defined points (mask
// application, eager summaries, persistence) and nowhere else.
type Deferred struct {
	once    sync.Once
	produce func() []float64
	data    []float64
}

// NewDeferred wraps produce into a Deferred. A nil producer is rejected
// later by NewLazy; Deferred itself stays inert until Force.
func NewDeferred(produce func() []float64) *Deferred {
	return &Deferred{produce: produce}
}

// Force materializes the buffer, blocking until the producer returns.
func (d *Deferred) Force() []float64 {
	d.once.Do(func() { d.data = d.produce() })
	return d.data
}

// internal/delta/cyclical.go
package delta

// Cyclical is a recurring timer over a wrapping counter.
//
// A firing re-arms with the overshoot modulo the cycle, so late polling never
// shifts the phase. Cycles skipped entirely are NOT replayed: polling less
// often than once per cycle collapses them into a single firing.
type Cyclical[T Unsigned] struct {
	Delta[T]
	cycle T
}

// NewCyclical creates a recurring timer with the given cycle.
// offset pre-advances the first cycle.
func NewCyclical[T Unsigned](counter *T, cycle, offset T) Cyclical[T] {
	return Cyclical[T]{
		Delta: NewDelta(counter, offset),
		cycle: cycle,
	}
}

// Poll fires at most once per call.
// A zero cycle fires on every call.
func (c *Cyclical[T]) Poll() bool {
	diff := c.Get()
	if diff < c.cycle {
		return false
	}
	if c.cycle == 0 {
		c.Capture(0)
		return true
	}
	c.Capture(fold(diff-c.cycle, c.cycle))
	return true
}

// Elapsed reports whether the cycle has run out, without re-arming.
func (c *Cyclical[T]) Elapsed() bool {
	return c.Get() >= c.cycle
}

// SetCycle changes the cycle length. The running cycle is not re-armed.
func (c *Cyclical[T]) SetCycle(cycle T) { c.cycle = cycle }

// Cycle returns the configured cycle length.
func (c *Cyclical[T]) Cycle() T { return c.cycle }

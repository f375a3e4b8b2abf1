// internal/delta/clock.go
package delta

// Clock is one time base: a wrapping tick counter plus the blink toggle
// shared by every Blinker built on it.
//
// A Clock is advanced only by its owner calling Tick once per poll slice.
// Timers hold a pointer to it and never advance it themselves.
type Clock struct {
	counter uint32
	blink   bool
}

// NewClock returns a clock at zero with the blink toggle on.
func NewClock() *Clock {
	return &Clock{blink: true}
}

// Tick advances the clock by units. Wraps silently.
func (c *Clock) Tick(units uint32) {
	c.counter += units
}

// Now returns the raw counter value.
func (c *Clock) Now() uint32 {
	return c.counter
}

// TimeBase is the process-wide set of clocks, addressed by index.
// It is created once at startup and handed to every timer user; sharing a
// clock index means sharing its counter and its blink toggle.
type TimeBase struct {
	clocks []*Clock
}

// NewTimeBase creates n independent clocks (at least one).
func NewTimeBase(n int) *TimeBase {
	if n < 1 {
		n = 1
	}
	tb := &TimeBase{clocks: make([]*Clock, n)}
	for i := range tb.clocks {
		tb.clocks[i] = NewClock()
	}
	return tb
}

// Clock returns the clock at index. Out-of-range indices panic.
func (tb *TimeBase) Clock(index int) *Clock {
	return tb.clocks[index]
}

// Len returns the number of clocks.
func (tb *TimeBase) Len() int {
	return len(tb.clocks)
}

// Tick advances every clock by units.
func (tb *TimeBase) Tick(units uint32) {
	for _, c := range tb.clocks {
		c.Tick(units)
	}
}

// internal/statemachine/timed.go
package statemachine

import "github.com/tamzrod/doorpanel/internal/delta"

// Timed is a Machine with a dwell timer that restarts on every state entry.
type Timed[S comparable] struct {
	Machine[S]
	dwell delta.TimeDelta
}

// NewTimed creates a timed machine in initial, measuring dwell on clock.
// Before the first Poll, Dwell reports the time since construction.
func NewTimed[S comparable](clock *delta.Clock, initial S) *Timed[S] {
	return &Timed[S]{
		Machine: *New(initial),
		dwell:   delta.NewTimeDelta(clock, 0),
	}
}

// Poll applies a pending transition and restarts the dwell timer on entry.
func (m *Timed[S]) Poll() S {
	state := m.Machine.Poll()
	if m.Entry() {
		m.ResetTimer()
	}
	return state
}

// ResetTimer restarts the dwell timer.
func (m *Timed[S]) ResetTimer() {
	m.dwell.Capture(0)
}

// Dwell returns the time units spent in the current state.
func (m *Timed[S]) Dwell() uint32 {
	return m.dwell.Get()
}

// HasExpired reports whether the current state has lasted at least d units.
func (m *Timed[S]) HasExpired(d uint32) bool {
	return m.Dwell() >= d
}

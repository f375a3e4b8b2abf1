// internal/delta/timer.go
package delta

// TimeDelta measures elapsed time units on a Clock.
type TimeDelta = Delta[uint32]

// NewTimeDelta starts measuring on c, offset units in the past.
func NewTimeDelta(c *Clock, offset uint32) TimeDelta {
	return NewDelta(&c.counter, offset)
}

// PeriodicTimer is a drift-free recurring timer on a Clock.
type PeriodicTimer = Cyclical[uint32]

// NewPeriodicTimer creates a recurring timer on c.
func NewPeriodicTimer(c *Clock, cycle, offset uint32) PeriodicTimer {
	return NewCyclical(&c.counter, cycle, offset)
}

// ---- start/stop ----

// Mode is the run mode of a StartStopTimer.
type Mode uint8

const (
	Stopped Mode = iota
	Expired
	Started
	Repeating
)

func (m Mode) String() string {
	switch m {
	case Stopped:
		return "stopped"
	case Expired:
		return "expired"
	case Started:
		return "started"
	case Repeating:
		return "cyclical"
	default:
		return "unknown"
	}
}

// StartStopTimer is a PeriodicTimer that can run once, repeat, or stay idle.
// A one-shot run that has elapsed stays Expired (and keeps reporting true)
// until restarted.
type StartStopTimer struct {
	PeriodicTimer
	mode Mode
}

// NewStartStopTimer creates a stopped timer on c.
func NewStartStopTimer(c *Clock, cycle, offset uint32) StartStopTimer {
	return StartStopTimer{
		PeriodicTimer: NewPeriodicTimer(c, cycle, offset),
		mode:          Stopped,
	}
}

// Start runs one cycle from now.
func (t *StartStopTimer) Start() {
	t.Capture(0)
	t.mode = Started
}

// StartWith runs one cycle of the given length from now.
func (t *StartStopTimer) StartWith(cycle uint32) {
	t.Capture(0)
	t.SetCycle(cycle)
	t.mode = Started
}

// StartCyclical repeats the configured cycle from now.
func (t *StartStopTimer) StartCyclical() {
	t.Capture(0)
	t.mode = Repeating
}

// StartCyclicalWith repeats cycle, first firing after cycle-offset units.
func (t *StartStopTimer) StartCyclicalWith(cycle, offset uint32) {
	t.Capture(offset)
	t.SetCycle(cycle)
	t.mode = Repeating
}

// Stop halts the timer. Poll reports false until restarted.
func (t *StartStopTimer) Stop() {
	t.mode = Stopped
}

// Running reports whether a one-shot or repeating run is in progress.
func (t *StartStopTimer) Running() bool {
	return t.mode == Started || t.mode == Repeating
}

// Mode returns the current run mode.
func (t *StartStopTimer) Mode() Mode {
	return t.mode
}

// Poll services the timer.
func (t *StartStopTimer) Poll() bool {
	switch t.mode {
	case Stopped:
		return false
	case Expired:
		return true
	case Started:
		if t.Elapsed() {
			t.mode = Expired
			return true
		}
		return false
	default:
		return t.PeriodicTimer.Poll()
	}
}

// ---- blinker ----

// Blinker toggles a blink state every cycle.
//
// The state lives on the Clock, not on the Blinker: all Blinkers on the same
// clock observe and flip one shared toggle.
type Blinker struct {
	timer PeriodicTimer
	clock *Clock
}

// NewBlinker creates a blinker on c.
func NewBlinker(c *Clock, cycle, offset uint32) Blinker {
	return Blinker{
		timer: NewPeriodicTimer(c, cycle, offset),
		clock: c,
	}
}

// Poll flips the shared toggle when this blinker's cycle fires and returns
// the toggle on every call.
func (b *Blinker) Poll() bool {
	if b.timer.Poll() {
		b.clock.blink = !b.clock.blink
	}
	return b.clock.blink
}

// Reset forces the shared toggle to state and restarts this blinker's cycle
// offset units in the past.
func (b *Blinker) Reset(state bool, offset uint32) {
	b.clock.blink = state
	b.timer.Capture(offset)
}

// State returns the shared toggle without servicing the timer.
func (b *Blinker) State() bool {
	return b.clock.blink
}

func (b *Blinker) SetCycle(cycle uint32) { b.timer.SetCycle(cycle) }
func (b *Blinker) Cycle() uint32         { return b.timer.Cycle() }

// internal/delta/delta.go
package delta

// Unsigned is the set of counter widths a Delta can follow.
// Signed counters are not supported: wraparound differences rely on
// modular unsigned subtraction.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Delta measures the distance of a free-running, wrapping counter from a
// captured reference point.
// The counter is borrowed read-only; only its owner advances it.
type Delta[T Unsigned] struct {
	counter *T
	capture T
}

// NewDelta binds a Delta to counter. The reference point is shifted offset
// units into the past.
func NewDelta[T Unsigned](counter *T, offset T) Delta[T] {
	d := Delta[T]{counter: counter}
	d.Capture(offset)
	return d
}

// Capture stores the current counter value, shifted offset units into the
// past, as the new reference point.
func (d *Delta[T]) Capture(offset T) {
	d.capture = *d.counter - offset
}

// Get returns the counter distance since the last capture.
// Correct across wraparound as long as the true distance fits in T.
func (d *Delta[T]) Get() T {
	return *d.counter - d.capture
}

// CaptureInterval re-captures keeping the overshoot beyond interval, so the
// next interval completes interval-overshoot units from now and repeated
// late checks do not accumulate.
// Overshoots of more than one interval are folded modulo interval.
func (d *Delta[T]) CaptureInterval(interval T) {
	if interval == 0 {
		d.Capture(0)
		return
	}
	offset := d.Get() - interval
	d.Capture(fold(offset, interval))
}

// fold reduces an overshoot to less than one cycle.
func fold[T Unsigned](overshoot, cycle T) T {
	if overshoot < cycle {
		return overshoot
	}
	return overshoot % cycle
}

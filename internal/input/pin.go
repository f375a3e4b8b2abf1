// internal/input/pin.go
package input

// Pin is one digital input sampled by the poll loop.
// Read must not block.
type Pin interface {
	Read() bool
}

// PinFunc adapts a function to Pin.
type PinFunc func() bool

func (f PinFunc) Read() bool { return f() }

// Inverted turns an active-low input into an active-high one.
func Inverted(p Pin) Pin {
	return PinFunc(func() bool { return !p.Read() })
}

// Motion reports changes of a presence sensor.
type Motion struct {
	pin    Pin
	active bool
}

func NewMotion(pin Pin) *Motion {
	return &Motion{pin: pin}
}

// Poll samples the sensor and returns true if its level changed.
// The sensor starts out as inactive, so an already active sensor is
// reported on the first poll.
func (m *Motion) Poll() bool {
	v := m.pin.Read()
	if v == m.active {
		return false
	}
	m.active = v
	return true
}

func (m *Motion) Active() bool { return m.active }

// internal/input/button.go
package input

import (
	"github.com/tamzrod/doorpanel/internal/delta"
	"github.com/tamzrod/doorpanel/internal/statemachine"
)

const (
	DebounceTime  = 50   // a press must hold this long to count
	LongPressTime = 1000 // pressed longer than this reports a long press
)

// ButtonState is the debounced state a button reports.
type ButtonState uint8

const (
	Released ButtonState = iota
	Pressed
	LongPress
)

func (s ButtonState) String() string {
	switch s {
	case Released:
		return "released"
	case Pressed:
		return "pressed"
	case LongPress:
		return "longpress"
	default:
		return "unknown"
	}
}

type buttonPhase uint8

const (
	phaseReleased buttonPhase = iota
	phaseDebounce
	phasePressed
	phaseLongPress
)

// Button debounces a push button. Presses are debounced, releases are not.
type Button struct {
	name    string
	pin     Pin
	machine *statemachine.Timed[buttonPhase]
	state   ButtonState
}

func NewButton(name string, pin Pin, clock *delta.Clock) *Button {
	return &Button{
		name:    name,
		pin:     pin,
		machine: statemachine.NewTimed(clock, phaseReleased),
	}
}

func (b *Button) Name() string { return b.name }

func (b *Button) State() ButtonState { return b.state }

// Poll samples the pin and returns true if the reported state changed.
func (b *Button) Poll() bool {
	active := b.pin.Read()
	m := b.machine

	phase := statemachine.Run[buttonPhase](m, func(p buttonPhase) {
		switch p {
		case phaseReleased:
			if active {
				m.QuickTransition(phaseDebounce)
			}

		case phaseDebounce:
			if !active {
				m.QuickTransition(phaseReleased)
			} else if m.HasExpired(DebounceTime) {
				m.QuickTransition(phasePressed)
			}

		case phasePressed:
			if !active {
				m.QuickTransition(phaseReleased)
			} else if m.HasExpired(LongPressTime) {
				m.QuickTransition(phaseLongPress)
			}

		case phaseLongPress:
			if !active {
				m.QuickTransition(phaseReleased)
			}
		}
	})

	next := b.state
	switch phase {
	case phaseReleased, phaseDebounce:
		next = Released
	case phasePressed:
		next = Pressed
	case phaseLongPress:
		next = LongPress
	}

	if next == b.state {
		return false
	}
	b.state = next
	return true
}

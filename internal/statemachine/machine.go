// internal/statemachine/machine.go
package statemachine

// flags track transitions across Poll calls.
// Poll shifts them right by one: a transition requested during the previous
// pass becomes stateChanged on this pass.
type flags uint8

const (
	flagNone            flags = 0b000
	flagStateChanged    flags = 0b001 // transition applied on this pass (entry)
	flagTransition      flags = 0b010 // transition pending (exit)
	flagQuickTransition flags = 0b100 // pending transition runs in the same pass
)

// Machine is a polled finite state machine.
//
// Transitions requested while a state body runs are applied by the next Poll.
// A self-transition counts as a transition: entry and exit both report true.
type Machine[S comparable] struct {
	current S
	next    S
	flags   flags
}

// New creates a machine in initial. The first Poll reports entry into it.
func New[S comparable](initial S) *Machine[S] {
	return &Machine[S]{
		current: initial,
		next:    initial,
		flags:   flagTransition,
	}
}

// Poll applies a transition requested on the previous pass and returns the
// current state.
func (m *Machine[S]) Poll() S {
	m.flags = (m.flags >> 1) & flagStateChanged
	if m.flags != flagNone {
		m.current = m.next
	}
	return m.current
}

// Transition requests a move to state on the next Poll and returns state.
func (m *Machine[S]) Transition(state S) S {
	m.next = state
	m.flags |= flagTransition
	return state
}

// QuickTransition requests a move to state within the current dispatch:
// Loop reports true, so the caller polls again before returning control.
func (m *Machine[S]) QuickTransition(state S) S {
	m.next = state
	m.flags |= flagTransition | flagQuickTransition
	return state
}

// Entry reports whether this pass just entered the current state.
func (m *Machine[S]) Entry() bool {
	return m.flags&flagStateChanged != 0
}

// Exit reports whether a transition out of the current state is pending.
func (m *Machine[S]) Exit() bool {
	return m.flags&(flagTransition|flagQuickTransition) != 0
}

// Loop reports whether a quick transition is pending.
func (m *Machine[S]) Loop() bool {
	return m.flags&flagQuickTransition != 0
}

func (m *Machine[S]) Current() S { return m.current }
func (m *Machine[S]) Next() S    { return m.next }

// ---- dispatch ----

// Pollable is what Run drives: Machine and Timed both satisfy it.
type Pollable[S comparable] interface {
	Poll() S
	Loop() bool
	Current() S
}

// Run performs one dispatch: poll, run the body for the polled state, and
// repeat while the body requested a quick transition. A state entered via a
// quick transition therefore executes within the same call.
// It returns the current state after the last pass.
func Run[S comparable](m Pollable[S], body func(state S)) S {
	for {
		body(m.Poll())
		if !m.Loop() {
			return m.Current()
		}
	}
}

// internal/ring/ring.go
package ring

import "github.com/tamzrod/doorpanel/internal/delta"

// Effect names accepted by SetEffect.
const (
	EffectActivate   = "activate"
	EffectDeactivate = "deactivate"
	EffectPass       = "pass"
	EffectFail       = "fail"
	EffectCheck      = "check"
	EffectBell       = "bell"
	EffectStartup    = "startup"
	EffectShutdown   = "shutdown"
)

// DefaultBrightness is the brightness of a new ring.
const DefaultBrightness = 100

// PowerOnColor is painted by New before any effect runs.
var PowerOnColor = Color{R: 10, G: 10, B: 0}

// Ring owns at most one running effect and paints it on a sink.
type Ring struct {
	sink       Sink
	clock      *delta.Clock
	brightness uint32
	fx         Effect
	name       string
}

// New creates an idle ring and paints the power-on colour.
func New(sink Sink, clock *delta.Clock) *Ring {
	Fill(sink, PowerOnColor)
	sink.Show()

	return &Ring{
		sink:       sink,
		clock:      clock,
		brightness: DefaultBrightness,
	}
}

// SetBrightness stores the brightness used by effects created afterwards.
// It has no visible effect on its own.
func (r *Ring) SetBrightness(v uint32) {
	r.brightness = v
}

func (r *Ring) Brightness() uint32 { return r.brightness }

// SetEffect replaces the running effect with the named one.
// An unknown name drops the running effect without replacement and returns
// false.
func (r *Ring) SetEffect(name string) bool {
	fx := r.build(name)
	r.fx = fx
	if fx == nil {
		r.name = ""
		return false
	}
	r.name = name
	return true
}

func (r *Ring) build(name string) Effect {
	b := r.brightness

	switch name {
	case EffectActivate:
		return NewActivate(r.clock, b)
	case EffectDeactivate:
		return NewDeactivate(r.clock, b)
	case EffectPass:
		return NewStatus(r.clock, 0, b, b, StatusStay)
	case EffectFail:
		return NewStatus(r.clock, b, 0, 0, StatusStay)
	case EffectCheck:
		return NewStatus(r.clock, b/2, b/2, 0, StatusStay)
	case EffectBell:
		return NewStatus(r.clock, 0, 0, b, StatusStay)
	case EffectStartup:
		return NewBooting(r.clock, true)
	case EffectShutdown:
		return NewBooting(r.clock, false)
	default:
		return nil
	}
}

// Poll services the running effect and drops it once it reports completion.
// It returns true if the ring was idle, i.e. no effect was serviced.
func (r *Ring) Poll() bool {
	if r.fx == nil {
		return true
	}

	var done bool
	switch fx := r.fx.(type) {
	case *Activate:
		done = fx.poll(r.sink)
	case *Deactivate:
		done = fx.poll(r.sink)
	case *Status:
		done = fx.poll(r.sink)
	case *Booting:
		done = fx.poll(r.sink)
	}

	if done {
		r.fx = nil
		r.name = ""
	}
	return false
}

// Idle reports whether no effect is running.
func (r *Ring) Idle() bool {
	return r.fx == nil
}

// Active returns the name of the running effect, or "" when idle.
func (r *Ring) Active() string {
	return r.name
}

// internal/ring/effects.go
package ring

import (
	"github.com/tamzrod/doorpanel/internal/delta"
	"github.com/tamzrod/doorpanel/internal/statemachine"
)

// Effect is one running animation. The set of variants is closed:
// *Activate, *Deactivate, *Status and *Booting.
type Effect interface {
	isEffect()
}

func (*Activate) isEffect()   {}
func (*Deactivate) isEffect() {}
func (*Status) isEffect()     {}
func (*Booting) isEffect()    {}

// fadePhase is shared by the two-ramp fades.
type fadePhase uint8

const (
	fading fadePhase = iota
	fadeFinished
)

// ---- activate ----

// Activate fades the ring up: a blue wave runs around the ring, followed by a
// slower white ramp.
const (
	activateBlueFade   = 100
	activateBlueStep   = 30
	activateWhiteDelay = 250
	activateWhiteFade  = 750
)

type Activate struct {
	machine    *statemachine.Timed[fadePhase]
	brightness int32
}

// NewActivate snapshots brightness; later brightness changes do not apply.
func NewActivate(clock *delta.Clock, brightness uint32) *Activate {
	return &Activate{
		machine:    statemachine.NewTimed(clock, fading),
		brightness: int32(brightness),
	}
}

func (a *Activate) poll(s Sink) bool {
	state := statemachine.Run[fadePhase](a.machine, func(p fadePhase) {
		if p != fading {
			return
		}

		b := a.brightness
		t := int32(a.machine.Dwell())
		d := t - activateWhiteDelay

		for i := 0; i < s.NumPixels(); i++ {
			blue := clamp(t*b/activateBlueFade, 0, b)
			white := min(blue, clamp(d*b/activateWhiteFade, 0, b))
			s.SetPixel(i, RGB(white, white, blue))
			t -= activateBlueStep
		}
		s.Show()

		if d >= activateWhiteFade+activateWhiteDelay {
			a.machine.Transition(fadeFinished)
		}
	})
	return state == fadeFinished
}

// ---- deactivate ----

// Deactivate is the reverse of Activate: white drains in a wave, blue fades
// out slowly behind it.
const (
	deactivateWhiteFade = 100
	deactivateWhiteStep = 30
	deactivateBlueDelay = 50
	deactivateBlueFade  = 750
)

type Deactivate struct {
	machine    *statemachine.Timed[fadePhase]
	brightness int32
}

// NewDeactivate snapshots brightness.
func NewDeactivate(clock *delta.Clock, brightness uint32) *Deactivate {
	return &Deactivate{
		machine:    statemachine.NewTimed(clock, fading),
		brightness: int32(brightness),
	}
}

func (d *Deactivate) poll(s Sink) bool {
	state := statemachine.Run[fadePhase](d.machine, func(p fadePhase) {
		if p != fading {
			return
		}

		b := d.brightness
		t := int32(d.machine.Dwell())
		late := t - deactivateBlueDelay

		for i := 0; i < s.NumPixels(); i++ {
			blue := clamp(late*b/deactivateBlueFade, 0, b)
			white := clamp(t*b/deactivateWhiteFade, 0, b)
			s.SetPixel(i, RGB(b-white, b-white, b-blue))
			t -= deactivateWhiteStep
		}
		s.Show()

		if late >= deactivateBlueFade+deactivateBlueDelay {
			d.machine.Transition(fadeFinished)
		}
	})
	return state == fadeFinished
}

// ---- status ----

type statusPhase uint8

const (
	statusFadeOut statusPhase = iota
	statusColor
	statusFadeIn
	statusFinished
)

const (
	StatusLevel = 100  // peak grey level faded from and back to
	StatusFade  = 100  // fade window
	StatusStay  = 1000 // default hold time of the status colour
)

// Status fades the ring to black, shows a colour for a while, then fades
// back up to the peak grey level.
type Status struct {
	machine *statemachine.Timed[statusPhase]
	r, g, b int32
	stay    uint32
}

// NewStatus creates a status effect showing (r, g, b) for stay units.
func NewStatus(clock *delta.Clock, r, g, b, stay uint32) *Status {
	return &Status{
		machine: statemachine.NewTimed(clock, statusFadeOut),
		r:       int32(r),
		g:       int32(g),
		b:       int32(b),
		stay:    stay,
	}
}

func (st *Status) poll(s Sink) bool {
	state := statemachine.Run[statusPhase](st.machine, func(p statusPhase) {
		switch p {
		case statusFadeOut:
			t := int32(st.machine.Dwell())
			frac := t * 256 / StatusFade

			v := Mix(StatusLevel, 0, frac)
			Fill(s, RGB(v, v, v))
			s.Show()

			if t >= StatusFade {
				st.machine.Transition(statusColor)
			}

		case statusColor:
			if st.machine.Entry() {
				Fill(s, RGB(st.r, st.g, st.b))
				s.Show()
			} else if st.machine.HasExpired(st.stay) {
				st.machine.Transition(statusFadeIn)
			}

		case statusFadeIn:
			t := int32(st.machine.Dwell())
			frac := t * 256 / StatusFade

			Fill(s, RGB(
				Mix(st.r, StatusLevel, frac),
				Mix(st.g, StatusLevel, frac),
				Mix(st.b, StatusLevel, frac),
			))
			s.Show()

			if t >= StatusFade {
				st.machine.Transition(statusFinished)
			}
		}
	})
	return state == statusFinished
}

// ---- booting ----

const (
	bootPeriod1 = 67
	bootPeriod2 = 27
	bootCap     = 50
	bootRise    = 20
	bootFall    = 10
)

// Booting is a free-running sparkle: two cursors with different periods walk
// the ring, each flipping the pixel it visits between charging and
// discharging. It never finishes.
type Booting struct {
	startup  bool
	timer1   delta.PeriodicTimer
	timer2   delta.PeriodicTimer
	pos1     int
	pos2     int
	charging []bool
	levels   []int32
}

// NewBooting creates the startup (cool) or shutdown (warm) animation.
func NewBooting(clock *delta.Clock, startup bool) *Booting {
	return &Booting{
		startup: startup,
		timer1:  delta.NewPeriodicTimer(clock, bootPeriod1, 0),
		timer2:  delta.NewPeriodicTimer(clock, bootPeriod2, 0),
	}
}

func (bt *Booting) poll(s Sink) bool {
	n := s.NumPixels()
	if n == 0 {
		return false
	}
	if len(bt.levels) != n {
		bt.charging = make([]bool, n)
		bt.levels = make([]int32, n)
	}

	if bt.timer1.Poll() {
		bt.pos1 %= n
		bt.charging[bt.pos1] = !bt.charging[bt.pos1]
		bt.pos1++
	}
	if bt.timer2.Poll() {
		bt.pos2 %= n
		bt.charging[bt.pos2] = !bt.charging[bt.pos2]
		bt.pos2++
	}

	for i := range bt.levels {
		c := bt.levels[i]
		if bt.charging[i] {
			c = min(bootCap, c+bootRise)
		} else {
			c = max(0, c-bootFall)
		}
		bt.levels[i] = c
		s.SetPixel(i, bt.color(c))
	}
	s.Show()

	return false
}

func (bt *Booting) color(level int32) Color {
	if bt.startup {
		return RGB(0, level, level)
	}
	return RGB(level, level/2, 0)
}

// internal/app/app.go
package app

import (
	"log/slog"

	"github.com/tamzrod/doorpanel/internal/delta"
	"github.com/tamzrod/doorpanel/internal/input"
	"github.com/tamzrod/doorpanel/internal/protocol"
	"github.com/tamzrod/doorpanel/internal/ring"
	"github.com/tamzrod/doorpanel/internal/status"
)

// Indicator is a single on/off output such as the alive LED.
type Indicator interface {
	Set(on bool)
}

// HealthSource reports the state of a hardware adapter.
type HealthSource interface {
	Err() error
}

// StatusSink receives a status snapshot after every poll.
type StatusSink interface {
	Offer(s status.Snapshot)
}

// Options are the tunables of the poll function, in clock units (ms).
type Options struct {
	DeviceID   string
	RoutineMs  uint32
	AliveMs    uint32
	Brightness uint32
}

// Deps are the collaborators wired by main. Everything except TimeBase and
// Sink may be nil.
type Deps struct {
	TimeBase *delta.TimeBase
	Sink     ring.Sink
	Motion   *input.Motion
	Buttons  []*input.Button
	Tags     *input.TagDetector
	Alive    Indicator
	Commands <-chan protocol.Command
	Events   protocol.Encoder
	Status   StatusSink
	Health   []HealthSource
	Log      *slog.Logger
}

// App is the appliance control loop body. Poll must be called from a single
// goroutine at a fixed period.
type App struct {
	opts Options

	tb      *delta.TimeBase
	ring    *ring.Ring
	motion  *input.Motion
	buttons []*input.Button
	tags    *input.TagDetector
	alive   Indicator
	cmds    <-chan protocol.Command
	events  protocol.Encoder
	status  StatusSink
	health  []HealthSource
	log     *slog.Logger

	aliveTimer delta.Blinker
	routine    delta.PeriodicTimer

	enabled    bool
	stayActive bool
	uptimeMs   uint64
}

// New builds the app, sets the configured brightness and starts the
// startup effect.
func New(opts Options, deps Deps) *App {
	clock := deps.TimeBase.Clock(0)

	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	a := &App{
		opts:       opts,
		tb:         deps.TimeBase,
		ring:       ring.New(deps.Sink, clock),
		motion:     deps.Motion,
		buttons:    deps.Buttons,
		tags:       deps.Tags,
		alive:      deps.Alive,
		cmds:       deps.Commands,
		events:     deps.Events,
		status:     deps.Status,
		health:     deps.Health,
		log:        log,
		aliveTimer: delta.NewBlinker(clock, opts.AliveMs, 0),
		routine:    delta.NewPeriodicTimer(clock, opts.RoutineMs, 0),
		enabled:    true,
	}

	a.ring.SetBrightness(opts.Brightness)
	a.ring.SetEffect(ring.EffectStartup)

	return a
}

func (a *App) Ring() *ring.Ring { return a.ring }

func (a *App) Enabled() bool { return a.enabled }

func (a *App) StayActive() bool { return a.stayActive }

// Poll runs one slice: advance time, handle commands and inputs, service
// the ring. elapsed is the time since the previous call in clock units.
// It returns protocol.ErrReboot once a reboot has been requested.
func (a *App) Poll(elapsed uint32) error {
	a.tb.Tick(elapsed)
	a.uptimeMs += uint64(elapsed)

	on := a.aliveTimer.Poll()
	if a.alive != nil {
		a.alive.Set(on)
	}

	if err := a.handleCommands(); err != nil {
		return err
	}

	if a.enabled {
		a.handleButtons()
		a.handleTag()
		a.handleMotion()
	}

	if a.routine.Poll() {
		a.emit(a.routineDoc())
	}

	a.ring.Poll()

	if a.status != nil {
		a.status.Offer(a.Snapshot())
	}
	return nil
}

// ---- commands ----

func (a *App) handleCommands() error {
	for {
		select {
		case cmd, ok := <-a.cmds:
			if !ok {
				a.cmds = nil
				return nil
			}
			if err := a.Apply(cmd); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// Apply executes one command. Unknown actions are logged and ignored.
func (a *App) Apply(cmd protocol.Command) error {
	switch cmd.Action {
	case protocol.ActionSet:
		a.applySet(cmd)

	case protocol.ActionEnable:
		// an empty name stops the running effect
		a.ring.SetEffect("")
		a.enabled = true
		a.log.Info("panel enabled")

	case protocol.ActionDisable:
		a.ring.SetEffect(ring.EffectShutdown)
		a.enabled = false
		a.log.Info("panel disabled")

	case protocol.ActionReboot:
		a.log.Warn("reboot requested")
		return protocol.ErrReboot

	default:
		a.log.Debug("unknown action", slog.String("action", cmd.Action))
	}
	return nil
}

func (a *App) applySet(cmd protocol.Command) {
	if cmd.Bright != nil {
		a.ring.SetBrightness(*cmd.Bright)
	}
	if cmd.LED == nil {
		return
	}

	led := *cmd.LED
	switch led {
	case ring.EffectActivate, ring.EffectDeactivate:
		// motion owns the ring while someone is in front of the panel
		if !a.motionActive() {
			a.ring.SetEffect(led)
		}
		a.stayActive = led == ring.EffectActivate
	default:
		if !a.ring.SetEffect(led) {
			a.log.Debug("ring cleared", slog.String("led", led))
		}
	}
}

// ---- inputs ----

func (a *App) handleButtons() {
	anyPressed := false

	for _, b := range a.buttons {
		if !b.Poll() {
			continue
		}
		if b.State() == input.Pressed {
			anyPressed = true
		}
		a.emit(a.event().Set(b.Name(), b.State().String()))
		a.routine.Capture(0)
	}

	if anyPressed {
		a.ring.SetEffect(ring.EffectBell)
	}
}

func (a *App) handleTag() {
	if a.tags == nil {
		return
	}
	t, ok := a.tags.TestAndClear()
	if !ok {
		return
	}

	a.ring.SetEffect(ring.EffectCheck)

	tag := protocol.NewObject().
		Set(protocol.KeySAK, t.SAKHex()).
		Set(protocol.KeyUID, t.UIDHex())
	a.emit(a.event().Set(protocol.KeyTag, tag))
	a.routine.Capture(0)
}

func (a *App) handleMotion() {
	if a.motion == nil || !a.motion.Poll() {
		return
	}

	a.emit(a.event().Set(protocol.KeyPIR, boolText(a.motion.Active())))
	a.routine.Capture(0)

	if a.stayActive {
		return
	}
	if a.motion.Active() {
		a.ring.SetEffect(ring.EffectActivate)
	} else {
		a.ring.SetEffect(ring.EffectDeactivate)
	}
}

func (a *App) motionActive() bool {
	return a.motion != nil && a.motion.Active()
}

// ---- outbound ----

func (a *App) event() *protocol.Doc {
	return a.newDoc(protocol.ActionEvent)
}

func (a *App) newDoc(action string) *protocol.Doc {
	d := protocol.NewDoc(action)
	if a.opts.DeviceID != "" {
		d.Set(protocol.KeyDevice, a.opts.DeviceID)
	}
	return d
}

func (a *App) routineDoc() *protocol.Doc {
	d := a.newDoc(protocol.ActionStatus).Set(protocol.KeyPIR, boolText(a.motionActive()))
	for _, b := range a.buttons {
		d.Set(b.Name(), b.State().String())
	}
	return d
}

func (a *App) emit(d *protocol.Doc) {
	if a.events == nil {
		return
	}
	if err := a.events.Encode(d); err != nil {
		a.log.Warn("event send failed",
			slog.String("action", d.Action()),
			slog.String("error", err.Error()),
		)
	}
}

func boolText(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

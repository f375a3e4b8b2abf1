// internal/app/app_test.go
package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/doorpanel/internal/delta"
	"github.com/tamzrod/doorpanel/internal/input"
	"github.com/tamzrod/doorpanel/internal/pixel"
	"github.com/tamzrod/doorpanel/internal/protocol"
	"github.com/tamzrod/doorpanel/internal/ring"
	"github.com/tamzrod/doorpanel/internal/status"
)

type fakeIndicator struct{ states []bool }

func (f *fakeIndicator) Set(on bool) { f.states = append(f.states, on) }

type fakeStatus struct{ last status.Snapshot }

func (f *fakeStatus) Offer(s status.Snapshot) { f.last = s }

type fakeHealth struct{ err error }

func (f *fakeHealth) Err() error { return f.err }

type failingEncoder struct{ calls int }

func (f *failingEncoder) Encode(*protocol.Doc) error {
	f.calls++
	return errors.New("port gone")
}

type rig struct {
	app    *App
	out    *bytes.Buffer
	cmds   chan protocol.Command
	pir    bool
	s1     bool
	tags   *input.TagDetector
	alive  *fakeIndicator
	status *fakeStatus
	health *fakeHealth
}

func newRig(t *testing.T, opts Options) *rig {
	t.Helper()

	r := &rig{
		out:    &bytes.Buffer{},
		cmds:   make(chan protocol.Command, 8),
		tags:   &input.TagDetector{},
		alive:  &fakeIndicator{},
		status: &fakeStatus{},
		health: &fakeHealth{},
	}

	tb := delta.NewTimeBase(1)
	clock := tb.Clock(0)

	r.app = New(opts, Deps{
		TimeBase: tb,
		Sink:     pixel.NewBuffer(12),
		Motion:   input.NewMotion(input.PinFunc(func() bool { return r.pir })),
		Buttons: []*input.Button{
			input.NewButton("S1", input.PinFunc(func() bool { return r.s1 }), clock),
			input.NewButton("S2", input.PinFunc(func() bool { return false }), clock),
		},
		Tags:     r.tags,
		Alive:    r.alive,
		Commands: r.cmds,
		Events:   protocol.JSONLines{}.NewEncoder(r.out),
		Status:   r.status,
		Health:   []HealthSource{r.health},
	})
	return r
}

func defaultOpts() Options {
	return Options{DeviceID: "d1", RoutineMs: 15000, AliveMs: 500, Brightness: 40}
}

func (r *rig) poll(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, r.app.Poll(10))
	}
}

// lines returns and clears the events written so far.
func (r *rig) lines() []string {
	s := strings.TrimSpace(r.out.String())
	r.out.Reset()
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (r *rig) pressS1(t *testing.T) {
	t.Helper()
	r.s1 = true
	for i := 0; i < 10 && r.app.buttons[0].State() != input.Pressed; i++ {
		r.poll(t, 1)
	}
	require.Equal(t, input.Pressed, r.app.buttons[0].State())
}

func TestApp_Startup(t *testing.T) {
	r := newRig(t, defaultOpts())

	assert.Equal(t, ring.EffectStartup, r.app.Ring().Active())
	assert.Equal(t, uint32(40), r.app.Ring().Brightness())
	assert.True(t, r.app.Enabled())

	r.poll(t, 1)
	assert.Empty(t, r.lines())
}

func TestApp_ButtonPressRingsBell(t *testing.T) {
	r := newRig(t, defaultOpts())

	r.pressS1(t)
	assert.Equal(t, []string{`{"action":"event","device":"d1","S1":"pressed"}`}, r.lines())
	assert.Equal(t, ring.EffectBell, r.app.Ring().Active())

	r.s1 = false
	r.poll(t, 1)
	assert.Equal(t, []string{`{"action":"event","device":"d1","S1":"released"}`}, r.lines())
}

func TestApp_TagTriggersCheck(t *testing.T) {
	r := newRig(t, defaultOpts())

	r.tags.Set(input.Tag{SAK: 0x08, UID: []byte{0x04, 0xA1, 0xB2, 0xC3}})
	r.poll(t, 1)

	assert.Equal(t,
		[]string{`{"action":"event","device":"d1","tag":{"sak":"08","uid":"04a1b2c3"}}`},
		r.lines())
	assert.Equal(t, ring.EffectCheck, r.app.Ring().Active())

	r.poll(t, 1)
	assert.Empty(t, r.lines(), "tag reported once")
}

func TestApp_MotionDrivesRing(t *testing.T) {
	r := newRig(t, defaultOpts())

	r.pir = true
	r.poll(t, 1)
	assert.Equal(t, []string{`{"action":"event","device":"d1","PIR":"true"}`}, r.lines())
	assert.Equal(t, ring.EffectActivate, r.app.Ring().Active())

	r.pir = false
	r.poll(t, 1)
	assert.Equal(t, []string{`{"action":"event","device":"d1","PIR":"false"}`}, r.lines())
	assert.Equal(t, ring.EffectDeactivate, r.app.Ring().Active())
}

func TestApp_SetLEDWhileMotionActive(t *testing.T) {
	r := newRig(t, defaultOpts())

	r.pir = true
	r.poll(t, 1)
	require.Equal(t, ring.EffectActivate, r.app.Ring().Active())

	led := ring.EffectDeactivate
	r.cmds <- protocol.Command{Action: protocol.ActionSet, LED: &led}
	r.poll(t, 1)

	assert.Equal(t, ring.EffectActivate, r.app.Ring().Active(), "motion keeps the ring")
	assert.False(t, r.app.StayActive())
}

func TestApp_StayActiveSuppressesMotion(t *testing.T) {
	r := newRig(t, defaultOpts())

	activate := ring.EffectActivate
	pass := ring.EffectPass
	bright := uint32(80)
	r.cmds <- protocol.Command{Action: protocol.ActionSet, LED: &activate}
	r.cmds <- protocol.Command{Action: protocol.ActionSet, LED: &pass, Bright: &bright}
	r.poll(t, 1)

	require.True(t, r.app.StayActive())
	assert.Equal(t, ring.EffectPass, r.app.Ring().Active())
	assert.Equal(t, uint32(80), r.app.Ring().Brightness())

	r.pir = true
	r.poll(t, 1)
	assert.Len(t, r.lines(), 1, "motion is still reported")
	assert.Equal(t, ring.EffectPass, r.app.Ring().Active())
}

func TestApp_UnknownLEDClearsRing(t *testing.T) {
	r := newRig(t, defaultOpts())

	led := "sparkle"
	r.cmds <- protocol.Command{Action: protocol.ActionSet, LED: &led}
	r.poll(t, 1)

	assert.True(t, r.app.Ring().Idle())
}

func TestApp_DisableAndEnable(t *testing.T) {
	r := newRig(t, defaultOpts())

	r.cmds <- protocol.Command{Action: protocol.ActionDisable}
	r.poll(t, 1)
	assert.False(t, r.app.Enabled())
	assert.Equal(t, ring.EffectShutdown, r.app.Ring().Active())
	assert.Equal(t, status.HealthDisabled, r.status.last.Health)

	r.pir = true
	r.s1 = true
	r.tags.Set(input.Tag{UID: []byte{1}})
	r.poll(t, 20)
	assert.Empty(t, r.lines(), "inputs are ignored while disabled")
	assert.Equal(t, ring.EffectShutdown, r.app.Ring().Active())

	r.cmds <- protocol.Command{Action: protocol.ActionEnable}
	r.pir = false
	r.s1 = false
	r.poll(t, 1)
	assert.True(t, r.app.Enabled())
	assert.Equal(t, status.HealthOK, r.status.last.Health)

	// the tag set while disabled is still pending
	assert.Contains(t, strings.Join(r.lines(), "\n"), `"tag":{"sak":"00","uid":"01"}`)
}

func TestApp_Reboot(t *testing.T) {
	r := newRig(t, defaultOpts())

	r.cmds <- protocol.Command{Action: protocol.ActionReboot}
	err := r.app.Poll(10)
	assert.ErrorIs(t, err, protocol.ErrReboot)
}

func TestApp_RoutineStatus(t *testing.T) {
	opts := defaultOpts()
	opts.RoutineMs = 100
	r := newRig(t, opts)

	r.poll(t, 9)
	assert.Empty(t, r.lines())
	r.poll(t, 1)
	assert.Equal(t,
		[]string{`{"action":"status","device":"d1","PIR":"false","S1":"released","S2":"released"}`},
		r.lines())

	// an event restarts the routine cycle
	r.poll(t, 5)
	r.pir = true
	r.poll(t, 1)
	require.Len(t, r.lines(), 1)
	r.poll(t, 9)
	assert.Empty(t, r.lines())
	r.poll(t, 1)
	assert.Equal(t,
		[]string{`{"action":"status","device":"d1","PIR":"true","S1":"released","S2":"released"}`},
		r.lines())
}

func TestApp_AliveBlinker(t *testing.T) {
	opts := defaultOpts()
	opts.AliveMs = 50
	r := newRig(t, opts)

	r.poll(t, 10)
	assert.Equal(t,
		[]bool{true, true, true, true, false, false, false, false, false, true},
		r.alive.states)
}

func TestApp_Snapshot(t *testing.T) {
	r := newRig(t, defaultOpts())

	r.pressS1(t)
	r.poll(t, 100)

	s := r.status.last
	assert.Equal(t, status.HealthOK, s.Health)
	assert.Equal(t, uint16(1), s.Buttons)
	assert.Equal(t, uint16(40), s.Brightness)
	assert.True(t, s.Enabled)
	assert.Equal(t, uint16(1), s.Uptime)

	r.health.err = errors.New("modbus timeout")
	r.poll(t, 1)
	assert.Equal(t, status.HealthError, r.status.last.Health)
}

func TestApp_EncoderFailureDoesNotStopPoll(t *testing.T) {
	tb := delta.NewTimeBase(1)
	enc := &failingEncoder{}
	pir := false

	a := New(defaultOpts(), Deps{
		TimeBase: tb,
		Sink:     pixel.NewBuffer(4),
		Motion:   input.NewMotion(input.PinFunc(func() bool { return pir })),
		Events:   enc,
	})

	pir = true
	require.NoError(t, a.Poll(10))
	assert.Equal(t, 1, enc.calls)
	assert.Equal(t, ring.EffectActivate, a.Ring().Active())
}

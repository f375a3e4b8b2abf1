// internal/ring/ring_test.go
package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/doorpanel/internal/delta"
)

// ---- fake sink ----

type fakeSink struct {
	pixels []Color
	shows  int
}

func newFakeSink(n int) *fakeSink {
	return &fakeSink{pixels: make([]Color, n)}
}

func (f *fakeSink) NumPixels() int          { return len(f.pixels) }
func (f *fakeSink) SetPixel(i int, c Color) { f.pixels[i] = c }
func (f *fakeSink) Show()                   { f.shows++ }

func (f *fakeSink) all(t *testing.T, want Color) {
	t.Helper()
	for i, c := range f.pixels {
		require.Equal(t, want, c, "pixel %d", i)
	}
}

// step advances the clock by one 10-unit poll slice and polls the ring.
func step(clock *delta.Clock, r *Ring) bool {
	clock.Tick(10)
	return r.Poll()
}

// ---- tests ----

func TestNew_PowerOnColor(t *testing.T) {
	sink := newFakeSink(12)
	r := New(sink, delta.NewClock())

	sink.all(t, PowerOnColor)
	assert.Equal(t, 1, sink.shows)
	assert.True(t, r.Idle())
	assert.Equal(t, uint32(DefaultBrightness), r.Brightness())
	assert.True(t, r.Poll(), "idle ring reports idle")
	assert.Equal(t, 1, sink.shows, "idle poll paints nothing")
}

func TestStatus_PassEndToEnd(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)

	require.True(t, r.SetEffect(EffectPass))
	require.Equal(t, EffectPass, r.Active())

	elapsed := uint32(0)
	run := func(until uint32) {
		for elapsed < until {
			step(clock, r)
			elapsed += 10
		}
	}

	run(10)
	sink.all(t, Color{R: 100, G: 100, B: 100})

	run(60) // fade half way
	sink.all(t, Color{R: 50, G: 50, B: 50})

	run(110) // fade window complete
	sink.all(t, Color{})

	run(600)
	sink.all(t, Color{R: 0, G: 100, B: 100})

	// hold, fade back in, finish
	for !r.Idle() {
		step(clock, r)
		elapsed += 10
		require.Less(t, elapsed, uint32(2000), "status effect never finished")
	}
	assert.GreaterOrEqual(t, elapsed, uint32(100+1000+100))
	assert.LessOrEqual(t, elapsed, uint32(1300))
	sink.all(t, Color{R: StatusLevel, G: StatusLevel, B: StatusLevel})
	assert.True(t, step(clock, r))
}

func TestStatus_ShowsOncePerPoll(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)
	r.SetEffect(EffectFail)

	before := sink.shows
	step(clock, r)
	assert.Equal(t, before+1, sink.shows)
}

func TestStatus_FracNotClamped(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(3)
	st := NewStatus(clock, 0, 100, 100, StatusStay)

	clock.Tick(10)
	st.poll(sink) // enters fade out, dwell 0

	// one late poll: frac = 105*256/100 = 268, past the window
	clock.Tick(105)
	st.poll(sink)

	v := Mix(StatusLevel, 0, 268)
	require.Equal(t, int32(-4), v)
	sink.all(t, Color{R: 252, G: 252, B: 252})
}

func TestMix(t *testing.T) {
	assert.Equal(t, int32(100), Mix(100, 0, 0))
	assert.Equal(t, int32(0), Mix(100, 0, 256))
	assert.Equal(t, int32(50), Mix(0, 100, 128))
	assert.Equal(t, int32(100), Mix(0, 100, 256))
}

func TestSetEffect_StatusColors(t *testing.T) {
	tests := []struct {
		name string
		want Color
	}{
		{EffectPass, Color{R: 0, G: 100, B: 100}},
		{EffectFail, Color{R: 100, G: 0, B: 0}},
		{EffectCheck, Color{R: 50, G: 50, B: 0}},
		{EffectBell, Color{R: 0, G: 0, B: 100}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := delta.NewClock()
			sink := newFakeSink(4)
			r := New(sink, clock)
			require.True(t, r.SetEffect(tc.name))

			for i := 0; i < 20; i++ {
				step(clock, r)
			}
			sink.all(t, tc.want)
		})
	}
}

func TestSetEffect_UnknownClearsEffect(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)

	require.True(t, r.SetEffect(EffectActivate))
	require.False(t, step(clock, r))
	require.False(t, r.Idle())

	assert.False(t, r.SetEffect("sparkle"))
	assert.True(t, r.Idle())
	assert.Equal(t, "", r.Active())

	shows := sink.shows
	assert.True(t, step(clock, r))
	assert.True(t, step(clock, r))
	assert.Equal(t, shows, sink.shows, "no writes from the dropped effect")
}

func TestSetEffect_ReplacesRunning(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)

	r.SetEffect(EffectStartup)
	for i := 0; i < 10; i++ {
		step(clock, r)
	}
	r.SetEffect(EffectBell)
	_, isStatus := r.fx.(*Status)
	assert.True(t, isStatus)
}

func TestSetBrightness_NoImmediateEffect(t *testing.T) {
	sink := newFakeSink(12)
	r := New(sink, delta.NewClock())

	r.SetBrightness(40)
	assert.True(t, r.Idle())
	assert.Equal(t, 1, sink.shows)
	assert.Equal(t, uint32(40), r.Brightness())
}

func TestActivate_StaggeredRampAndFinish(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)
	r.SetEffect(EffectActivate)

	// brightness is snapshot at construction
	r.SetBrightness(200)

	step(clock, r) // dwell 0
	sink.all(t, Color{})

	for i := 0; i < 10; i++ {
		step(clock, r)
	} // dwell 100
	assert.Equal(t, Color{B: 100}, sink.pixels[0])
	assert.Equal(t, Color{B: 70}, sink.pixels[1])
	assert.Equal(t, Color{B: 40}, sink.pixels[2])
	assert.Equal(t, Color{B: 10}, sink.pixels[3])
	assert.Equal(t, Color{}, sink.pixels[4])

	polls := 11
	for !r.Idle() {
		step(clock, r)
		polls++
		require.Less(t, polls, 200)
	}
	// dwell reaches 1250 on poll 126, Finished is observed on the next
	assert.Equal(t, 127, polls)
	sink.all(t, Color{R: 100, G: 100, B: 100})
}

func TestDeactivate_FadesToBlack(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)
	r.SetEffect(EffectDeactivate)

	step(clock, r)
	sink.all(t, Color{R: 100, G: 100, B: 100})

	for i := 0; i < 10; i++ {
		step(clock, r)
	} // dwell 100: white drains 30ms apart, blue fades as one
	assert.Equal(t, Color{B: 94}, sink.pixels[0])
	assert.Equal(t, Color{R: 30, G: 30, B: 94}, sink.pixels[1])
	assert.Equal(t, Color{R: 60, G: 60, B: 94}, sink.pixels[2])
	assert.Equal(t, Color{R: 90, G: 90, B: 94}, sink.pixels[3])
	assert.Equal(t, Color{R: 100, G: 100, B: 94}, sink.pixels[4])
	assert.Equal(t, Color{R: 100, G: 100, B: 94}, sink.pixels[11])

	polls := 11
	for !r.Idle() {
		step(clock, r)
		polls++
		require.Less(t, polls, 200)
	}
	// late ramp reaches 800 at dwell 850 (poll 86), Finished on the next
	assert.Equal(t, 87, polls)
	sink.all(t, Color{})
}

func TestActivate_FullChannelBrightness(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)
	r.SetBrightness(255)
	r.SetEffect(EffectActivate)

	polls := 0
	for !r.Idle() {
		step(clock, r)
		polls++
		require.Less(t, polls, 200)
	}
	sink.all(t, Color{R: 255, G: 255, B: 255})
}

func TestBooting_CursorsChargeAndDecay(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)
	r.SetEffect(EffectStartup)

	step(clock, r) // 10
	step(clock, r) // 20
	assert.Equal(t, Color{}, sink.pixels[0])

	step(clock, r) // 30: fast cursor flips pixel 0 to charging
	assert.Equal(t, Color{G: 20, B: 20}, sink.pixels[0])

	step(clock, r) // 40
	step(clock, r) // 50
	assert.Equal(t, Color{G: 50, B: 50}, sink.pixels[0], "capped")

	step(clock, r) // 60
	step(clock, r) // 70: slow cursor flips pixel 0 back
	assert.Equal(t, Color{G: 40, B: 40}, sink.pixels[0])

	for i := 0; i < 1000; i++ {
		require.False(t, step(clock, r), "booting never finishes")
	}
	for i, c := range sink.pixels {
		assert.Zero(t, c.R, "pixel %d", i)
		assert.LessOrEqual(t, c.G, uint8(bootCap))
	}
}

func TestBooting_ShutdownIsWarm(t *testing.T) {
	clock := delta.NewClock()
	sink := newFakeSink(12)
	r := New(sink, clock)
	r.SetEffect(EffectShutdown)

	for i := 0; i < 5; i++ {
		step(clock, r)
	}
	assert.Equal(t, Color{R: 50, G: 25}, sink.pixels[0])
	for _, c := range sink.pixels {
		assert.Zero(t, c.B)
	}
}

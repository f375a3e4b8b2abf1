// internal/ring/sink.go
package ring

// Color is one pixel as 8-bit channels.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from wider integer channels.
// Values are truncated to 8 bits, the way strip drivers take their bytes.
func RGB(r, g, b int32) Color {
	return Color{R: uint8(r), G: uint8(g), B: uint8(b)}
}

// Sink is the pixel strip the ring paints on.
// Effects write any number of pixels, then call Show exactly once per poll.
type Sink interface {
	NumPixels() int
	SetPixel(i int, c Color)
	Show()
}

// Fill paints every pixel of s with c. It does not call Show.
func Fill(s Sink, c Color) {
	for i := 0; i < s.NumPixels(); i++ {
		s.SetPixel(i, c)
	}
}

// Mix interpolates from a to b by frac256/256 in integer arithmetic.
// frac256 is not clamped: values past 256 extrapolate beyond b.
func Mix(a, b, frac256 int32) int32 {
	return a + ((b-a)*frac256)/256
}

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

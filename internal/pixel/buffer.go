// internal/pixel/buffer.go
package pixel

import "github.com/tamzrod/doorpanel/internal/ring"

// Buffer is an in-memory strip. Writes land in a back buffer and become
// visible in Frame only after Show.
type Buffer struct {
	back  []ring.Color
	front []ring.Color
	shows int
}

func NewBuffer(n int) *Buffer {
	if n < 0 {
		n = 0
	}
	return &Buffer{
		back:  make([]ring.Color, n),
		front: make([]ring.Color, n),
	}
}

func (b *Buffer) NumPixels() int { return len(b.back) }

// SetPixel ignores out-of-range indices.
func (b *Buffer) SetPixel(i int, c ring.Color) {
	if i < 0 || i >= len(b.back) {
		return
	}
	b.back[i] = c
}

func (b *Buffer) Show() {
	copy(b.front, b.back)
	b.shows++
}

// Frame returns a copy of the last committed frame.
func (b *Buffer) Frame() []ring.Color {
	out := make([]ring.Color, len(b.front))
	copy(out, b.front)
	return out
}

// Shows is the number of commits so far.
func (b *Buffer) Shows() int { return b.shows }

// internal/pixel/terminal.go
package pixel

import (
	"fmt"
	"io"
	"strings"

	"github.com/tamzrod/doorpanel/internal/ring"
)

// Terminal renders the strip as a row of 24-bit ANSI colour cells.
// Show only latches the frame; Flush writes it, so the caller decides the
// refresh rate.
type Terminal struct {
	w       io.Writer
	back    []ring.Color
	front   []ring.Color
	pending bool
}

func NewTerminal(w io.Writer, n int) *Terminal {
	if n < 0 {
		n = 0
	}
	return &Terminal{
		w:     w,
		back:  make([]ring.Color, n),
		front: make([]ring.Color, n),
	}
}

func (t *Terminal) NumPixels() int { return len(t.back) }

func (t *Terminal) SetPixel(i int, c ring.Color) {
	if i < 0 || i >= len(t.back) {
		return
	}
	t.back[i] = c
}

func (t *Terminal) Show() {
	for i := range t.back {
		if t.front[i] != t.back[i] {
			t.pending = true
		}
	}
	copy(t.front, t.back)
}

// Flush writes the latched frame if it changed since the last flush.
func (t *Terminal) Flush() error {
	if !t.pending {
		return nil
	}
	t.pending = false

	_, err := io.WriteString(t.w, Render(t.front)+"\n")
	return err
}

// Render formats one frame. Each pixel is two background-coloured spaces.
func Render(px []ring.Color) string {
	var sb strings.Builder
	for _, c := range px {
		fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm  ", c.R, c.G, c.B)
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}

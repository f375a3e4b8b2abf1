// internal/pixel/modbus.go
package pixel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tamzrod/doorpanel/internal/ring"
)

// maxRegsPerWrite is the FC16 quantity limit.
const maxRegsPerWrite = 123

// RegisterWriter is the holding-register write the LED controller needs.
// writer/modbus.EndpointClient satisfies it.
type RegisterWriter interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

type ModbusConfig struct {
	UnitID  uint8
	Address uint16 // first holding register of the frame
	Pixels  int
}

// Modbus is a strip driven by an LED controller that exposes its frame as
// holding registers. Pixels are packed R,G,B byte after byte, two bytes per
// register, big-endian.
//
// Show never blocks: frames are handed to Run, which writes the most recent
// one and drops the rest.
type Modbus struct {
	cfg ModbusConfig
	cli RegisterWriter
	log *slog.Logger

	frame  []ring.Color
	frames chan []uint16

	mu      sync.Mutex
	err     error
	written []uint16
}

func NewModbus(cfg ModbusConfig, cli RegisterWriter, log *slog.Logger) (*Modbus, error) {
	if cli == nil {
		return nil, errors.New("pixel modbus: client required")
	}
	if cfg.Pixels <= 0 {
		return nil, errors.New("pixel modbus: pixels must be > 0")
	}
	if int(cfg.Address)+RegisterCount(cfg.Pixels) > 0x10000 {
		return nil, fmt.Errorf("pixel modbus: %d pixels at address %d exceed register space", cfg.Pixels, cfg.Address)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Modbus{
		cfg:    cfg,
		cli:    cli,
		log:    log,
		frame:  make([]ring.Color, cfg.Pixels),
		frames: make(chan []uint16, 1),
	}, nil
}

func (m *Modbus) NumPixels() int { return len(m.frame) }

func (m *Modbus) SetPixel(i int, c ring.Color) {
	if i < 0 || i >= len(m.frame) {
		return
	}
	m.frame[i] = c
}

// Show queues the current frame, replacing any frame not yet written.
func (m *Modbus) Show() {
	regs := EncodeFrame(m.frame)

	select {
	case m.frames <- regs:
		return
	default:
	}

	select {
	case <-m.frames:
	default:
	}
	select {
	case m.frames <- regs:
	default:
	}
}

// Run writes queued frames until ctx is done.
func (m *Modbus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case regs := <-m.frames:
			if err := m.write(regs); err != nil {
				m.log.Warn("led frame write failed",
					slog.Int("unit_id", int(m.cfg.UnitID)),
					slog.Int("address", int(m.cfg.Address)),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Err returns the result of the last frame write.
func (m *Modbus) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// write sends regs in FC16-sized chunks. Identical consecutive frames are
// written once; after a failure the next frame is always written.
func (m *Modbus) write(regs []uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err == nil && slices.Equal(regs, m.written) {
		return nil
	}

	for off := 0; off < len(regs); off += maxRegsPerWrite {
		end := min(off+maxRegsPerWrite, len(regs))
		addr := m.cfg.Address + uint16(off)

		if err := m.cli.WriteRegisters(m.cfg.UnitID, addr, regs[off:end]); err != nil {
			m.err = fmt.Errorf("pixel modbus: write addr=%d qty=%d: %w", addr, end-off, err)
			m.written = nil
			return m.err
		}
	}

	m.err = nil
	m.written = regs
	return nil
}

// RegisterCount is the number of registers a frame of n pixels occupies.
func RegisterCount(n int) int {
	return (n*3 + 1) / 2
}

// EncodeFrame packs pixels into registers. An odd trailing byte is padded
// with zero.
func EncodeFrame(px []ring.Color) []uint16 {
	b := make([]byte, 0, len(px)*3+1)
	for _, c := range px {
		b = append(b, c.R, c.G, c.B)
	}
	if len(b)%2 != 0 {
		b = append(b, 0)
	}

	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return out
}

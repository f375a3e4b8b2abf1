// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Client abstracts Modbus operations needed by the poller.
// The poller depends on geometry only.
type Client interface {
	ReadCoils(addr, qty uint16) ([]bool, error)              // FC 1
	ReadDiscreteInputs(addr, qty uint16) ([]bool, error)     // FC 2
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)   // FC 4
}

// ClientFactory makes one connection attempt.
type ClientFactory func() (Client, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Source   string
	Interval time.Duration
	Reads    []ReadBlock
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg     Config
	client  Client
	factory ClientFactory
}

// New creates a poller with immutable config.
// factory may be nil; then a failed client is kept and retried as is.
func New(cfg Config, client Client, factory ClientFactory) (*Poller, error) {
	if cfg.Source == "" {
		return nil, errors.New("poller: source required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Reads) == 0 {
		return nil, errors.New("poller: at least one read block required")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	return &Poller{cfg: cfg, client: client, factory: factory}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
// With a factory, a failed client is discarded and replaced on a later cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		Source: p.cfg.Source,
		At:     time.Now(),
	}

	if p.client == nil {
		c, err := p.factory()
		if err != nil {
			res.Err = fmt.Errorf("poller: connect: %w", err)
			return res
		}
		p.client = c
	}

	blocks, err := p.readAll()
	if err != nil {
		res.Err = err
		p.discard()
		return res
	}

	// Commit only if all reads succeeded
	res.Blocks = blocks
	return res
}

func (p *Poller) readAll() ([]BlockResult, error) {
	blocks := make([]BlockResult, 0, len(p.cfg.Reads))

	for _, rb := range p.cfg.Reads {
		b := BlockResult{FC: rb.FC, Address: rb.Address, Quantity: rb.Quantity}
		var err error

		switch rb.FC {
		case 1:
			b.Bits, err = p.client.ReadCoils(rb.Address, rb.Quantity)
		case 2:
			b.Bits, err = p.client.ReadDiscreteInputs(rb.Address, rb.Quantity)
		case 3:
			b.Registers, err = p.client.ReadHoldingRegisters(rb.Address, rb.Quantity)
		case 4:
			b.Registers, err = p.client.ReadInputRegisters(rb.Address, rb.Quantity)
		default:
			return nil, fmt.Errorf("poller: unsupported function code %d", rb.FC)
		}
		if err != nil {
			return nil, fmt.Errorf("poller: fc=%d addr=%d qty=%d: %w", rb.FC, rb.Address, rb.Quantity, err)
		}

		blocks = append(blocks, b)
	}

	return blocks, nil
}

func (p *Poller) discard() {
	if p.factory == nil {
		return
	}
	if c, ok := p.client.(io.Closer); ok {
		_ = c.Close()
	}
	p.client = nil
}

// Close releases the current client.
func (p *Poller) Close() error {
	if c, ok := p.client.(io.Closer); ok {
		p.client = nil
		return c.Close()
	}
	return nil
}

// internal/input/bank.go
package input

import (
	"context"
	"sync"

	"github.com/tamzrod/doorpanel/internal/poller"
)

// Bank holds the latest bit inputs read from a Modbus I/O module.
// A poller goroutine feeds it; the poll loop samples it through Pins.
// A failed cycle keeps the previous bits and is reported by Err.
type Bank struct {
	mu   sync.RWMutex
	bits map[uint16]bool
	err  error
}

func NewBank() *Bank {
	return &Bank{bits: make(map[uint16]bool)}
}

// Apply stores one poll result.
func (b *Bank) Apply(res poller.PollResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.err = res.Err
	if res.Err != nil {
		return
	}

	for _, blk := range res.Blocks {
		for i, v := range blk.Bits {
			b.bits[blk.Address+uint16(i)] = v
		}
	}
}

// Run applies results from in until ctx is done or in is closed.
func (b *Bank) Run(ctx context.Context, in <-chan poller.PollResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-in:
			if !ok {
				return
			}
			b.Apply(res)
		}
	}
}

// Err returns the error of the last poll cycle, nil if it succeeded.
func (b *Bank) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Pin returns a Pin reading the bit at addr. Unknown addresses read false.
func (b *Bank) Pin(addr uint16) Pin {
	return PinFunc(func() bool {
		b.mu.RLock()
		defer b.mu.RUnlock()
		return b.bits[addr]
	})
}

// internal/poller/types.go
package poller

import "time"

// ReadBlock describes one Modbus read geometry.
// Geometry only: no semantics.
type ReadBlock struct {
	FC       uint8
	Address  uint16
	Quantity uint16
}

// BlockResult is the raw result of a single read.
type BlockResult struct {
	FC       uint8
	Address  uint16
	Quantity uint16

	// Exactly one of these is used depending on FC.
	Bits      []bool   // FC 1,2
	Registers []uint16 // FC 3,4
}

// Bit returns the bit at absolute address addr, if this block covers it.
func (b BlockResult) Bit(addr uint16) (bool, bool) {
	if addr < b.Address {
		return false, false
	}
	i := int(addr - b.Address)
	if i >= len(b.Bits) {
		return false, false
	}
	return b.Bits[i], true
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Source string
	At     time.Time

	Blocks []BlockResult
	Err    error // non-nil means the poll cycle failed
}

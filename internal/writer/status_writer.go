// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/doorpanel/internal/status"
)

// StatusWriter is the delivery-only contract for device status.
// It receives a snapshot and writes it verbatim.
// No logic, no state, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// endpointClient is the exact contract the writer uses.
// wmodbus.EndpointClient and ingest.EndpointClient both satisfy it.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// StatusPlan locates the status block of this panel.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// DeviceStatusWriter mirrors snapshots into holding registers.
// The first write, and the first write after any failure, asserts the full
// block including the device name; otherwise only changed slots are written.
type DeviceStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16
	nameRegs []uint16
}

func NewDeviceStatusWriter(plan StatusPlan, cli endpointClient) (*DeviceStatusWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	if (int(plan.BaseSlot)+1)*status.SlotsPerDevice > 0x10000 {
		return nil, fmt.Errorf("status writer: base slot %d out of range", plan.BaseSlot)
	}

	return &DeviceStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		nameRegs: status.EncodeDeviceName(plan.DeviceName),
	}, nil
}

// WriteStatus delivers a snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *DeviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}

	regs := status.Encode(s)
	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		full := sw.fullBlockRegs(regs)

		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr, full); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: changed live slots only
	// ------------------------------------------------------------
	var errs []string

	for slot := 0; slot < status.LiveSlots; slot++ {
		if sw.last[slot] == regs[slot] {
			continue
		}
		if err := sw.cli.WriteRegisters(
			sw.plan.UnitID,
			baseAddr+uint16(slot),
			[]uint16{regs[slot]},
		); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d write failed: %v", slot, err))
			continue
		}
		sw.last[slot] = regs[slot]
	}

	if len(errs) > 0 {
		// a partial failure re-asserts the full block next time
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *DeviceStatusWriter) baseAddr() uint16 {
	// Each device owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

func (sw *DeviceStatusWriter) fullBlockRegs(live []uint16) []uint16 {
	regs := make([]uint16, status.SlotsPerDevice)
	copy(regs[:status.LiveSlots], live[:status.LiveSlots])

	// Reserved slots are left as zero.

	// Device name always lives at the end of the block
	copy(regs[status.SlotDeviceNameStart:status.SlotDeviceNameEnd+1], sw.nameRegs)

	return regs
}

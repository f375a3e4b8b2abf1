// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

const (
	SinkModbus   = "modbus"
	SinkTerminal = "terminal"
	SinkNone     = "none"

	SourceGPIO   = "gpio"
	SourceModbus = "modbus"
	SourceNone   = "none"

	CodecJSON = "json"
	CodecCBOR = "cbor"

	StatusTransportModbus = "modbus"
	StatusTransportIngest = "ingest"
)

// statusSlotsPerDevice mirrors status.SlotsPerDevice; config stays free of
// runtime packages.
const statusSlotsPerDevice = 20

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if err := asciiOnly("device.name", cfg.Device.Name); err != nil {
		return err
	}
	if err := oneOf("device.log_level", cfg.Device.LogLevel, "debug", "info", "warn", "error"); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// TIMING (zero means default)
	// ------------------------------------------------------------

	if cfg.Timing.PollingMs < 0 || cfg.Timing.RoutineMs < 0 || cfg.Timing.AliveMs < 0 {
		return fmt.Errorf("timing: values must not be negative")
	}

	// ------------------------------------------------------------
	// RING
	// ------------------------------------------------------------

	if err := oneOf("ring.sink", cfg.Ring.Sink, SinkModbus, SinkTerminal, SinkNone); err != nil {
		return err
	}
	if cfg.Ring.Brightness > MaxBrightness {
		return fmt.Errorf("ring.brightness %d out of range 0-%d", cfg.Ring.Brightness, MaxBrightness)
	}
	if cfg.Ring.Pixels < 0 {
		return fmt.Errorf("ring.pixels must not be negative")
	}
	if cfg.Ring.Sink == SinkModbus || cfg.Ring.Sink == "" {
		if cfg.Ring.Modbus == nil || cfg.Ring.Modbus.Endpoint == "" {
			return fmt.Errorf("ring: sink %q requires ring.modbus.endpoint", SinkModbus)
		}
		pixels := cfg.Ring.Pixels
		if pixels == 0 {
			pixels = DefaultPixels
		}
		if end := int(cfg.Ring.Address) + (pixels*3+1)/2; end > 0x10000 {
			return fmt.Errorf("ring: %d pixels at address %d exceed register space", pixels, cfg.Ring.Address)
		}
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	if err := oneOf("transport.codec", cfg.Transport.Codec, CodecJSON, CodecCBOR); err != nil {
		return err
	}
	if cfg.Transport.Baud < 0 || cfg.Tag.Baud < 0 {
		return fmt.Errorf("baud must not be negative")
	}
	if cfg.Tag.Port != "" && cfg.Tag.Port == cfg.Transport.Port {
		return fmt.Errorf("tag.port %q is already used by the transport", cfg.Tag.Port)
	}

	// ------------------------------------------------------------
	// INPUTS
	// ------------------------------------------------------------

	if err := validateInputs(&cfg.Inputs); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if st := cfg.Status; st != nil {
		if st.Endpoint == "" {
			return fmt.Errorf("status: endpoint required")
		}
		if err := oneOf("status.transport", st.Transport, StatusTransportModbus, StatusTransportIngest); err != nil {
			return err
		}
		if end := (int(st.BaseSlot) + 1) * statusSlotsPerDevice; end > 0x10000 {
			return fmt.Errorf("status: base_slot %d exceeds register space", st.BaseSlot)
		}
	}

	return nil
}

func validateInputs(in *InputsConfig) error {
	if err := oneOf("inputs.source", in.Source, SourceGPIO, SourceModbus, SourceNone); err != nil {
		return err
	}
	if in.Source == "" || in.Source == SourceNone {
		return nil
	}

	seen := make(map[string]bool)
	for _, b := range in.Buttons {
		if b.Name == "" {
			return fmt.Errorf("inputs: button name required")
		}
		if seen[b.Name] {
			return fmt.Errorf("inputs: duplicate button %q", b.Name)
		}
		seen[b.Name] = true
	}

	type namedPin struct {
		name string
		pin  PinConfig
	}
	pins := []namedPin{{"PIR", in.PIR}}
	for _, b := range in.Buttons {
		pins = append(pins, namedPin{b.Name, b.PinConfig})
	}

	switch in.Source {
	case SourceGPIO:
		for _, p := range pins {
			if p.pin.GPIO == "" {
				return fmt.Errorf("inputs: %s has no gpio", p.name)
			}
		}

	case SourceModbus:
		m := in.Modbus
		if m == nil || m.Endpoint == "" {
			return fmt.Errorf("inputs: source %q requires inputs.modbus.endpoint", SourceModbus)
		}
		if m.IntervalMs < 0 {
			return fmt.Errorf("inputs.modbus.interval_ms must not be negative")
		}
		if len(m.Reads) == 0 {
			return fmt.Errorf("inputs.modbus: at least one read required")
		}
		for _, r := range m.Reads {
			if r.FC != 1 && r.FC != 2 {
				return fmt.Errorf("inputs.modbus: fc %d unsupported, inputs are bits (fc 1 or 2)", r.FC)
			}
			if r.Quantity == 0 || int(r.Address)+int(r.Quantity) > 0x10000 {
				return fmt.Errorf("inputs.modbus: read %d+%d out of range", r.Address, r.Quantity)
			}
		}
		for _, p := range pins {
			if !covered(m.Reads, p.pin.Address) {
				return fmt.Errorf("inputs: %s address %d is not covered by any read", p.name, p.pin.Address)
			}
		}
	}

	return nil
}

func covered(reads []ReadConfig, addr uint16) bool {
	for _, r := range reads {
		if addr >= r.Address && int(addr) < int(r.Address)+int(r.Quantity) {
			return true
		}
	}
	return false
}

func asciiOnly(field, v string) error {
	for i := 0; i < len(v); i++ {
		if v[i] > 0x7F {
			return fmt.Errorf("%s must contain ASCII characters only", field)
		}
	}
	return nil
}

// oneOf accepts empty (default) or one of allowed.
func oneOf(field, v string, allowed ...string) error {
	if v == "" {
		return nil
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s: %q is not one of %s", field, v, strings.Join(allowed, ", "))
}

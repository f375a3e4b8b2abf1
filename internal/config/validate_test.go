// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// helper to build a minimal valid config quickly
func base() *Config {
	return &Config{
		Ring: RingConfig{
			Sink:   SinkModbus,
			Modbus: &EndpointConfig{Endpoint: "10.0.0.5:502", UnitID: 1},
		},
	}
}

func modbusInputs(reads ...ReadConfig) InputsConfig {
	return InputsConfig{
		Source: SourceModbus,
		PIR:    PinConfig{Address: 0},
		Buttons: []ButtonConfig{
			{Name: "S1", PinConfig: PinConfig{Address: 1}},
			{Name: "S2", PinConfig: PinConfig{Address: 2}},
		},
		Modbus: &ModbusInputConfig{
			EndpointConfig: EndpointConfig{Endpoint: "10.0.0.6:502", UnitID: 2},
			Reads:          reads,
		},
	}
}

// ---- tests ----

func TestValidate_MinimalConfig(t *testing.T) {
	if err := Validate(base()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"non-ascii device name", func(c *Config) { c.Device.Name = "Tür-01" }, "ASCII"},
		{"bad log level", func(c *Config) { c.Device.LogLevel = "loud" }, "device.log_level"},
		{"negative polling", func(c *Config) { c.Timing.PollingMs = -1 }, "timing"},
		{"brightness above a channel", func(c *Config) { c.Ring.Brightness = 256 }, "ring.brightness"},
		{"unknown sink", func(c *Config) { c.Ring.Sink = "hdmi" }, "ring.sink"},
		{"modbus sink without endpoint", func(c *Config) { c.Ring.Modbus = nil }, "ring.modbus.endpoint"},
		{"ring past register space", func(c *Config) { c.Ring.Address = 0xFFF0; c.Ring.Pixels = 40 }, "register space"},
		{"unknown codec", func(c *Config) { c.Transport.Codec = "xml" }, "transport.codec"},
		{"tag on transport port", func(c *Config) {
			c.Transport.Port = "/dev/ttyUSB0"
			c.Tag.Port = "/dev/ttyUSB0"
		}, "tag.port"},
		{"unknown input source", func(c *Config) { c.Inputs.Source = "can" }, "inputs.source"},
		{"gpio pin missing", func(c *Config) {
			c.Inputs = InputsConfig{Source: SourceGPIO, PIR: PinConfig{GPIO: "GPIO9"},
				Buttons: []ButtonConfig{{Name: "S1"}}}
		}, "S1 has no gpio"},
		{"duplicate button", func(c *Config) {
			c.Inputs = InputsConfig{Source: SourceGPIO, PIR: PinConfig{GPIO: "GPIO9"},
				Buttons: []ButtonConfig{
					{Name: "S1", PinConfig: PinConfig{GPIO: "GPIO13"}},
					{Name: "S1", PinConfig: PinConfig{GPIO: "GPIO12"}},
				}}
		}, "duplicate button"},
		{"modbus inputs register fc", func(c *Config) {
			c.Inputs = modbusInputs(ReadConfig{FC: 3, Address: 0, Quantity: 8})
		}, "fc 3"},
		{"modbus pin not covered", func(c *Config) {
			c.Inputs = modbusInputs(ReadConfig{FC: 2, Address: 0, Quantity: 2})
		}, "S2 address 2"},
		{"status without endpoint", func(c *Config) { c.Status = &StatusConfig{} }, "status: endpoint"},
		{"status unknown transport", func(c *Config) {
			c.Status = &StatusConfig{EndpointConfig: EndpointConfig{Endpoint: "x:502"}, Transport: "mqtt"}
		}, "status.transport"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)

			err := Validate(c)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidate_ModbusInputsCovered(t *testing.T) {
	c := base()
	c.Inputs = modbusInputs(ReadConfig{FC: 2, Address: 0, Quantity: 8})

	if err := Validate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	c := base()
	if err := Validate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Ring.Pixels != 0 || c.Device.ID != "" {
		t.Fatalf("validate must not apply defaults")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	c := base()
	c.Inputs.Modbus = &ModbusInputConfig{}
	c.Status = &StatusConfig{EndpointConfig: EndpointConfig{Endpoint: "x:502"}}

	Normalize(c)

	if c.Timing.PollingMs != 10 || c.Timing.RoutineMs != 15000 || c.Timing.AliveMs != 500 {
		t.Fatalf("unexpected timing defaults: %+v", c.Timing)
	}
	if c.Ring.Pixels != 12 || c.Ring.Brightness != 100 {
		t.Fatalf("unexpected ring defaults: %+v", c.Ring)
	}
	if c.Transport.Baud != 57600 || c.Transport.Codec != CodecJSON {
		t.Fatalf("unexpected transport defaults: %+v", c.Transport)
	}
	if c.Device.ID == "" {
		t.Fatalf("device id should be generated")
	}
	if c.Inputs.Source != SourceNone {
		t.Fatalf("inputs should default to none, got %q", c.Inputs.Source)
	}
	if c.Inputs.Modbus.IntervalMs != DefaultInputPollMs || c.Inputs.Modbus.TimeoutMs != DefaultTimeoutMs {
		t.Fatalf("unexpected modbus input defaults: %+v", c.Inputs.Modbus)
	}
	if c.Status.Transport != StatusTransportModbus {
		t.Fatalf("status transport should default to modbus")
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	c := base()
	c.Device.ID = "door-7"
	c.Device.Name = "A-VERY-LONG-DEVICE-NAME"
	c.Ring.Brightness = 30
	c.Transport.Codec = CodecCBOR

	Normalize(c)

	if c.Device.ID != "door-7" || c.Ring.Brightness != 30 || c.Transport.Codec != CodecCBOR {
		t.Fatalf("explicit values overwritten: %+v", c)
	}
	if len(c.Device.Name) != DeviceNameMaxChars {
		t.Fatalf("device name not truncated: %q", c.Device.Name)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doorpanel.yaml")

	raw := `
device:
  name: DOOR-01
timing:
  polling_ms: 20
ring:
  sink: terminal
inputs:
  source: gpio
  pir: { gpio: GPIO9 }
  buttons:
    - { name: S1, gpio: GPIO13, active_low: true }
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(c); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.Timing.PollingMs != 20 || c.Ring.Sink != SinkTerminal {
		t.Fatalf("unexpected decode: %+v", c)
	}
	if len(c.Inputs.Buttons) != 1 || c.Inputs.Buttons[0].GPIO != "GPIO13" || !c.Inputs.Buttons[0].ActiveLow {
		t.Fatalf("inline pin config not decoded: %+v", c.Inputs.Buttons)
	}
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	if _, err := Parse([]byte("ring:\n  pixles: 12\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c == nil {
		t.Fatalf("expected empty config")
	}
}

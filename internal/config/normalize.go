// internal/config/normalize.go
package config

import "github.com/google/uuid"

const (
	DefaultPollingMs   = 10
	DefaultRoutineMs   = 15000
	DefaultAliveMs     = 500
	DefaultBrightness  = 100
	MaxBrightness      = 255
	DefaultPixels      = 12
	DefaultBaud        = 57600
	DefaultTagBaud     = 9600
	DefaultTimeoutMs   = 1000
	DefaultInputPollMs = 20

	// DeviceNameMaxChars is what the status block can hold.
	DeviceNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if cfg.Device.ID == "" {
		cfg.Device.ID = uuid.NewString()
	}
	if cfg.Device.LogLevel == "" {
		cfg.Device.LogLevel = "info"
	}
	// ASCII already validated
	if len(cfg.Device.Name) > DeviceNameMaxChars {
		cfg.Device.Name = cfg.Device.Name[:DeviceNameMaxChars]
	}

	// ------------------------------------------------------------
	// TIMING
	// ------------------------------------------------------------

	defaultInt(&cfg.Timing.PollingMs, DefaultPollingMs)
	defaultInt(&cfg.Timing.RoutineMs, DefaultRoutineMs)
	defaultInt(&cfg.Timing.AliveMs, DefaultAliveMs)

	// ------------------------------------------------------------
	// RING
	// ------------------------------------------------------------

	defaultInt(&cfg.Ring.Pixels, DefaultPixels)
	if cfg.Ring.Brightness == 0 {
		cfg.Ring.Brightness = DefaultBrightness
	}
	if cfg.Ring.Sink == "" {
		cfg.Ring.Sink = SinkModbus
	}
	if cfg.Ring.Modbus != nil {
		defaultInt(&cfg.Ring.Modbus.TimeoutMs, DefaultTimeoutMs)
	}

	// ------------------------------------------------------------
	// TRANSPORT / TAG
	// ------------------------------------------------------------

	defaultInt(&cfg.Transport.Baud, DefaultBaud)
	if cfg.Transport.Codec == "" {
		cfg.Transport.Codec = CodecJSON
	}
	defaultInt(&cfg.Tag.Baud, DefaultTagBaud)

	// ------------------------------------------------------------
	// INPUTS
	// ------------------------------------------------------------

	if cfg.Inputs.Source == "" {
		cfg.Inputs.Source = SourceNone
	}
	if m := cfg.Inputs.Modbus; m != nil {
		defaultInt(&m.TimeoutMs, DefaultTimeoutMs)
		defaultInt(&m.IntervalMs, DefaultInputPollMs)
	}

	// ------------------------------------------------------------
	// STATUS
	// ------------------------------------------------------------

	if st := cfg.Status; st != nil {
		defaultInt(&st.TimeoutMs, DefaultTimeoutMs)
		if st.Transport == "" {
			st.Transport = StatusTransportModbus
		}
	}
}

func defaultInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

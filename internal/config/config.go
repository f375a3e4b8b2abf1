// internal/config/config.go
package config

type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Timing    TimingConfig    `yaml:"timing"`
	Ring      RingConfig      `yaml:"ring"`
	Transport TransportConfig `yaml:"transport"`
	Inputs    InputsConfig    `yaml:"inputs"`
	Tag       TagConfig       `yaml:"tag"`

	// Status mirror (optional, opt-in)
	Status *StatusConfig `yaml:"status"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	ID       string `yaml:"id"`   // reported in every message; generated when empty
	Name     string `yaml:"name"` // ASCII, mirrored into the status block
	LogLevel string `yaml:"log_level"`
	AliveLED string `yaml:"alive_led"` // GPIO name, optional
}

// ---- TIMING ----

type TimingConfig struct {
	PollingMs int `yaml:"polling_ms"`
	RoutineMs int `yaml:"routine_ms"`
	AliveMs   int `yaml:"alive_ms"`
}

// ---- RING ----

type RingConfig struct {
	Pixels     int    `yaml:"pixels"`
	Brightness uint32 `yaml:"brightness"`
	Sink       string `yaml:"sink"` // modbus | terminal | none

	// LED controller, sink=modbus
	Modbus  *EndpointConfig `yaml:"modbus"`
	Address uint16          `yaml:"address"`
}

// EndpointConfig is one Modbus TCP endpoint.
type EndpointConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Port  string `yaml:"port"` // serial device; empty means stdin/stdout
	Baud  int    `yaml:"baud"`
	Codec string `yaml:"codec"` // json | cbor
}

// ---- INPUTS ----

type InputsConfig struct {
	Source  string             `yaml:"source"` // gpio | modbus | none
	PIR     PinConfig          `yaml:"pir"`
	Buttons []ButtonConfig     `yaml:"buttons"`
	Modbus  *ModbusInputConfig `yaml:"modbus"`
}

// PinConfig locates one digital input. GPIO is used with source=gpio,
// Address (a coil or discrete input) with source=modbus.
type PinConfig struct {
	GPIO      string `yaml:"gpio"`
	Address   uint16 `yaml:"address"`
	ActiveLow bool   `yaml:"active_low"`
}

type ButtonConfig struct {
	Name      string `yaml:"name"`
	PinConfig `yaml:",inline"`
}

type ModbusInputConfig struct {
	EndpointConfig `yaml:",inline"`
	IntervalMs     int          `yaml:"interval_ms"`
	Reads          []ReadConfig `yaml:"reads"`
}

// ---- READ GEOMETRY ----

type ReadConfig struct {
	FC       uint8  `yaml:"fc"`
	Address  uint16 `yaml:"address"`
	Quantity uint16 `yaml:"quantity"`
}

// ---- TAG READER ----

type TagConfig struct {
	Port string `yaml:"port"` // empty disables the reader
	Baud int    `yaml:"baud"`
}

// ---- STATUS ----

type StatusConfig struct {
	EndpointConfig `yaml:",inline"`
	Transport      string `yaml:"transport"` // modbus | ingest
	BaseSlot       uint16 `yaml:"base_slot"`
}

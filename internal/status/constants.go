// internal/status/constants.go
package status

// Device Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per device.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the device health state.
const SlotHealthCode = 0

// SlotMotion is 1 while the presence sensor is active.
const SlotMotion = 1

// SlotButtons holds one bit per button, bit 0 = first configured button,
// set while the button is pressed or long-pressed.
const SlotButtons = 2

// SlotRingIdle is 1 while no LED effect is running.
const SlotRingIdle = 3

// SlotBrightness holds the brightness used for new effects.
const SlotBrightness = 4

// SlotEnabled is 1 while the panel reacts to its inputs.
const SlotEnabled = 5

// SlotUptime holds whole seconds since start, saturating.
const SlotUptime = 6

// LiveSlots is the number of leading slots carrying live state.
const LiveSlots = 7

// ---- RESERVED RANGE ----

// Slots 7-10 are reserved for future use.
const SlotReservedStart = 7
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// MaxButtons is the number of buttons SlotButtons can carry.
const MaxButtons = 16

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy device.
const HealthOK uint16 = 1

// HealthError represents a device error state (inputs unreadable).
const HealthError uint16 = 2

// HealthStale represents a stale data state.
const HealthStale uint16 = 3

// HealthDisabled represents a panel disabled by command.
const HealthDisabled uint16 = 4

// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health     uint16
	Motion     bool
	Buttons    uint16 // bitmask, see SlotButtons
	RingIdle   bool
	Brightness uint16
	Enabled    bool
	Uptime     uint16 // seconds, saturating
}

// UptimeSeconds converts elapsed milliseconds to the saturating slot value.
func UptimeSeconds(ms uint64) uint16 {
	s := ms / 1000
	if s > 65535 {
		return 65535
	}
	return uint16(s)
}

// ClampBrightness fits a brightness into one register.
func ClampBrightness(v uint32) uint16 {
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

// internal/protocol/command.go
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMalformed marks an input message that was skipped.
	// The stream itself is still usable.
	ErrMalformed = errors.New("protocol: malformed message")

	// ErrReboot is returned by the poll loop after a reboot command.
	ErrReboot = errors.New("protocol: reboot requested")
)

// Command is one decoded controller request.
type Command struct {
	Action string
	Bright *uint32 // set: new brightness
	LED    *string // set: effect name
}

// MaxBright is the largest brightness a channel can carry.
const MaxBright = 255

// ParseCommand extracts a Command from a decoded message object.
// Unknown keys are ignored; unknown actions are returned as is.
func ParseCommand(m map[string]any) (Command, error) {
	action, ok := m[KeyAction].(string)
	if !ok || action == "" {
		return Command{}, fmt.Errorf("%w: missing action", ErrMalformed)
	}

	cmd := Command{Action: action}

	if v, ok := m[KeyBright]; ok {
		b, err := toUint32(v)
		if err != nil {
			return Command{}, fmt.Errorf("%w: bright: %v", ErrMalformed, err)
		}
		if b > MaxBright {
			return Command{}, fmt.Errorf("%w: bright: %d above %d", ErrMalformed, b, MaxBright)
		}
		cmd.Bright = &b
	}

	if v, ok := m[KeyLED]; ok {
		s, ok := v.(string)
		if !ok {
			return Command{}, fmt.Errorf("%w: led must be a string", ErrMalformed)
		}
		cmd.LED = &s
	}

	return cmd, nil
}

func toUint32(v any) (uint32, error) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
			return 0, fmt.Errorf("%v out of range", n)
		}
		return uint32(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, err
		}
		return toUint32(i)
	case int64:
		if n < 0 || n > math.MaxUint32 {
			return 0, fmt.Errorf("%d out of range", n)
		}
		return uint32(n), nil
	case uint64:
		if n > math.MaxUint32 {
			return 0, fmt.Errorf("%d out of range", n)
		}
		return uint32(n), nil
	case int:
		return toUint32(int64(n))
	default:
		return 0, fmt.Errorf("%T is not a number", v)
	}
}

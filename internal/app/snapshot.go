// internal/app/snapshot.go
package app

import (
	"github.com/tamzrod/doorpanel/internal/input"
	"github.com/tamzrod/doorpanel/internal/status"
)

// Snapshot captures the current appliance state for the status mirror.
func (a *App) Snapshot() status.Snapshot {
	s := status.Snapshot{
		Health:     status.HealthOK,
		Motion:     a.motionActive(),
		RingIdle:   a.ring.Idle(),
		Brightness: status.ClampBrightness(a.ring.Brightness()),
		Enabled:    a.enabled,
		Uptime:     status.UptimeSeconds(a.uptimeMs),
	}

	for i, b := range a.buttons {
		if i >= status.MaxButtons {
			break
		}
		if b.State() != input.Released {
			s.Buttons |= 1 << i
		}
	}

	switch {
	case a.failing():
		s.Health = status.HealthError
	case !a.enabled:
		s.Health = status.HealthDisabled
	}

	return s
}

func (a *App) failing() bool {
	for _, h := range a.health {
		if h.Err() != nil {
			return true
		}
	}
	return false
}

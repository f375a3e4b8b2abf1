// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/doorpanel/internal/config"
	pmodbus "github.com/tamzrod/doorpanel/internal/poller/modbus"
)

// Build constructs a Poller for the Modbus input source and wires the client
// lifecycle. Connection is reused while healthy.
// On transport death, Poller discards the client and uses factory on a future tick.
// No retries, no loops, no semantics.
func Build(m cfg.ModbusInputConfig) (*Poller, func() error, error) {
	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		return pmodbus.New(pmodbus.Config{
			Endpoint: m.Endpoint,
			UnitID:   m.UnitID,
			Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
		})
	}

	// initial client (fail fast at startup)
	client, err := factory()
	if err != nil {
		return nil, nil, err
	}

	reads := make([]ReadBlock, 0, len(m.Reads))
	for _, r := range m.Reads {
		reads = append(reads, ReadBlock{
			FC:       r.FC,
			Address:  r.Address,
			Quantity: r.Quantity,
		})
	}

	p, err := New(
		Config{
			Source:   m.Endpoint,
			Interval: time.Duration(m.IntervalMs) * time.Millisecond,
			Reads:    reads,
		},
		client,
		factory,
	)
	if err != nil {
		return nil, nil, err
	}

	return p, p.Close, nil
}

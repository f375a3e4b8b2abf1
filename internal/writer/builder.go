// internal/writer/builder.go
package writer

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/doorpanel/internal/config"
	"github.com/tamzrod/doorpanel/internal/writer/ingest"
	wmodbus "github.com/tamzrod/doorpanel/internal/writer/modbus"
)

// BuildEndpointClients creates one TCP client per unique endpoint.
// The first timeout seen for an endpoint wins.
func BuildEndpointClients(eps []cfg.EndpointConfig) (map[string]*wmodbus.EndpointClient, func() error, error) {
	clients := make(map[string]*wmodbus.EndpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for _, ep := range eps {
		if _, ok := clients[ep.Endpoint]; ok {
			continue
		}

		c, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: ep.Endpoint,
			Timeout:  time.Duration(ep.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		clients[ep.Endpoint] = c
		closers = append(closers, c.Close)
	}

	return clients, closeAll, nil
}

// BuildStatusWriter wires the status block writer onto the configured
// transport. Modbus transports reuse a client from clients.
func BuildStatusWriter(st cfg.StatusConfig, deviceName string, clients map[string]*wmodbus.EndpointClient) (*DeviceStatusWriter, error) {
	plan := StatusPlan{
		Endpoint:   st.Endpoint,
		UnitID:     st.UnitID,
		BaseSlot:   st.BaseSlot,
		DeviceName: deviceName,
	}

	switch st.Transport {
	case cfg.StatusTransportIngest:
		c, err := ingest.NewEndpointClient(ingest.Config{
			Endpoint: st.Endpoint,
			Timeout:  time.Duration(st.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		return NewDeviceStatusWriter(plan, c)

	case cfg.StatusTransportModbus, "":
		c, ok := clients[st.Endpoint]
		if !ok {
			return nil, fmt.Errorf("writer: no modbus client for endpoint %s", st.Endpoint)
		}
		return NewDeviceStatusWriter(plan, c)

	default:
		return nil, fmt.Errorf("writer: unsupported status transport %q", st.Transport)
	}
}

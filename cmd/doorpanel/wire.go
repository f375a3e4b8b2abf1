// cmd/doorpanel/wire.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"

	"github.com/tamzrod/doorpanel/internal/app"
	"github.com/tamzrod/doorpanel/internal/config"
	"github.com/tamzrod/doorpanel/internal/delta"
	"github.com/tamzrod/doorpanel/internal/input"
	"github.com/tamzrod/doorpanel/internal/pixel"
	"github.com/tamzrod/doorpanel/internal/poller"
	"github.com/tamzrod/doorpanel/internal/protocol"
	"github.com/tamzrod/doorpanel/internal/writer"
)

// wiring holds everything built from the config around the app.
type wiring struct {
	deps      app.Deps
	afterPoll func()
	closers   []func() error
	log       *slog.Logger
}

func (w *wiring) close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			w.log.Warn("close failed", slog.String("error", err.Error()))
		}
	}
}

func wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*wiring, error) {
	w := &wiring{log: logger}
	ok := false
	defer func() {
		if !ok {
			w.close()
		}
	}()

	tb := delta.NewTimeBase(1)
	clock := tb.Clock(0)

	w.deps = app.Deps{
		TimeBase: tb,
		Tags:     &input.TagDetector{},
		Log:      logger,
	}

	// ---- command / event transport ----
	codec, err := protocol.NewCodec(cfg.Transport.Codec)
	if err != nil {
		return nil, err
	}
	rw, err := openTransport(cfg.Transport)
	if err != nil {
		return nil, err
	}
	if c, isCloser := rw.(io.Closer); isCloser {
		w.closers = append(w.closers, c.Close)
	}

	cmds := make(chan protocol.Command, 16)
	w.deps.Commands = cmds
	w.deps.Events = codec.NewEncoder(rw)
	go func() {
		if err := protocol.ReadCommands(ctx, codec.NewDecoder(rw), cmds, logger); err != nil {
			logger.Error("command stream ended", slog.String("error", err.Error()))
		}
	}()

	// ---- modbus endpoint clients (ring + status) ----
	var eps []config.EndpointConfig
	if cfg.Ring.Sink == config.SinkModbus {
		eps = append(eps, *cfg.Ring.Modbus)
	}
	if st := cfg.Status; st != nil && st.Transport == config.StatusTransportModbus {
		eps = append(eps, st.EndpointConfig)
	}
	clients, closeClients, err := writer.BuildEndpointClients(eps)
	if err != nil {
		return nil, fmt.Errorf("endpoint clients: %w", err)
	}
	w.closers = append(w.closers, closeClients)

	// ---- ring sink ----
	switch cfg.Ring.Sink {
	case config.SinkModbus:
		m, err := pixel.NewModbus(pixel.ModbusConfig{
			UnitID:  cfg.Ring.Modbus.UnitID,
			Address: cfg.Ring.Address,
			Pixels:  cfg.Ring.Pixels,
		}, clients[cfg.Ring.Modbus.Endpoint], logger)
		if err != nil {
			return nil, err
		}
		go m.Run(ctx)
		w.deps.Sink = m
		w.deps.Health = append(w.deps.Health, m)

	case config.SinkTerminal:
		t := pixel.NewTerminal(os.Stderr, cfg.Ring.Pixels)
		w.afterPoll = func() { _ = t.Flush() }
		w.deps.Sink = t

	default:
		w.deps.Sink = pixel.NewBuffer(cfg.Ring.Pixels)
	}

	// ---- inputs ----
	if err := wireInputs(ctx, w, cfg.Inputs, clock); err != nil {
		return nil, err
	}

	// ---- tag reader ----
	if cfg.Tag.Port != "" {
		port, err := serial.Open(cfg.Tag.Port, &serial.Mode{BaudRate: cfg.Tag.Baud})
		if err != nil {
			return nil, fmt.Errorf("tag reader %s: %w", cfg.Tag.Port, err)
		}
		w.closers = append(w.closers, port.Close)

		go func() {
			err := input.NewTagReader(port, w.deps.Tags, logger).Run(ctx)
			if err != nil && ctx.Err() == nil {
				logger.Error("tag reader stopped", slog.String("error", err.Error()))
			}
		}()
	}

	// ---- alive LED ----
	if cfg.Device.AliveLED != "" {
		led, err := input.OpenGPIOOutput(cfg.Device.AliveLED)
		if err != nil {
			return nil, err
		}
		w.deps.Alive = led
		w.deps.Health = append(w.deps.Health, led)
	}

	// ---- status mirror ----
	if st := cfg.Status; st != nil {
		sw, err := writer.BuildStatusWriter(*st, cfg.Device.Name, clients)
		if err != nil {
			return nil, fmt.Errorf("status writer: %w", err)
		}
		mirror := writer.NewMirror(sw, logger)
		go mirror.Run(ctx)
		w.deps.Status = mirror
	}

	ok = true
	return w, nil
}

// openTransport opens the serial port, or stdin/stdout when none is set.
func openTransport(t config.TransportConfig) (io.ReadWriter, error) {
	if t.Port == "" {
		return stdio{}, nil
	}
	port, err := serial.Open(t.Port, &serial.Mode{BaudRate: t.Baud})
	if err != nil {
		return nil, fmt.Errorf("transport %s: %w", t.Port, err)
	}
	return port, nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func wireInputs(ctx context.Context, w *wiring, in config.InputsConfig, clock *delta.Clock) error {
	var open func(pc config.PinConfig) (input.Pin, error)

	switch in.Source {
	case config.SourceGPIO:
		open = func(pc config.PinConfig) (input.Pin, error) {
			pull := gpio.PullDown
			if pc.ActiveLow {
				pull = gpio.PullUp
			}
			p, err := input.OpenGPIOPin(pc.GPIO, pull)
			if err != nil {
				return nil, err
			}
			return activeLevel(p, pc.ActiveLow), nil
		}

	case config.SourceModbus:
		p, closePoller, err := poller.Build(*in.Modbus)
		if err != nil {
			return fmt.Errorf("input poller: %w", err)
		}
		w.closers = append(w.closers, closePoller)

		bank := input.NewBank()
		results := make(chan poller.PollResult, 1)
		go p.Run(ctx, results)
		go bank.Run(ctx, results)
		w.deps.Health = append(w.deps.Health, bank)

		open = func(pc config.PinConfig) (input.Pin, error) {
			return activeLevel(bank.Pin(pc.Address), pc.ActiveLow), nil
		}

	default:
		return nil
	}

	pir, err := open(in.PIR)
	if err != nil {
		return err
	}
	w.deps.Motion = input.NewMotion(pir)

	for _, bc := range in.Buttons {
		pin, err := open(bc.PinConfig)
		if err != nil {
			return err
		}
		w.deps.Buttons = append(w.deps.Buttons, input.NewButton(bc.Name, pin, clock))
	}
	return nil
}

func activeLevel(p input.Pin, activeLow bool) input.Pin {
	if activeLow {
		return input.Inverted(p)
	}
	return p
}

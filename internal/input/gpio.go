// internal/input/gpio.go
package input

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIOPin samples a host GPIO line. High is active.
// The host drivers must be initialized before opening pins.
type GPIOPin struct {
	pin gpio.PinIn
}

// OpenGPIOPin configures name as an input with the given pull.
func OpenGPIOPin(name string, pull gpio.Pull) (*GPIOPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("input gpio: pin %q not found", name)
	}
	if err := p.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("input gpio: configure %s: %w", name, err)
	}
	return &GPIOPin{pin: p}, nil
}

func (g *GPIOPin) Read() bool {
	return g.pin.Read() == gpio.High
}

// GPIOOutput drives a host GPIO line, e.g. the alive LED.
type GPIOOutput struct {
	pin gpio.PinOut

	mu  sync.Mutex
	err error
}

// OpenGPIOOutput configures name as an output, initially low.
func OpenGPIOOutput(name string) (*GPIOOutput, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("input gpio: pin %q not found", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("input gpio: configure %s: %w", name, err)
	}
	return &GPIOOutput{pin: p}, nil
}

// Set drives the line. A failure is kept for Err.
func (g *GPIOOutput) Set(on bool) {
	err := g.pin.Out(gpio.Level(on))

	g.mu.Lock()
	g.err = err
	g.mu.Unlock()
}

// Err returns the result of the last Set.
func (g *GPIOOutput) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

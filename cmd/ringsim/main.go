// cmd/ringsim/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/chzyer/readline"

	"github.com/tamzrod/doorpanel/internal/app"
	"github.com/tamzrod/doorpanel/internal/delta"
	"github.com/tamzrod/doorpanel/internal/input"
	"github.com/tamzrod/doorpanel/internal/pixel"
	"github.com/tamzrod/doorpanel/internal/protocol"
	"github.com/tamzrod/doorpanel/internal/ring"
)

var (
	pixels     = flag.Int("pixels", 12, "number of ring pixels")
	brightness = flag.Uint("brightness", ring.DefaultBrightness, "initial brightness")
	pollingMs  = flag.Int("polling-ms", 10, "poll period in milliseconds")
	frameMs    = flag.Uint("frame-ms", 250, "terminal refresh period in milliseconds")
	buttons    = flag.Int("buttons", 3, "number of simulated buttons (S1..Sn)")
)

func main() {
	flag.Parse()
	if *brightness > protocol.MaxBright {
		log.Fatalf("brightness %d out of range 0-%d", *brightness, protocol.MaxBright)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ring> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("readline init failed: %v", err)
	}
	defer rl.Close()

	logger := slog.New(slog.NewTextHandler(rl.Stderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sim := newSimulator(*buttons)
	tb := delta.NewTimeBase(1)
	term := pixel.NewTerminal(rl.Stdout(), *pixels)

	var btns []*input.Button
	for i, pin := range sim.buttons {
		btns = append(btns, input.NewButton(fmt.Sprintf("S%d", i+1), pin.pin(), tb.Clock(0)))
	}

	a := app.New(app.Options{
		DeviceID:   "ringsim",
		RoutineMs:  15000,
		AliveMs:    500,
		Brightness: uint32(*brightness),
	}, app.Deps{
		TimeBase: tb,
		Sink:     term,
		Motion:   input.NewMotion(sim.pir.pin()),
		Buttons:  btns,
		Tags:     sim.tags,
		Commands: sim.cmds,
		Events:   protocol.JSONLines{}.NewEncoder(rl.Stdout()),
		Log:      logger,
	})

	frames := delta.NewPeriodicTimer(tb.Clock(0), uint32(*frameMs), 0)

	go func() {
		defer cancel()

		ticker := time.NewTicker(time.Duration(*pollingMs) * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.Poll(uint32(*pollingMs)); err != nil {
					fmt.Fprintf(rl.Stdout(), "poll stopped: %v\n", err)
					return
				}
				if frames.Poll() {
					_ = term.Flush()
				}
			}
		}
	}()

	runConsole(ctx, cancel, rl, sim)
}

// ---- simulated hardware ----

type level struct{ v atomic.Bool }

func (l *level) pin() input.Pin { return input.PinFunc(l.v.Load) }

type simulator struct {
	pir     *level
	buttons []*level
	tags    *input.TagDetector
	cmds    chan protocol.Command
}

func newSimulator(n int) *simulator {
	s := &simulator{
		pir:  &level{},
		tags: &input.TagDetector{},
		cmds: make(chan protocol.Command, 16),
	}
	for i := 0; i < n; i++ {
		s.buttons = append(s.buttons, &level{})
	}
	return s
}

// cmd/doorpanel/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/host/v3"

	"github.com/tamzrod/doorpanel/internal/app"
	"github.com/tamzrod/doorpanel/internal/config"
	"github.com/tamzrod/doorpanel/internal/protocol"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: doorpanel <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	logger := newLogger(cfg.Device.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, logger)
	switch {
	case errors.Is(err, protocol.ErrReboot):
		// the supervisor restarts us
		logger.Warn("exiting for reboot")
		stop()
		os.Exit(1)
	case err != nil:
		log.Fatalf("doorpanel failed: %v", err)
	}

	logger.Info("stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if usesGPIO(cfg) {
		if _, err := host.Init(); err != nil {
			return err
		}
	}

	w, err := wire(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer w.close()

	a := app.New(app.Options{
		DeviceID:   cfg.Device.ID,
		RoutineMs:  uint32(cfg.Timing.RoutineMs),
		AliveMs:    uint32(cfg.Timing.AliveMs),
		Brightness: cfg.Ring.Brightness,
	}, w.deps)

	logger.Info("doorpanel started",
		slog.String("device", cfg.Device.ID),
		slog.String("sink", cfg.Ring.Sink),
		slog.String("inputs", cfg.Inputs.Source),
		slog.String("codec", cfg.Transport.Codec),
		slog.Int("polling_ms", cfg.Timing.PollingMs),
	)

	return loop(ctx, a, time.Duration(cfg.Timing.PollingMs)*time.Millisecond, w.afterPoll)
}

// loop drives the app at a fixed period. Each call receives the whole
// milliseconds elapsed since the previous one; the sub-millisecond remainder
// is carried over. Missed ticks are not replayed.
func loop(ctx context.Context, a *app.App, period time.Duration, after func()) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-ticker.C:
			ms := now.Sub(last) / time.Millisecond
			if ms <= 0 {
				continue
			}
			last = last.Add(ms * time.Millisecond)

			if err := a.Poll(uint32(ms)); err != nil {
				return err
			}
			if after != nil {
				after()
			}
		}
	}
}

func usesGPIO(cfg *config.Config) bool {
	return cfg.Inputs.Source == config.SourceGPIO || cfg.Device.AliveLED != ""
}

// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls once immediately, then on every interval, and emits each
// PollResult on out. One goroutine per source. No overlap. No retries.
// A send blocked on a slow consumer is abandoned when ctx is done.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	if !p.emit(ctx, out) {
		return
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.emit(ctx, out) {
				return
			}
		}
	}
}

func (p *Poller) emit(ctx context.Context, out chan<- PollResult) bool {
	select {
	case out <- p.PollOnce():
		return true
	case <-ctx.Done():
		return false
	}
}

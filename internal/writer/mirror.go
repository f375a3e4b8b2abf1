// internal/writer/mirror.go
package writer

import (
	"context"
	"log/slog"

	"github.com/tamzrod/doorpanel/internal/status"
)

// Mirror decouples the poll loop from status delivery.
// Offer never blocks; Run delivers the most recent snapshot and drops
// superseded ones. Unchanged snapshots are not re-delivered.
type Mirror struct {
	w   StatusWriter
	log *slog.Logger
	in  chan status.Snapshot
}

func NewMirror(w StatusWriter, log *slog.Logger) *Mirror {
	if log == nil {
		log = slog.Default()
	}
	return &Mirror{
		w:   w,
		log: log,
		in:  make(chan status.Snapshot, 1),
	}
}

// Offer queues s, replacing a snapshot not yet delivered.
func (m *Mirror) Offer(s status.Snapshot) {
	select {
	case m.in <- s:
		return
	default:
	}

	select {
	case <-m.in:
	default:
	}
	select {
	case m.in <- s:
	default:
	}
}

// Run delivers snapshots until ctx is done.
func (m *Mirror) Run(ctx context.Context) {
	var (
		last    status.Snapshot
		written bool
	)

	for {
		select {
		case <-ctx.Done():
			return

		case s := <-m.in:
			if written && s == last {
				continue
			}
			if err := m.w.WriteStatus(s); err != nil {
				m.log.Warn("status write failed", slog.String("error", err.Error()))
				written = false
				continue
			}
			last = s
			written = true
		}
	}
}

// internal/protocol/reader.go
package protocol

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// ReadCommands decodes commands from dec and sends them to out until the
// stream ends or ctx is done. Malformed messages are logged and skipped.
// A clean end of stream returns nil.
func ReadCommands(ctx context.Context, dec Decoder, out chan<- Command, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	for {
		m, err := dec.Decode()
		if errors.Is(err, ErrMalformed) {
			log.Warn("message ignored", slog.String("error", err.Error()))
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		cmd, err := ParseCommand(m)
		if err != nil {
			log.Warn("command ignored", slog.String("error", err.Error()))
			continue
		}

		select {
		case out <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

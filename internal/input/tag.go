// internal/input/tag.go
package input

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// Tag is one scanned transponder.
type Tag struct {
	SAK byte
	UID []byte
}

func (t Tag) SAKHex() string { return hex.EncodeToString([]byte{t.SAK}) }
func (t Tag) UIDHex() string { return hex.EncodeToString(t.UID) }

// ParseTag parses a reader line: "<sak> <uid>" or just "<uid>", both hex.
func ParseTag(line string) (Tag, error) {
	fields := strings.Fields(line)

	var sakText, uidText string
	switch len(fields) {
	case 1:
		uidText = fields[0]
	case 2:
		sakText, uidText = fields[0], fields[1]
	default:
		return Tag{}, fmt.Errorf("input tag: malformed line %q", line)
	}

	var t Tag
	if sakText != "" {
		sak, err := hex.DecodeString(sakText)
		if err != nil || len(sak) != 1 {
			return Tag{}, fmt.Errorf("input tag: bad sak %q", sakText)
		}
		t.SAK = sak[0]
	}

	uid, err := hex.DecodeString(uidText)
	if err != nil {
		return Tag{}, fmt.Errorf("input tag: bad uid %q: %w", uidText, err)
	}
	if len(uid) == 0 || len(uid) > 10 {
		return Tag{}, fmt.Errorf("input tag: uid length %d out of range", len(uid))
	}
	t.UID = uid

	return t, nil
}

// TagDetector is the hand-off between reader goroutines and the poll loop.
// Set may be called from any goroutine; TestAndClear belongs to the poll loop.
type TagDetector struct {
	pending atomic.Bool

	mu  sync.Mutex
	tag Tag
}

// Set records a scanned tag. A tag not yet consumed is overwritten.
func (d *TagDetector) Set(t Tag) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.tag = t
	d.pending.Store(true)
}

// TestAndClear returns the pending tag, if any, and clears the flag.
// Each Set is reported at most once.
func (d *TagDetector) TestAndClear() (Tag, bool) {
	if !d.pending.Load() {
		return Tag{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pending.Swap(false) {
		return Tag{}, false
	}
	return d.tag, true
}

// ---- serial reader ----

// TagReader feeds a TagDetector from a line-oriented reader module,
// typically a serial port.
type TagReader struct {
	r   io.Reader
	det *TagDetector
	log *slog.Logger
}

func NewTagReader(r io.Reader, det *TagDetector, log *slog.Logger) *TagReader {
	if log == nil {
		log = slog.Default()
	}
	return &TagReader{r: r, det: det, log: log}
}

// Run reads lines until the reader fails or ctx is done. Malformed lines are
// logged and skipped. Closing the underlying port unblocks a pending read.
func (tr *TagReader) Run(ctx context.Context) error {
	sc := bufio.NewScanner(tr.r)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		t, err := ParseTag(line)
		if err != nil {
			tr.log.Warn("tag line ignored", slog.String("error", err.Error()))
			continue
		}
		tr.det.Set(t)
	}

	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("input tag: read: %w", err)
	}
	return ctx.Err()
}

// internal/protocol/codec.go
package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Encoder writes outbound messages.
type Encoder interface {
	Encode(d *Doc) error
}

// Decoder reads inbound message objects. A returned error wrapping
// ErrMalformed means one message was skipped and the next Decode may
// succeed; any other error ends the stream.
type Decoder interface {
	Decode() (map[string]any, error)
}

// Codec frames messages on a byte stream.
type Codec interface {
	Name() string
	NewEncoder(w io.Writer) Encoder
	NewDecoder(r io.Reader) Decoder
}

// NewCodec returns the codec registered under name: "json" (default) or "cbor".
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSONLines{}, nil
	case "cbor":
		return CBOR{}, nil
	default:
		return nil, fmt.Errorf("protocol: unknown codec %q", name)
	}
}

// ---- json lines ----

// JSONLines is one JSON object per newline terminated line.
type JSONLines struct{}

func (JSONLines) Name() string { return "json" }

func (JSONLines) NewEncoder(w io.Writer) Encoder { return &jsonEncoder{w: w} }

func (JSONLines) NewDecoder(r io.Reader) Decoder {
	return &jsonDecoder{sc: bufio.NewScanner(r)}
}

type jsonEncoder struct {
	w io.Writer
}

func (e *jsonEncoder) Encode(d *Doc) error {
	b, err := d.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(b, '\n'))
	return err
}

type jsonDecoder struct {
	sc *bufio.Scanner
}

func (d *jsonDecoder) Decode() (map[string]any, error) {
	for d.sc.Scan() {
		line := bytes.TrimSpace(d.sc.Bytes())
		if len(line) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()

		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: not an object", ErrMalformed)
		}
		return m, nil
	}

	if err := d.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// ---- cbor ----

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error

	cborEnc, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("protocol: cbor encoder mode: %v", err))
	}

	cborDec, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("protocol: cbor decoder mode: %v", err))
	}
}

// CBOR is a sequence of self-delimiting CBOR maps, one per message.
type CBOR struct{}

func (CBOR) Name() string { return "cbor" }

func (CBOR) NewEncoder(w io.Writer) Encoder { return &cborEncoder{enc: cborEnc.NewEncoder(w)} }

func (CBOR) NewDecoder(r io.Reader) Decoder { return &cborDecoder{dec: cborDec.NewDecoder(r)} }

func (d *Doc) MarshalCBOR() ([]byte, error) {
	return cborEnc.Marshal(d.vals)
}

type cborEncoder struct {
	enc *cbor.Encoder
}

func (e *cborEncoder) Encode(d *Doc) error {
	return e.enc.Encode(d)
}

type cborDecoder struct {
	dec *cbor.Decoder
}

func (d *cborDecoder) Decode() (map[string]any, error) {
	var m map[string]any
	err := d.dec.Decode(&m)

	var typeErr *cbor.UnmarshalTypeError
	switch {
	case err == nil && m == nil:
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	case err == nil:
		return m, nil
	case errors.As(err, &typeErr):
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return nil, err
	}
}

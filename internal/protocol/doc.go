// internal/protocol/doc.go
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Actions carried in the "action" key.
const (
	ActionSet     = "set"
	ActionEnable  = "enable"
	ActionDisable = "disable"
	ActionReboot  = "reboot"
	ActionEvent   = "event"
	ActionStatus  = "status"
)

// Well-known keys.
const (
	KeyAction = "action"
	KeyDevice = "device"
	KeyBright = "bright"
	KeyLED    = "led"
	KeyPIR    = "PIR"
	KeyTag    = "tag"
	KeySAK    = "sak"
	KeyUID    = "uid"
)

// Doc is a flat message object that keeps its keys in insertion order, so
// "action" always leads on the wire.
type Doc struct {
	keys []string
	vals map[string]any
}

// NewDoc starts a message with the given action.
func NewDoc(action string) *Doc {
	d := &Doc{vals: make(map[string]any)}
	return d.Set(KeyAction, action)
}

// NewObject starts a nested object without an action.
func NewObject() *Doc {
	return &Doc{vals: make(map[string]any)}
}

// Set adds or replaces key. Replacing keeps the key where it was.
func (d *Doc) Set(key string, v any) *Doc {
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
	return d
}

func (d *Doc) Get(key string) (any, bool) {
	v, ok := d.vals[key]
	return v, ok
}

// String returns the value of key if it is a string.
func (d *Doc) String(key string) string {
	s, _ := d.vals[key].(string)
	return s
}

func (d *Doc) Action() string { return d.String(KeyAction) }

func (d *Doc) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Map returns a shallow copy of the values.
func (d *Doc) Map() map[string]any {
	m := make(map[string]any, len(d.vals))
	for k, v := range d.vals {
		m[k] = v
	}
	return m
}

func (d *Doc) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(d.vals[k])
		if err != nil {
			return nil, fmt.Errorf("protocol: key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

package ordmap

import (
	"bytes"
	"encoding/gob"
)

func init() {
	// Values stored behind the any interface need concrete registrations
	// for the binary snapshot codec.
	gob.Register(&Map{})
	gob.Register([]any(nil))
	gob.Register([]string(nil))
	gob.Register([]int(nil))
	gob.Register(map[string]any(nil))
}

type gobMap struct {
	Keys []string
	Vals map[string]any
}

// GobEncode implements gob.GobEncoder, carrying the key order alongside the
// values.
func (m *Map) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(gobMap{Keys: m.keys, Vals: m.vals}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (m *Map) GobDecode(data []byte) error {
	var g gobMap
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	m.keys = g.Keys
	m.vals = g.Vals
	if m.vals == nil {
		m.vals = make(map[string]any)
	}
	return nil
}

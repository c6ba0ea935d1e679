package gen

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Manifest accumulates the persisted-operation mapping of one run: operation
// hash to canonical operation text, in insertion order. It is owned
// exclusively by the generator for the duration of a run and serialized
// exactly once, after the definitions pass has visited every executable
// document.
type Manifest struct {
	order   []string
	entries map[string]string
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Add registers a (hash, canonical text) pair. Re-adding the same hash with
// identical text is a no-op; the same hash with different text reports a
// collision.
func (m *Manifest) Add(hash, text string) error {
	if existing, ok := m.entries[hash]; ok {
		if existing == text {
			return nil
		}
		return NewGenerationError(PhaseManifest, "", fmt.Sprintf("hash collision on %q", hash), nil)
	}
	m.order = append(m.order, hash)
	m.entries[hash] = text
	return nil
}

// Len returns the number of registered operations.
func (m *Manifest) Len() int {
	return len(m.order)
}

// Hashes returns the registered hashes in insertion order.
func (m *Manifest) Hashes() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Text returns the canonical text registered under hash.
func (m *Manifest) Text(hash string) (string, bool) {
	text, ok := m.entries[hash]
	return text, ok
}

// MarshalIndentJSON serializes the manifest as a JSON object keyed by hash
// with canonical text values, in insertion order, pretty-printed with
// 2-space indentation.
func (m *Manifest) MarshalIndentJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, hash := range m.order {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		key, err := json.Marshal(hash)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.entries[hash])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	if len(m.order) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

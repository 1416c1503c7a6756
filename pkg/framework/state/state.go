// Package state persists the bridge's session settings as a small JSON
// document. Only settings the engine cannot reconstruct on its own are
// stored; continuous parameter values live in the loaded patch.
package state

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the persisted session state. Pointer fields distinguish an
// absent key from an explicit zero, so older documents missing a field
// leave the current setting untouched.
type Snapshot struct {
	Preset          *int `json:"preset,omitempty"`
	OctaveTranspose *int `json:"octave_transpose,omitempty"`
}

// Encode renders a snapshot of the given settings.
func Encode(preset, octaveTranspose int) ([]byte, error) {
	s := Snapshot{
		Preset:          &preset,
		OctaveTranspose: &octaveTranspose,
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Decode parses a previously encoded snapshot. Unknown keys are ignored
// so documents written by newer versions still restore what they can.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding state: %w", err)
	}
	return s, nil
}

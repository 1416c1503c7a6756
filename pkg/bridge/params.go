package bridge

import (
	"fmt"
	"strconv"

	"github.com/justyntemme/synthbridge/pkg/engine"
	"github.com/justyntemme/synthbridge/pkg/framework/state"
)

// Reserved keys handled by the bridge itself. Everything else resolves
// through the parameter registry rebuilt from the engine on every preset
// load.
const (
	keyState           = "state"
	keyPreset          = "preset"
	keyPresetCount     = "preset_count"
	keyPresetName      = "preset_name"
	keyName            = "name"
	keyOctaveTranspose = "octave_transpose"
	keyAllNotesOff     = "all_notes_off"
	keyUIHierarchy     = "ui_hierarchy"
	keyChainParams     = "chain_params"
)

// Get returns the string value for a key. Keys are matched exactly;
// unknown keys return an error.
func (inst *Instance) Get(key string) (string, error) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.getLocked(key)
}

func (inst *Instance) getLocked(key string) (string, error) {
	switch key {
	case keyState:
		data, err := state.Encode(inst.curPreset, inst.octave)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case keyPreset:
		return strconv.Itoa(inst.curPreset), nil
	case keyPresetCount:
		return strconv.Itoa(inst.presetCount), nil
	case keyPresetName:
		return inst.presetName, nil
	case keyName:
		return displayName, nil
	case keyOctaveTranspose:
		return strconv.Itoa(inst.octave), nil
	case keyUIHierarchy:
		return string(inst.hierarchyDoc), nil
	case keyChainParams:
		return string(inst.chainDoc), nil
	}

	entry := inst.registry.Find(key)
	if entry == nil || inst.eng == nil {
		return "", fmt.Errorf("unknown parameter %q", key)
	}
	v := inst.eng.Param01(entry.EngineID)
	if entry.Kind == engine.KindFloat {
		return fmt.Sprintf("%.4f", v), nil
	}
	return strconv.Itoa(int(v + 0.5)), nil
}

// GetInto writes the value for key into buf and returns the number of
// bytes written, or -1 when the key is unknown or buf is too small. It
// exists for hosts that preallocate the reply buffer.
func (inst *Instance) GetInto(key string, buf []byte) int {
	val, err := inst.Get(key)
	if err != nil || len(val) > len(buf) {
		return -1
	}
	return copy(buf, val)
}

// Set assigns a value to a key. Read-only keys and unparseable values are
// ignored; continuous parameters clamp to [0, 1].
func (inst *Instance) Set(key, value string) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	switch key {
	case keyState:
		inst.applyDefaults([]byte(value))
		return
	case keyPreset:
		pos, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		inst.loadPresetLocked(pos)
		return
	case keyOctaveTranspose:
		n, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		inst.octave = clampOctave(n)
		return
	case keyAllNotesOff:
		if inst.eng != nil {
			inst.eng.AllNotesOff()
		}
		return
	case keyPresetCount, keyPresetName, keyName, keyUIHierarchy, keyChainParams:
		return
	}

	entry := inst.registry.Find(key)
	if entry == nil || inst.eng == nil {
		return
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return
	}
	v := float32(f)
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	inst.eng.SetParam01(entry.EngineID, v)
}

package bridge

import (
	"go.uber.org/zap"

	"github.com/justyntemme/synthbridge/pkg/framework/param"
)

// LoadPreset switches to the preset at the given display position. Out of
// range positions are ignored. Loading a patch invalidates every engine
// parameter handle, so the registry and the parameter document are rebuilt
// afterwards.
func (inst *Instance) LoadPreset(pos int) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.loadPresetLocked(pos)
}

func (inst *Instance) loadPresetLocked(pos int) {
	if inst.eng == nil || pos < 0 || pos >= inst.presetCount {
		return
	}

	raw := pos
	if pos < len(inst.ordering) {
		raw = inst.ordering[pos]
	}
	if err := inst.eng.LoadPatch(raw); err != nil {
		inst.log.Warn("preset load failed", zap.Int("position", pos), zap.Error(err))
		return
	}

	name := inst.eng.PatchName()
	if name == "" {
		name = "Init"
	}
	name, _ = param.Truncate(name, maxPresetNameLen)

	inst.curPreset = pos
	inst.presetName = name

	inst.registry.Rebuild(inst.eng, inst.log)
	if err := inst.rebuildDocs(); err != nil {
		inst.log.Error("rebuilding parameter document", zap.Error(err))
	}
	inst.log.Info("preset loaded", zap.Int("position", pos), zap.String("name", name))
}

// CurrentPreset returns the display position of the loaded preset. An
// instance without a catalog reports position 0.
func (inst *Instance) CurrentPreset() int {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.curPreset
}

// PresetCount returns the catalog size.
func (inst *Instance) PresetCount() int {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.presetCount
}

// PresetName returns the loaded preset's display name.
func (inst *Instance) PresetName() string {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.presetName
}

// Package bridge adapts a polyphonic synthesis engine to a fixed-ABI
// plugin host: string-keyed parameter access, preset selection, raw MIDI
// input and int16 block rendering. One Instance wraps one engine; the
// host talks to it through Get, Set, OnMIDI and Render only.
package bridge

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"pipelined.dev/signal"

	"github.com/justyntemme/synthbridge/pkg/engine"
	"github.com/justyntemme/synthbridge/pkg/engine/poly"
	"github.com/justyntemme/synthbridge/pkg/framework/debug"
	"github.com/justyntemme/synthbridge/pkg/framework/param"
	"github.com/justyntemme/synthbridge/pkg/framework/schema"
	"github.com/justyntemme/synthbridge/pkg/framework/state"
	"github.com/justyntemme/synthbridge/pkg/host"
)

const (
	displayName = "Poly Synth"

	// DefaultGain scales the engine's float output before int16
	// conversion. The engine's mix runs hot, so headroom here keeps the
	// hard clip from engaging on normal material.
	DefaultGain = 0.15

	configDirName = "synth-config"
	dataDirName   = "synth-data"

	maxPresetNameLen = 63
)

// Instance is one live bridge between the host and an engine. All methods
// are safe to call from any host thread; access to the engine is
// serialized internally.
type Instance struct {
	mu  sync.Mutex
	log *zap.Logger

	caps host.Capabilities
	eng  engine.Engine

	registry *param.Registry

	hierarchyDoc []byte
	chainDoc     []byte

	curPreset   int
	presetCount int
	presetName  string
	ordering    []int

	octave int
	gain   float32

	// Conversion buffers reused across Render calls, sized to the
	// engine's block.
	fblock signal.Floating
	iblock signal.Signed

	// minimal is set when patch discovery failed and the engine came up
	// without a catalog. errMsg keeps the diagnostic from the failed
	// attempt for the host's error query.
	minimal bool
	errMsg  string
}

// New builds an instance rooted at the given directory using the built-in
// engine. defaults, when non-empty, is a previously saved state document
// applied after startup.
func New(root string, defaults []byte, caps host.Capabilities) (*Instance, error) {
	return NewWithFactory(root, defaults, caps, poly.New)
}

// NewWithFactory is New with an explicit engine factory.
func NewWithFactory(root string, defaults []byte, caps host.Capabilities, factory engine.Factory) (*Instance, error) {
	dataPath := filepath.Join(root, dataDirName)
	redirectEnv(root)

	log := debug.NewLogger(dataPath, caps.Log)

	inst := &Instance{
		log:      log,
		caps:     caps,
		registry: param.NewRegistry(),
		gain:     DefaultGain,
	}

	eng, err := factory(engine.Options{DataPath: dataPath})
	if err != nil {
		firstErr := err
		log.Warn("engine startup with patch data failed, retrying without",
			zap.String("data_path", dataPath), zap.Error(err))
		eng, err = factory(engine.Options{DataPath: dataPath, SkipPatchData: true})
		if err != nil {
			log.Error("engine startup failed", zap.Error(err))
			return nil, fmt.Errorf("starting engine: %w", err)
		}
		inst.minimal = true
		inst.errMsg = firstErr.Error()
	}
	inst.eng = eng

	eng.SetSampleRate(float64(caps.SampleRateOrDefault()))
	eng.SetTempo(120)
	eng.SetAudioActive(true)

	inst.registry.Rebuild(eng, log)
	inst.presetCount = eng.PatchCount()
	inst.ordering = eng.PatchOrdering()
	inst.presetName = "Init"
	if err := inst.rebuildDocs(); err != nil {
		return nil, err
	}

	if inst.presetCount > 0 {
		inst.loadPresetLocked(0)
	}

	if len(defaults) > 0 {
		inst.applyDefaults(defaults)
	}

	log.Info("bridge ready",
		zap.Int("params", inst.registry.Count()),
		zap.Int("presets", inst.presetCount),
		zap.Bool("minimal", inst.minimal))
	return inst, nil
}

// redirectEnv points the engine's home and data lookups inside the
// instance root so nothing the engine writes escapes it.
func redirectEnv(root string) {
	cfg := filepath.Join(root, configDirName)
	if err := os.MkdirAll(cfg, 0o755); err != nil {
		return
	}
	os.Setenv("HOME", cfg)
	os.Setenv("XDG_DATA_HOME", cfg)
}

func (inst *Instance) applyDefaults(blob []byte) {
	snap, err := state.Decode(blob)
	if err != nil {
		inst.log.Warn("ignoring malformed saved state", zap.Error(err))
		return
	}
	if snap.OctaveTranspose != nil {
		inst.octave = clampOctave(*snap.OctaveTranspose)
	}
	if snap.Preset != nil {
		inst.loadPresetLocked(*snap.Preset)
	}
}

func (inst *Instance) rebuildDocs() error {
	hier, err := schema.BuildHierarchy()
	if err != nil {
		return fmt.Errorf("building hierarchy document: %w", err)
	}
	chain, err := schema.BuildChainParams(inst.registry.All())
	if err != nil {
		return fmt.Errorf("building parameter document: %w", err)
	}
	inst.hierarchyDoc = hier
	inst.chainDoc = chain
	return nil
}

// Minimal reports whether the instance came up without a patch catalog.
func (inst *Instance) Minimal() bool {
	return inst.minimal
}

// Err returns the diagnostic from a degraded startup, or "" when the
// instance came up cleanly. Fatal failures surface as errors from New
// instead.
func (inst *Instance) Err() string {
	if inst == nil {
		return ""
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.errMsg
}

// Destroy releases the instance. It is safe to call on a nil instance and
// safe to call more than once.
func (inst *Instance) Destroy() {
	if inst == nil {
		return
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.eng == nil {
		return
	}
	inst.eng.AllNotesOff()
	inst.eng.SetAudioActive(false)
	inst.eng = nil
	inst.log.Info("bridge destroyed")
	_ = inst.log.Sync()
}

// Close implements io.Closer by destroying the instance.
func (inst *Instance) Close() error {
	inst.Destroy()
	return nil
}

func clampOctave(v int) int {
	if v < -3 {
		return -3
	}
	if v > 3 {
		return 3
	}
	return v
}

// Package engine defines the contract the bridge uses to drive a polyphonic
// synthesis engine: a typed parameter table, a patch catalog, MIDI-style
// entry points and a fixed-size block render step.
package engine

// BlockSize is the number of stereo frames one Process call renders. Host
// block sizes are expected to be a multiple of it.
const BlockSize = 32

// Scene indices within the parameter table. Parameters belong to the global
// scope or to one of two parallel scenes.
const (
	SceneGlobal = 0
	SceneA      = 1
	SceneB      = 2
)

// ParamKind classifies a parameter's value representation.
type ParamKind int

const (
	KindInt ParamKind = iota
	KindBool
	KindFloat
)

// ParamID is an opaque per-parameter handle issued by the engine. Handles
// are only meaningful to the engine that issued them and are not guaranteed
// stable across patch loads; callers must re-resolve them through LookupID
// after every LoadPatch.
type ParamID int

// ParamInfo describes one row of the engine's parameter table.
type ParamInfo struct {
	StorageName string // stable storage key, scene-prefixed (e.g. "a_filter1_cutoff")
	FullName    string // human-readable name (e.g. "Filter 1 Cutoff")
	Scene       int
	Kind        ParamKind
}

// Options configures engine construction.
type Options struct {
	// DataPath is the directory holding the engine's patch data.
	DataPath string

	// SkipPatchData constructs the engine without a patch catalog, leaving
	// it usable for raw synthesis only.
	SkipPatchData bool
}

// Factory constructs an engine. The bridge calls it once with full patch
// discovery and, if that fails, once more with SkipPatchData set.
type Factory func(Options) (Engine, error)

// Engine is the synthesis engine consumed by the bridge. Implementations
// are not required to be safe for concurrent use; the bridge serializes
// access per instance.
type Engine interface {
	SetSampleRate(rate float64)
	SetTempo(bpm float64)
	SetAudioActive(active bool)

	// ParamCount returns the size of the parameter table. ParamInfo and
	// LookupID accept indices in [0, ParamCount); LookupID reports false
	// for table rows that have no addressable identifier.
	ParamCount() int
	ParamInfo(index int) (ParamInfo, bool)
	LookupID(index int) (ParamID, bool)

	// SetParam01 and Param01 access a parameter by handle using normalized
	// values in [0, 1].
	SetParam01(id ParamID, value float32)
	Param01(id ParamID) float32

	// PatchCount returns the catalog size. PatchOrdering maps display
	// positions to raw catalog indices accepted by LoadPatch.
	PatchCount() int
	PatchOrdering() []int
	LoadPatch(raw int) error
	PatchName() string

	PlayNote(channel, note, velocity uint8)
	ReleaseNote(channel, note, velocity uint8)
	ChannelController(channel, controller, value uint8)
	PitchBend(channel uint8, bend int)
	ChannelAftertouch(channel, value uint8)
	PolyAftertouch(channel, note, value uint8)
	ProgramChange(channel, program uint8)
	AllNotesOff()

	// Process renders the next BlockSize frames into the buffers returned
	// by Output. The buffers stay valid until the next Process call.
	Process()
	Output() (left, right []float32)
}

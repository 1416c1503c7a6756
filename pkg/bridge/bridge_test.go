package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/justyntemme/synthbridge/pkg/engine"
	"github.com/justyntemme/synthbridge/pkg/host"
)

// fakeEngine records calls and mimics the handle instability of the real
// engine: parameter IDs change after every patch load.
type fakeEngine struct {
	infos      []engine.ParamInfo
	values     map[engine.ParamID]float32
	patchNames []string
	ordering   []int
	curName    string

	generation   int
	processCalls int
	noteCalls    []string
	allNotesOff  int
	fill         float32

	outL, outR []float32
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		infos: []engine.ParamInfo{
			{StorageName: "volume", FullName: "Volume", Scene: engine.SceneGlobal, Kind: engine.KindFloat},
			{StorageName: "a_osc1_pitch", FullName: "Osc 1 Pitch", Scene: engine.SceneA, Kind: engine.KindFloat},
			{StorageName: "a_osc1_type", FullName: "Osc 1 Type", Scene: engine.SceneA, Kind: engine.KindInt},
			{StorageName: "a_polymode", FullName: "Play Mode", Scene: engine.SceneA, Kind: engine.KindBool},
			{StorageName: "b_osc1_pitch", FullName: "Osc 1 Pitch", Scene: engine.SceneB, Kind: engine.KindFloat},
		},
		values:     map[engine.ParamID]float32{},
		patchNames: []string{"Warm Pad", "Analog Bass"},
		ordering:   []int{1, 0},
		curName:    "Init",
		outL:       make([]float32, engine.BlockSize),
		outR:       make([]float32, engine.BlockSize),
	}
}

func (f *fakeEngine) SetSampleRate(float64) {}
func (f *fakeEngine) SetTempo(float64)      {}
func (f *fakeEngine) SetAudioActive(bool)   {}

func (f *fakeEngine) ParamCount() int { return len(f.infos) }

func (f *fakeEngine) ParamInfo(i int) (engine.ParamInfo, bool) {
	if i < 0 || i >= len(f.infos) {
		return engine.ParamInfo{}, false
	}
	return f.infos[i], true
}

func (f *fakeEngine) LookupID(i int) (engine.ParamID, bool) {
	if i < 0 || i >= len(f.infos) {
		return 0, false
	}
	return engine.ParamID(f.generation*1000 + i), true
}

func (f *fakeEngine) SetParam01(id engine.ParamID, v float32) { f.values[id] = v }
func (f *fakeEngine) Param01(id engine.ParamID) float32       { return f.values[id] }

func (f *fakeEngine) PatchCount() int      { return len(f.patchNames) }
func (f *fakeEngine) PatchOrdering() []int { return f.ordering }

func (f *fakeEngine) LoadPatch(raw int) error {
	if raw < 0 || raw >= len(f.patchNames) {
		return fmt.Errorf("patch %d out of range", raw)
	}
	f.curName = f.patchNames[raw]
	f.generation++
	return nil
}

func (f *fakeEngine) PatchName() string { return f.curName }

func (f *fakeEngine) PlayNote(ch, note, vel uint8) {
	f.noteCalls = append(f.noteCalls, fmt.Sprintf("on %d %d", note, vel))
}

func (f *fakeEngine) ReleaseNote(ch, note, vel uint8) {
	f.noteCalls = append(f.noteCalls, fmt.Sprintf("off %d %d", note, vel))
}

func (f *fakeEngine) ChannelController(ch, ctrl, val uint8) {
	f.noteCalls = append(f.noteCalls, fmt.Sprintf("cc %d %d", ctrl, val))
}

func (f *fakeEngine) PitchBend(ch uint8, bend int) {
	f.noteCalls = append(f.noteCalls, fmt.Sprintf("bend %d", bend))
}

func (f *fakeEngine) ChannelAftertouch(ch, val uint8) {
	f.noteCalls = append(f.noteCalls, fmt.Sprintf("at %d", val))
}

func (f *fakeEngine) PolyAftertouch(ch, note, val uint8) {
	f.noteCalls = append(f.noteCalls, fmt.Sprintf("polyat %d %d", note, val))
}

func (f *fakeEngine) ProgramChange(ch, prog uint8) {
	f.noteCalls = append(f.noteCalls, fmt.Sprintf("pc %d", prog))
}

func (f *fakeEngine) AllNotesOff() { f.allNotesOff++ }

func (f *fakeEngine) Process() {
	f.processCalls++
	for i := range f.outL {
		f.outL[i] = f.fill
		f.outR[i] = f.fill
	}
}

func (f *fakeEngine) Output() ([]float32, []float32) { return f.outL, f.outR }

func newTestInstance(t *testing.T) (*Instance, *fakeEngine) {
	t.Helper()
	fake := newFakeEngine()
	inst, err := NewWithFactory(t.TempDir(), nil, host.Capabilities{}, func(engine.Options) (engine.Engine, error) {
		return fake, nil
	})
	if err != nil {
		t.Fatalf("NewWithFactory failed: %v", err)
	}
	return inst, fake
}

func TestNewLoadsFirstPreset(t *testing.T) {
	inst, fake := newTestInstance(t)

	if inst.CurrentPreset() != 0 {
		t.Errorf("expected preset 0 loaded, got %d", inst.CurrentPreset())
	}
	// Display position 0 maps through the ordering to raw index 1.
	if fake.curName != "Analog Bass" {
		t.Errorf("ordering not applied, loaded %q", fake.curName)
	}
	if inst.PresetName() != "Analog Bass" {
		t.Errorf("preset name not tracked: %q", inst.PresetName())
	}
}

func TestNewMinimalFallback(t *testing.T) {
	fake := newFakeEngine()
	fake.patchNames = nil
	fake.ordering = nil
	calls := 0
	inst, err := NewWithFactory(t.TempDir(), nil, host.Capabilities{}, func(opts engine.Options) (engine.Engine, error) {
		calls++
		if !opts.SkipPatchData {
			return nil, errors.New("patch scan failed")
		}
		return fake, nil
	})
	if err != nil {
		t.Fatalf("fallback construction failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected full then minimal attempt, got %d calls", calls)
	}
	if !inst.Minimal() {
		t.Errorf("instance should report minimal mode")
	}
	if inst.PresetCount() != 0 {
		t.Errorf("minimal instance should have no presets")
	}
	if got, _ := inst.Get("preset"); got != "0" {
		t.Errorf("empty catalog should report preset 0, got %q", got)
	}
	if !strings.Contains(inst.Err(), "patch scan failed") {
		t.Errorf("degraded diagnostic not recorded: %q", inst.Err())
	}

	clean, _ := newTestInstance(t)
	if clean.Err() != "" {
		t.Errorf("clean instance should have no error, got %q", clean.Err())
	}
}

func TestNewBothAttemptsFail(t *testing.T) {
	_, err := NewWithFactory(t.TempDir(), nil, host.Capabilities{}, func(engine.Options) (engine.Engine, error) {
		return nil, errors.New("no dice")
	})
	if err == nil {
		t.Fatalf("expected error when both attempts fail")
	}
}

func TestDestroyNilAndTwice(t *testing.T) {
	var nilInst *Instance
	nilInst.Destroy()

	inst, fake := newTestInstance(t)
	inst.Destroy()
	inst.Destroy()
	if fake.allNotesOff != 1 {
		t.Errorf("destroy should silence the engine exactly once, got %d", fake.allNotesOff)
	}
}

func TestPresetSetAndGet(t *testing.T) {
	inst, _ := newTestInstance(t)

	inst.Set("preset", "1")
	if got, _ := inst.Get("preset"); got != "1" {
		t.Errorf("preset not switched: %q", got)
	}
	if name, _ := inst.Get("preset_name"); name != "Warm Pad" {
		t.Errorf("preset name wrong: %q", name)
	}

	// Out of range and unparseable selections leave the preset alone.
	inst.Set("preset", "99")
	inst.Set("preset", "-1")
	inst.Set("preset", "two")
	if got, _ := inst.Get("preset"); got != "1" {
		t.Errorf("invalid selection should be ignored, got %q", got)
	}
}

func TestOctaveTransposeClamped(t *testing.T) {
	inst, _ := newTestInstance(t)

	cases := map[string]string{"5": "3", "-9": "-3", "2": "2", "0": "0"}
	for in, want := range cases {
		inst.Set("octave_transpose", in)
		if got, _ := inst.Get("octave_transpose"); got != want {
			t.Errorf("octave_transpose %q: got %q, want %q", in, got, want)
		}
	}

	inst.Set("octave_transpose", "0")
	inst.Set("octave_transpose", "garbage")
	if got, _ := inst.Get("octave_transpose"); got != "0" {
		t.Errorf("unparseable transpose should be ignored, got %q", got)
	}
}

func TestContinuousParamRoundTrip(t *testing.T) {
	inst, _ := newTestInstance(t)

	inst.Set("osc1_pitch", "0.25")
	if got, _ := inst.Get("osc1_pitch"); got != "0.2500" {
		t.Errorf("float round trip: got %q", got)
	}

	inst.Set("osc1_pitch", "1.7")
	if got, _ := inst.Get("osc1_pitch"); got != "1.0000" {
		t.Errorf("value should clamp high: got %q", got)
	}
	inst.Set("osc1_pitch", "-0.3")
	if got, _ := inst.Get("osc1_pitch"); got != "0.0000" {
		t.Errorf("value should clamp low: got %q", got)
	}

	inst.Set("osc1_type", "0.9")
	if got, _ := inst.Get("osc1_type"); got != "1" {
		t.Errorf("int param should round: got %q", got)
	}

	inst.Set("polymode", "not a number")
	if got, _ := inst.Get("polymode"); got != "0" {
		t.Errorf("unparseable value should leave param alone: got %q", got)
	}
}

func TestUnknownKeys(t *testing.T) {
	inst, _ := newTestInstance(t)

	if _, err := inst.Get("no_such_key"); err == nil {
		t.Errorf("unknown key should error")
	}
	// Scene B and global rows never enter the registry.
	if _, err := inst.Get("b_osc1_pitch"); err == nil {
		t.Errorf("scene B key should be invisible")
	}
	if _, err := inst.Get("volume"); err == nil {
		t.Errorf("global key should be invisible")
	}
	// Matching is exact.
	if _, err := inst.Get("OSC1_PITCH"); err == nil {
		t.Errorf("key matching should be case sensitive")
	}

	inst.Set("no_such_key", "0.5") // no panic, no effect

	if n := inst.GetInto("no_such_key", make([]byte, 64)); n != -1 {
		t.Errorf("GetInto unknown key: got %d, want -1", n)
	}
	if n := inst.GetInto("preset_name", make([]byte, 2)); n != -1 {
		t.Errorf("GetInto short buffer: got %d, want -1", n)
	}
	buf := make([]byte, 64)
	n := inst.GetInto("name", buf)
	if n <= 0 || string(buf[:n]) != "Poly Synth" {
		t.Errorf("GetInto name: got %d %q", n, buf[:n])
	}
}

func TestChainParamsDocument(t *testing.T) {
	inst, _ := newTestInstance(t)

	raw, err := inst.Get("chain_params")
	if err != nil {
		t.Fatalf("chain_params: %v", err)
	}
	var rows []struct {
		Key  string `json:"key"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		t.Fatalf("chain_params not valid JSON: %v", err)
	}
	// Two pseudo-params plus the three scene A entries.
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0].Key != "preset" || rows[1].Key != "octave_transpose" {
		t.Errorf("pseudo-params must come first: %v %v", rows[0], rows[1])
	}
	for _, r := range rows[2:] {
		if strings.HasPrefix(r.Key, "a_") {
			t.Errorf("scene prefix should be stripped: %q", r.Key)
		}
	}
}

func TestHierarchyDocument(t *testing.T) {
	inst, _ := newTestInstance(t)

	raw, err := inst.Get("ui_hierarchy")
	if err != nil {
		t.Fatalf("ui_hierarchy: %v", err)
	}
	var doc struct {
		Levels map[string]json.RawMessage `json:"levels"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("ui_hierarchy not valid JSON: %v", err)
	}
	if _, ok := doc.Levels["root"]; !ok {
		t.Errorf("hierarchy missing root level")
	}
}

func TestStateRoundTrip(t *testing.T) {
	inst, _ := newTestInstance(t)
	inst.Set("preset", "1")
	inst.Set("octave_transpose", "-2")

	blob, err := inst.Get("state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}

	fake2 := newFakeEngine()
	inst2, err := NewWithFactory(t.TempDir(), []byte(blob), host.Capabilities{}, func(engine.Options) (engine.Engine, error) {
		return fake2, nil
	})
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if got, _ := inst2.Get("preset"); got != "1" {
		t.Errorf("preset not restored: %q", got)
	}
	if got, _ := inst2.Get("octave_transpose"); got != "-2" {
		t.Errorf("octave not restored: %q", got)
	}
}

func TestAllNotesOffKey(t *testing.T) {
	inst, fake := newTestInstance(t)
	before := fake.allNotesOff
	inst.Set("all_notes_off", "1")
	if fake.allNotesOff != before+1 {
		t.Errorf("all_notes_off key should reach the engine")
	}
}

func TestReadOnlyKeysIgnored(t *testing.T) {
	inst, _ := newTestInstance(t)
	inst.Set("name", "Other")
	inst.Set("preset_count", "17")
	inst.Set("preset_name", "Hacked")

	if got, _ := inst.Get("name"); got != "Poly Synth" {
		t.Errorf("name should be fixed, got %q", got)
	}
	if got, _ := inst.Get("preset_count"); got != "2" {
		t.Errorf("preset_count should be fixed, got %q", got)
	}
}

func TestRegistryRebuiltAfterPresetLoad(t *testing.T) {
	inst, fake := newTestInstance(t)

	gen := fake.generation
	inst.Set("osc1_pitch", "0.75")
	inst.Set("preset", "1")
	if fake.generation == gen {
		t.Fatalf("preset load should have bumped the handle generation")
	}

	// The key still resolves after the reload even though every engine
	// handle changed.
	inst.Set("osc1_pitch", "0.5")
	if got, _ := inst.Get("osc1_pitch"); got != "0.5000" {
		t.Errorf("key should resolve against fresh handles, got %q", got)
	}
}

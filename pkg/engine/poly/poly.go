// Package poly implements a self-contained polyphonic synthesis engine
// behind the engine facade: 16 voices with per-voice oscillator and
// amplitude envelope, a two-scene parameter table and a JSON patch bank.
package poly

import (
	"fmt"

	"github.com/justyntemme/synthbridge/pkg/dsp/oscillator"
	"github.com/justyntemme/synthbridge/pkg/engine"
	"github.com/justyntemme/synthbridge/pkg/framework/voice"
	"github.com/justyntemme/synthbridge/pkg/midi"
)

const voiceCount = 16

// Engine implements engine.Engine.
type Engine struct {
	rows        []tableRow
	values      []float32
	indexByName map[string]int

	patches   []patch
	ordering  []int
	patchName string

	sampleRate  float64
	tempo       float64
	audioActive bool

	queue    *midi.Queue
	voices   []voice.Voice
	concrete []*synthVoice
	alloc    *voice.Allocator

	scratch []float32
	out     [2][]float32
}

var _ engine.Engine = (*Engine)(nil)

// New constructs the engine. With Options.SkipPatchData unset the patch
// bank under Options.DataPath must load, otherwise construction fails (the
// caller may retry with SkipPatchData for raw synthesis without presets).
func New(opts engine.Options) (engine.Engine, error) {
	rows := buildTable()
	e := &Engine{
		rows:        rows,
		values:      make([]float32, len(rows)),
		indexByName: make(map[string]int, len(rows)),
		tempo:       120,
		queue:       midi.NewQueue(),
		scratch:     make([]float32, engine.BlockSize),
	}
	e.out[0] = make([]float32, engine.BlockSize)
	e.out[1] = make([]float32, engine.BlockSize)

	for i, row := range rows {
		e.values[i] = row.def
		e.indexByName[row.info.StorageName] = i
	}

	if !opts.SkipPatchData {
		patches, err := loadBank(opts.DataPath)
		if err != nil {
			return nil, err
		}
		e.patches = patches
		e.ordering = displayOrdering(patches)
	}

	e.SetSampleRate(44100)
	return e, nil
}

// SetSampleRate rebuilds the voice pool for the new rate. All playing
// notes stop.
func (e *Engine) SetSampleRate(rate float64) {
	if rate <= 0 {
		rate = 44100
	}
	e.sampleRate = rate
	e.voices, e.concrete = createVoices(voiceCount, rate)
	e.alloc = voice.NewAllocator(e.voices)
	e.applyVoiceControls()
}

func (e *Engine) SetTempo(bpm float64) {
	if bpm > 0 {
		e.tempo = bpm
	}
}

func (e *Engine) SetAudioActive(active bool) {
	e.audioActive = active
	if !active {
		e.alloc.Reset()
	}
}

func (e *Engine) ParamCount() int {
	return len(e.rows)
}

func (e *Engine) ParamInfo(index int) (engine.ParamInfo, bool) {
	if index < 0 || index >= len(e.rows) {
		return engine.ParamInfo{}, false
	}
	return e.rows[index].info, true
}

func (e *Engine) LookupID(index int) (engine.ParamID, bool) {
	if index < 0 || index >= len(e.rows) || !e.rows[index].addressable {
		return 0, false
	}
	return engine.ParamID(index), true
}

func (e *Engine) SetParam01(id engine.ParamID, value float32) {
	idx := int(id)
	if idx < 0 || idx >= len(e.values) {
		return
	}
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	e.values[idx] = value
	e.applyVoiceControls()
}

func (e *Engine) Param01(id engine.ParamID) float32 {
	idx := int(id)
	if idx < 0 || idx >= len(e.values) {
		return 0
	}
	return e.values[idx]
}

func (e *Engine) PatchCount() int {
	return len(e.patches)
}

func (e *Engine) PatchOrdering() []int {
	return e.ordering
}

// LoadPatch resets the table to defaults and applies the patch values on
// top. Storage names the table does not know are ignored.
func (e *Engine) LoadPatch(raw int) error {
	if raw < 0 || raw >= len(e.patches) {
		return fmt.Errorf("patch index %d out of range", raw)
	}

	for i, row := range e.rows {
		e.values[i] = row.def
	}
	p := e.patches[raw]
	for name, v := range p.Values {
		if idx, ok := e.indexByName[name]; ok {
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			e.values[idx] = v
		}
	}
	e.patchName = p.Name
	e.applyVoiceControls()
	return nil
}

func (e *Engine) PatchName() string {
	return e.patchName
}

func (e *Engine) PlayNote(channel, note, velocity uint8) {
	e.queue.Add(midi.NoteOnEvent{
		BaseEvent: midi.BaseEvent{EventChannel: channel},
		Note:      note,
		Velocity:  velocity,
	})
}

func (e *Engine) ReleaseNote(channel, note, velocity uint8) {
	e.queue.Add(midi.NoteOffEvent{
		BaseEvent: midi.BaseEvent{EventChannel: channel},
		Note:      note,
		Velocity:  velocity,
	})
}

func (e *Engine) ChannelController(channel, controller, value uint8) {
	e.queue.Add(midi.ControlChangeEvent{
		BaseEvent:  midi.BaseEvent{EventChannel: channel},
		Controller: controller,
		Value:      value,
	})
}

func (e *Engine) PitchBend(channel uint8, bend int) {
	if bend < -8192 {
		bend = -8192
	} else if bend > 8191 {
		bend = 8191
	}
	e.queue.Add(midi.PitchBendEvent{
		BaseEvent: midi.BaseEvent{EventChannel: channel},
		Value:     int16(bend),
	})
}

func (e *Engine) ChannelAftertouch(channel, value uint8) {
	e.queue.Add(midi.ChannelPressureEvent{
		BaseEvent: midi.BaseEvent{EventChannel: channel},
		Pressure:  value,
	})
}

func (e *Engine) PolyAftertouch(channel, note, value uint8) {
	e.queue.Add(midi.PolyPressureEvent{
		BaseEvent: midi.BaseEvent{EventChannel: channel},
		Note:      note,
		Pressure:  value,
	})
}

func (e *Engine) ProgramChange(channel, program uint8) {
	e.queue.Add(midi.ProgramChangeEvent{
		BaseEvent: midi.BaseEvent{EventChannel: channel},
		Program:   program,
	})
}

func (e *Engine) AllNotesOff() {
	e.queue.Clear()
	e.alloc.Reset()
}

// Process renders the next block. Queued events are applied first, so an
// event delivered between blocks takes effect at the following block start.
func (e *Engine) Process() {
	for i := 0; i < engine.BlockSize; i++ {
		e.out[0][i] = 0
		e.out[1][i] = 0
	}
	if !e.audioActive {
		e.queue.Clear()
		return
	}

	e.queue.Drain(e.applyEvent)

	sceneVol := e.value("a_volume")
	for _, v := range e.concrete {
		if !v.IsActive() {
			continue
		}
		v.Process(e.scratch)
		for i := 0; i < engine.BlockSize; i++ {
			s := e.scratch[i] * sceneVol
			e.out[0][i] += s
			e.out[1][i] += s
		}
	}
}

func (e *Engine) Output() (left, right []float32) {
	return e.out[0], e.out[1]
}

func (e *Engine) applyEvent(ev midi.Event) {
	switch m := ev.(type) {
	case midi.PitchBendEvent:
		// Bend range follows the scene's pbrange settings, in whole
		// semitone steps up to 12.
		var rng float64
		if m.Value >= 0 {
			rng = float64(int(e.value("a_pbrange_up")*12 + 0.5))
		} else {
			rng = float64(int(e.value("a_pbrange_dn")*12 + 0.5))
		}
		semis := m.NormalizedValue() * rng
		for _, v := range e.concrete {
			v.setBend(semis)
		}
	case midi.ProgramChangeEvent:
		if int(m.Program) < len(e.patches) {
			_ = e.LoadPatch(int(m.Program))
		}
	case midi.ChannelPressureEvent, midi.PolyPressureEvent:
		// Accepted but unmapped; no modulation target yet.
	default:
		e.alloc.ProcessEvent(ev)
	}
}

// value reads a parameter by storage name; unknown names read as zero.
func (e *Engine) value(storageName string) float32 {
	if idx, ok := e.indexByName[storageName]; ok {
		return e.values[idx]
	}
	return 0
}

// applyVoiceControls pushes the subset of scene A parameters the voices
// react to: amp envelope, oscillator 1 shape and play mode.
func (e *Engine) applyVoiceControls() {
	attack := float64(e.value("a_env1_attack")) * 2.0
	decay := float64(e.value("a_env1_decay")) * 2.0
	sustain := float64(e.value("a_env1_sustain"))
	release := float64(e.value("a_env1_release")) * 5.0

	shape := oscillator.Shape(int(e.value("a_osc1_type")*3 + 0.5))
	for _, v := range e.concrete {
		v.setADSR(attack, decay, sustain, release)
		v.setShape(shape)
	}

	if e.value("a_polymode") >= 0.5 {
		e.alloc.SetMode(voice.ModeMono)
	} else {
		e.alloc.SetMode(voice.ModePoly)
	}
}

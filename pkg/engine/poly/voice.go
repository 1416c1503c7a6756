package poly

import (
	"math"

	"github.com/justyntemme/synthbridge/pkg/dsp/envelope"
	"github.com/justyntemme/synthbridge/pkg/dsp/oscillator"
	"github.com/justyntemme/synthbridge/pkg/framework/voice"
	"github.com/justyntemme/synthbridge/pkg/midi"
)

// synthVoice is one voice of the engine: a single oscillator through an
// amplitude envelope.
type synthVoice struct {
	osc    *oscillator.Oscillator
	ampEnv *envelope.ADSR
	shape  oscillator.Shape

	note      uint8
	velocity  uint8
	frequency float64
	amplitude float64
	bendSemis float64
	active    bool
	age       int64
}

func newSynthVoice(sampleRate float64) *synthVoice {
	return &synthVoice{
		osc:    oscillator.New(sampleRate),
		ampEnv: envelope.New(sampleRate),
	}
}

func (v *synthVoice) IsActive() bool     { return v.active }
func (v *synthVoice) Note() uint8        { return v.note }
func (v *synthVoice) Velocity() uint8    { return v.velocity }
func (v *synthVoice) Amplitude() float64 { return v.amplitude }
func (v *synthVoice) Age() int64         { return v.age }

func (v *synthVoice) TriggerNote(note, velocity uint8) {
	v.note = note
	v.velocity = velocity
	v.frequency = midi.NoteToFrequency(note, 440.0)
	v.amplitude = float64(velocity) / 127.0
	v.active = true
	v.age = 0

	v.updateFrequency()
	v.ampEnv.Trigger()
}

func (v *synthVoice) ReleaseNote() {
	v.ampEnv.Release()
}

func (v *synthVoice) Stop() {
	v.active = false
	v.ampEnv.Reset()
	v.osc.Reset()
	v.note = 0
	v.age = 0
}

func (v *synthVoice) Process(output []float32) {
	if !v.active {
		for i := range output {
			output[i] = 0
		}
		return
	}

	for i := range output {
		sample := v.osc.Next(v.shape)
		sample *= float32(v.amplitude) * v.ampEnv.Next()
		output[i] = sample
		v.age++

		if v.ampEnv.CurrentStage() == envelope.StageIdle {
			v.active = false
			for j := i + 1; j < len(output); j++ {
				output[j] = 0
			}
			return
		}
	}
}

func (v *synthVoice) setADSR(attack, decay, sustain, release float64) {
	v.ampEnv.SetADSR(attack, decay, sustain, release)
}

func (v *synthVoice) setShape(shape oscillator.Shape) {
	v.shape = shape
}

// setBend applies a pitch bend in semitones to the playing frequency.
func (v *synthVoice) setBend(semis float64) {
	v.bendSemis = semis
	v.updateFrequency()
}

func (v *synthVoice) updateFrequency() {
	v.osc.SetFrequency(v.frequency * math.Pow(2, v.bendSemis/12.0))
}

func createVoices(count int, sampleRate float64) ([]voice.Voice, []*synthVoice) {
	voices := make([]voice.Voice, count)
	concrete := make([]*synthVoice, count)
	for i := range voices {
		sv := newSynthVoice(sampleRate)
		concrete[i] = sv
		voices[i] = sv
	}
	return voices, concrete
}

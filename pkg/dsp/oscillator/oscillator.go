// Package oscillator provides audio oscillators for synthesis
package oscillator

import "math"

// Shape selects the generated waveform
type Shape int

const (
	ShapeSine Shape = iota
	ShapeSaw
	ShapeSquare
	ShapeTriangle
)

// Oscillator generates periodic waveforms with a phase accumulator
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64
	phaseInc   float64
}

// New creates a new oscillator
func New(sampleRate float64) *Oscillator {
	return &Oscillator{
		sampleRate: sampleRate,
		frequency:  440.0,
		phaseInc:   440.0 / sampleRate,
	}
}

// SetFrequency sets the oscillator frequency in Hz
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = freq
	o.phaseInc = freq / o.sampleRate
}

// Reset resets the oscillator phase to 0
func (o *Oscillator) Reset() {
	o.phase = 0.0
}

func (o *Oscillator) updatePhase() {
	o.phase += o.phaseInc
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
}

// Next generates one sample of the selected waveform
func (o *Oscillator) Next(shape Shape) float32 {
	var sample float32
	switch shape {
	case ShapeSaw:
		sample = float32(2.0*o.phase - 1.0)
	case ShapeSquare:
		if o.phase < 0.5 {
			sample = 1.0
		} else {
			sample = -1.0
		}
	case ShapeTriangle:
		if o.phase < 0.5 {
			sample = float32(4.0*o.phase - 1.0)
		} else {
			sample = float32(3.0 - 4.0*o.phase)
		}
	default:
		sample = float32(math.Sin(2.0 * math.Pi * o.phase))
	}
	o.updatePhase()
	return sample
}

// Package host describes the fixed contract the embedding host exposes to
// a bridge instance. The host owns the audio clock and the MIDI transport;
// the bridge adapts the engine's native block size to the host's.
package host

import "github.com/justyntemme/synthbridge/pkg/midi"

const (
	// DefaultSampleRate is the rate every known host runs at.
	DefaultSampleRate = 44100

	// DefaultFramesPerBlock is the host's render quantum. The engine's
	// native block is smaller, so the bridge renders several engine
	// blocks per host block.
	DefaultFramesPerBlock = 128
)

// Capabilities carries the host-provided callbacks and format constants a
// bridge instance needs. Zero-value fields fall back to defaults where a
// default exists; nil callbacks disable the corresponding feature.
type Capabilities struct {
	// SampleRate in Hz. Zero means DefaultSampleRate.
	SampleRate int

	// FramesPerBlock is the number of stereo frames per Render call.
	// Zero means DefaultFramesPerBlock.
	FramesPerBlock int

	// Log forwards a line to the host's own log sink, if it has one.
	Log func(msg string)

	// SendMIDI emits a raw MIDI message back to the host, tagged with
	// its origin.
	SendMIDI func(msg []byte, src midi.Source) error
}

// SampleRateOrDefault returns the configured rate or the default.
func (c Capabilities) SampleRateOrDefault() int {
	if c.SampleRate > 0 {
		return c.SampleRate
	}
	return DefaultSampleRate
}

// FramesPerBlockOrDefault returns the configured block size or the default.
func (c Capabilities) FramesPerBlockOrDefault() int {
	if c.FramesPerBlock > 0 {
		return c.FramesPerBlock
	}
	return DefaultFramesPerBlock
}

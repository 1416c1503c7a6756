package bridge

import "github.com/justyntemme/synthbridge/pkg/midi"

// OnMIDI decodes one raw MIDI message and forwards it to the engine.
// Octave transpose shifts note events only; all other message types pass
// through unchanged. Undecodable messages are dropped.
func (inst *Instance) OnMIDI(msg []byte, src midi.Source) {
	ev, ok := midi.Decode(msg, src)
	if !ok {
		return
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.eng == nil {
		return
	}

	shift := inst.octave * 12

	switch e := ev.(type) {
	case midi.NoteOnEvent:
		inst.eng.PlayNote(e.Channel(), transposeNote(e.Note, shift), e.Velocity)
	case midi.NoteOffEvent:
		inst.eng.ReleaseNote(e.Channel(), transposeNote(e.Note, shift), e.Velocity)
	case midi.ControlChangeEvent:
		inst.eng.ChannelController(e.Channel(), e.Controller, e.Value)
	case midi.PitchBendEvent:
		inst.eng.PitchBend(e.Channel(), int(e.Value))
	case midi.ChannelPressureEvent:
		inst.eng.ChannelAftertouch(e.Channel(), e.Pressure)
	case midi.PolyPressureEvent:
		inst.eng.PolyAftertouch(e.Channel(), e.Note, e.Pressure)
	case midi.ProgramChangeEvent:
		inst.eng.ProgramChange(e.Channel(), e.Program)
	}
}

func transposeNote(note uint8, shift int) uint8 {
	n := int(note) + shift
	if n < 0 {
		n = 0
	} else if n > 127 {
		n = 127
	}
	return uint8(n)
}

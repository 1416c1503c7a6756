// Package midi provides typed MIDI events and raw channel-message decoding.
package midi

import (
	"fmt"
	"math"
)

// Source identifies where a raw MIDI message originated. The values match
// the host ABI's source tags.
type Source int

const (
	SourceInternal Source = 0
	SourceExternal Source = 2
)

func (s Source) String() string {
	switch s {
	case SourceInternal:
		return "internal"
	case SourceExternal:
		return "external"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypePolyPressure
	EventTypeControlChange
	EventTypeProgramChange
	EventTypeChannelPressure
	EventTypePitchBend
)

type Event interface {
	Type() EventType
	Channel() uint8
	Source() Source
	String() string
}

type BaseEvent struct {
	EventChannel uint8
	Origin       Source
}

func (e BaseEvent) Channel() uint8 {
	return e.EventChannel
}

func (e BaseEvent) Source() Source {
	return e.Origin
}

type NoteOnEvent struct {
	BaseEvent
	Note     uint8
	Velocity uint8
}

func (e NoteOnEvent) Type() EventType {
	return EventTypeNoteOn
}

func (e NoteOnEvent) String() string {
	return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d}", e.EventChannel, e.Note, e.Velocity)
}

type NoteOffEvent struct {
	BaseEvent
	Note     uint8
	Velocity uint8
}

func (e NoteOffEvent) Type() EventType {
	return EventTypeNoteOff
}

func (e NoteOffEvent) String() string {
	return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:%d}", e.EventChannel, e.Note, e.Velocity)
}

type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      uint8
}

func (e ControlChangeEvent) Type() EventType {
	return EventTypeControlChange
}

func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d}", e.EventChannel, e.Controller, e.Value)
}

// Common controller numbers.
const (
	CCModWheel    uint8 = 1
	CCVolume      uint8 = 7
	CCPan         uint8 = 10
	CCExpression  uint8 = 11
	CCSustain     uint8 = 64
	CCAllSoundOff uint8 = 120
	CCAllNotesOff uint8 = 123
)

type PitchBendEvent struct {
	BaseEvent
	Value int16 // -8192 to 8191, 0 is center
}

func (e PitchBendEvent) Type() EventType {
	return EventTypePitchBend
}

func (e PitchBendEvent) String() string {
	return fmt.Sprintf("PitchBend{ch:%d, val:%d}", e.EventChannel, e.Value)
}

func (e PitchBendEvent) NormalizedValue() float64 {
	return float64(e.Value) / 8192.0
}

type PolyPressureEvent struct {
	BaseEvent
	Note     uint8
	Pressure uint8
}

func (e PolyPressureEvent) Type() EventType {
	return EventTypePolyPressure
}

func (e PolyPressureEvent) String() string {
	return fmt.Sprintf("PolyPressure{ch:%d, note:%d, pressure:%d}", e.EventChannel, e.Note, e.Pressure)
}

type ChannelPressureEvent struct {
	BaseEvent
	Pressure uint8
}

func (e ChannelPressureEvent) Type() EventType {
	return EventTypeChannelPressure
}

func (e ChannelPressureEvent) String() string {
	return fmt.Sprintf("ChannelPressure{ch:%d, pressure:%d}", e.EventChannel, e.Pressure)
}

type ProgramChangeEvent struct {
	BaseEvent
	Program uint8
}

func (e ProgramChangeEvent) Type() EventType {
	return EventTypeProgramChange
}

func (e ProgramChangeEvent) String() string {
	return fmt.Sprintf("ProgramChange{ch:%d, prog:%d}", e.EventChannel, e.Program)
}

// Decode parses one raw channel message into a typed event. Messages shorter
// than two bytes and unknown status nibbles yield (nil, false). A note-on
// with velocity zero decodes as a note-off, per running-status convention.
func Decode(msg []byte, src Source) (Event, bool) {
	if len(msg) < 2 {
		return nil, false
	}

	status := msg[0] & 0xF0
	base := BaseEvent{EventChannel: msg[0] & 0x0F, Origin: src}
	data1 := msg[1]
	var data2 uint8
	if len(msg) > 2 {
		data2 = msg[2]
	}

	switch status {
	case 0x90:
		if data2 > 0 {
			return NoteOnEvent{BaseEvent: base, Note: data1, Velocity: data2}, true
		}
		return NoteOffEvent{BaseEvent: base, Note: data1, Velocity: 0}, true
	case 0x80:
		return NoteOffEvent{BaseEvent: base, Note: data1, Velocity: data2}, true
	case 0xB0:
		return ControlChangeEvent{BaseEvent: base, Controller: data1, Value: data2}, true
	case 0xE0:
		bend := int16(uint16(data2)<<7|uint16(data1)) - 8192
		return PitchBendEvent{BaseEvent: base, Value: bend}, true
	case 0xD0:
		return ChannelPressureEvent{BaseEvent: base, Pressure: data1}, true
	case 0xA0:
		return PolyPressureEvent{BaseEvent: base, Note: data1, Pressure: data2}, true
	case 0xC0:
		return ProgramChangeEvent{BaseEvent: base, Program: data1}, true
	}
	return nil, false
}

// NoteToFrequency converts a MIDI note number to a frequency in Hz using
// equal temperament around the given A4 tuning.
func NoteToFrequency(note uint8, tuningA4 float64) float64 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	return tuningA4 * math.Pow(2, (float64(note)-69.0)/12.0)
}

// NoteNumberToName returns the conventional name for a note number, e.g. 60 -> "C4".
func NoteNumberToName(note uint8) string {
	noteNames := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	octave := int(note/12) - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}

// Package voice provides voice allocation for polyphonic synthesis.
package voice

import (
	"github.com/justyntemme/synthbridge/pkg/midi"
)

// AllocationMode defines how voices are allocated
type AllocationMode int

const (
	// ModePoly gives each note its own voice
	ModePoly AllocationMode = iota
	// ModeMono keeps a single voice active at a time
	ModeMono
)

// StealingMode defines how voices are stolen when all are in use
type StealingMode int

const (
	// StealOldest steals the oldest playing voice
	StealOldest StealingMode = iota
	// StealQuietest steals the voice with lowest amplitude
	StealQuietest
	// StealNone ignores new notes when all voices are busy
	StealNone
)

// Voice is a single voice in the synthesizer
type Voice interface {
	IsActive() bool
	Note() uint8
	Velocity() uint8
	// Amplitude returns the current output level, used by StealQuietest
	Amplitude() float64
	// Age returns how long the voice has been playing, in samples
	Age() int64
	TriggerNote(note, velocity uint8)
	ReleaseNote()
	// Stop silences the voice immediately, without a release stage
	Stop()
	Process(output []float32)
}

// Allocator assigns incoming notes to voices
type Allocator struct {
	voices         []Voice
	mode           AllocationMode
	stealingMode   StealingMode
	noteToVoice    map[uint8]int
	lastTriggered  int
	sustainPedal   bool
	sustainedNotes map[uint8]bool
	currentNote    uint8
}

// NewAllocator creates an allocator over the given voices
func NewAllocator(voices []Voice) *Allocator {
	return &Allocator{
		voices:         voices,
		mode:           ModePoly,
		stealingMode:   StealOldest,
		noteToVoice:    make(map[uint8]int),
		sustainedNotes: make(map[uint8]bool),
	}
}

// SetMode sets the allocation mode and resets all voices
func (a *Allocator) SetMode(mode AllocationMode) {
	if mode == a.mode {
		return
	}
	a.mode = mode
	a.Reset()
}

// SetStealingMode sets the voice stealing mode
func (a *Allocator) SetStealingMode(mode StealingMode) {
	a.stealingMode = mode
}

// ProcessEvent handles a MIDI event
func (a *Allocator) ProcessEvent(event midi.Event) {
	switch e := event.(type) {
	case midi.NoteOnEvent:
		a.NoteOn(e.Note, e.Velocity)
	case midi.NoteOffEvent:
		a.NoteOff(e.Note, e.Velocity)
	case midi.ControlChangeEvent:
		if e.Controller == midi.CCSustain {
			a.SetSustainPedal(e.Value >= 64)
		}
	}
}

// NoteOn triggers a note
func (a *Allocator) NoteOn(note, velocity uint8) {
	if velocity == 0 {
		a.NoteOff(note, 0)
		return
	}
	switch a.mode {
	case ModePoly:
		a.noteOnPoly(note, velocity)
	case ModeMono:
		a.noteOnMono(note, velocity)
	}
}

// NoteOff releases a note, or defers the release while the sustain pedal is down
func (a *Allocator) NoteOff(note, velocity uint8) {
	if a.sustainPedal {
		a.sustainedNotes[note] = true
		return
	}

	switch a.mode {
	case ModePoly:
		if idx, exists := a.noteToVoice[note]; exists {
			a.voices[idx].ReleaseNote()
			delete(a.noteToVoice, note)
		}
	case ModeMono:
		if note == a.currentNote {
			a.voices[0].ReleaseNote()
			delete(a.noteToVoice, note)
			a.currentNote = 0
		}
	}
}

// SetSustainPedal sets the sustain pedal state; releasing the pedal releases
// every note held by it
func (a *Allocator) SetSustainPedal(on bool) {
	a.sustainPedal = on
	if !on {
		for note := range a.sustainedNotes {
			a.NoteOff(note, 0)
		}
		a.sustainedNotes = make(map[uint8]bool)
	}
}

// Reset stops all voices and clears allocations
func (a *Allocator) Reset() {
	for _, v := range a.voices {
		v.Stop()
	}
	a.noteToVoice = make(map[uint8]int)
	a.sustainedNotes = make(map[uint8]bool)
	a.sustainPedal = false
	a.currentNote = 0
}

// ActiveVoiceCount returns the number of active voices
func (a *Allocator) ActiveVoiceCount() int {
	count := 0
	for _, v := range a.voices {
		if v.IsActive() {
			count++
		}
	}
	return count
}

func (a *Allocator) noteOnPoly(note, velocity uint8) {
	if idx, exists := a.noteToVoice[note]; exists {
		// Retrigger on the voice already holding this note
		a.voices[idx].TriggerNote(note, velocity)
		return
	}

	idx := a.findFreeVoice()
	if idx == -1 {
		idx = a.stealVoice()
		if idx == -1 {
			return
		}
	}

	a.voices[idx].TriggerNote(note, velocity)
	a.noteToVoice[note] = idx
}

func (a *Allocator) noteOnMono(note, velocity uint8) {
	for _, v := range a.voices {
		if v.IsActive() {
			v.Stop()
		}
	}
	a.currentNote = note
	a.voices[0].TriggerNote(note, velocity)
	a.noteToVoice = map[uint8]int{note: 0}
}

// findFreeVoice finds an inactive voice, round-robin from the last trigger
func (a *Allocator) findFreeVoice() int {
	start := a.lastTriggered
	for i := 0; i < len(a.voices); i++ {
		idx := (start + i + 1) % len(a.voices)
		if !a.voices[idx].IsActive() {
			a.lastTriggered = idx
			return idx
		}
	}
	return -1
}

// stealVoice picks a victim according to the stealing mode
func (a *Allocator) stealVoice() int {
	if a.stealingMode == StealNone {
		return -1
	}

	bestIdx := -1
	var bestValue float64

	for i, v := range a.voices {
		if !v.IsActive() {
			continue
		}
		switch a.stealingMode {
		case StealOldest:
			if age := float64(v.Age()); bestIdx == -1 || age > bestValue {
				bestIdx, bestValue = i, age
			}
		case StealQuietest:
			if amp := v.Amplitude(); bestIdx == -1 || amp < bestValue {
				bestIdx, bestValue = i, amp
			}
		}
	}

	if bestIdx != -1 {
		delete(a.noteToVoice, a.voices[bestIdx].Note())
		a.voices[bestIdx].Stop()
	}
	return bestIdx
}

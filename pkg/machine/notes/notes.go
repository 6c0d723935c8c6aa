// Package notes maps the opaque pitch identifiers used by machine
// state ("E2", "F#3", ...) to MIDI note numbers, and carries the
// instrument's fixed pitch tables. The replay core treats pitches as
// opaque tokens; only renderers resolve them through this package.
package notes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/james-see/marblereplay/pkg/machine"
)

// Octave convention: C3 = MIDI 60.
const middleCOctave = 3

var semitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MIDI resolves a note name like "E2", "F#3" or "Bb1" to its MIDI
// number.
func MIDI(name string) (uint8, error) {
	if name == "" {
		return 0, errors.New("empty note name")
	}
	up := strings.ToUpper(name[:1]) + name[1:]
	base, ok := semitones[up[0]]
	if !ok {
		return 0, fmt.Errorf("invalid note name %q", name)
	}
	rest := up[1:]
	for len(rest) > 0 {
		if rest[0] == '#' {
			base++
		} else if rest[0] == 'b' {
			base--
		} else {
			break
		}
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid note name %q: %w", name, err)
	}
	n := (octave-middleCOctave)*12 + 60 + base
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("note %q is outside the MIDI range", name)
	}
	return uint8(n), nil
}

// Name returns the canonical name of a MIDI note number (sharps only).
func Name(midi uint8) string {
	octave := int(midi)/12 - 5 + middleCOctave
	return fmt.Sprintf("%s%d", noteNames[midi%12], octave)
}

// StandardBassTuning is the defined tuning used when a string has no
// tuning entry in the bass state (lowest string first).
var StandardBassTuning = map[machine.BassString]string{
	1: "E1",
	2: "A1",
	3: "D2",
	4: "G2",
}

// BassNote resolves the sounding pitch of a bass drop: the string's
// tuning (standard when unset), shifted by the capo, plus the fretted
// position.
func BassNote(bass machine.BassState, s machine.BassString, fret int) (uint8, error) {
	tuning := bass.Tuning[s]
	if tuning == "" {
		tuning = StandardBassTuning[s]
	}
	open, err := MIDI(tuning)
	if err != nil {
		return 0, fmt.Errorf("string %d tuning: %w", s, err)
	}
	n := int(open) + bass.Capo(s) + fret
	if n > 127 {
		return 0, fmt.Errorf("string %d fret %d sounds above the MIDI range", s, fret)
	}
	return uint8(n), nil
}

// DefaultVibraphoneNotes is the factory layout of the eleven
// vibraphone channel slots, used when a program authors no layout.
var DefaultVibraphoneNotes = [machine.VibraphoneSlots]string{
	"E3", "F#3", "G#3", "A3", "B3", "C#4", "D#4", "E4", "F#4", "G#4", "A4",
}

// VibraphoneNote resolves the pitch of a vibraphone slot from the
// vibraphone state, falling back to the factory layout for unset
// slots.
func VibraphoneNote(vib machine.VibraphoneState, slot int) (uint8, error) {
	if slot < 0 || slot >= machine.VibraphoneSlots {
		return 0, fmt.Errorf("vibraphone slot %d out of range", slot)
	}
	name := vib.Notes[slot]
	if name == "" {
		name = DefaultVibraphoneNotes[slot]
	}
	return MIDI(name)
}

// General MIDI percussion notes for the drum channels.
const (
	GMBassdrum    uint8 = 36
	GMSnare       uint8 = 38
	GMHihatClosed uint8 = 42
	GMHihatOpen   uint8 = 46
)

// DrumNote resolves a drum channel to its General MIDI percussion
// note. The hihat note depends on the pedal position.
func DrumNote(drum machine.Channel, hihatClosed bool) (uint8, error) {
	switch drum {
	case machine.ChannelBassdrum:
		return GMBassdrum, nil
	case machine.ChannelSnare:
		return GMSnare, nil
	case machine.ChannelHihat:
		if hihatClosed {
			return GMHihatClosed, nil
		}
		return GMHihatOpen, nil
	}
	return 0, fmt.Errorf("channel %q is not a drum", drum)
}

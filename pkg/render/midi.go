// Package render turns replayed performance transitions into a
// Standard MIDI File for auditioning. It is a renderer in the sense of
// the replay core's contract: it consumes state deltas and drop
// emissions, and owns all pitch resolution and mute handling.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/marblereplay/pkg/machine"
	"github.com/james-see/marblereplay/pkg/machine/notes"
)

// MIDI channel assignments.
const (
	bassChannel       uint8 = 0
	vibraphoneChannel uint8 = 1
	drumChannel       uint8 = 9 // General MIDI percussion
)

// Note lengths in machine ticks.
const (
	bassNoteLength       = machine.TicksPerQuarter / 2
	vibraphoneNoteLength = machine.TicksPerQuarter / 2
	drumNoteLength       = machine.TicksPerQuarter / 8
)

const modWheelController uint8 = 1

// Renderer converts replayed performances to MIDI data.
type Renderer struct {
	velocity uint8
}

// New creates a renderer with default settings.
func New() *Renderer {
	return &Renderer{velocity: 100}
}

// timed is an absolute-tick message, flattened before delta encoding.
// prio breaks same-tick ties: metas, then note-offs, then the rest.
type timed struct {
	tick int64
	prio int
	msg  []byte
}

// RenderSMF replays the performance over [from, to] and renders the
// fired drops and control changes as a single-track SMF. Muted
// channels render nothing: the drop still fires in the replay, the
// mute silences it here.
func (r *Renderer) RenderSMF(perf *machine.Performance, from, to int64) ([]byte, error) {
	if perf == nil {
		return nil, errors.New("nil performance")
	}

	rep, err := machine.NewReplayer(perf)
	if err != nil {
		return nil, err
	}
	start, err := rep.StateAt(from)
	if err != nil {
		return nil, err
	}
	deltas, err := rep.DeltasBetween(from, to)
	if err != nil {
		return nil, err
	}

	var msgs []timed
	msgs = append(msgs, timed{tick: from, prio: 0, msg: tempoMeta(start.Machine.BPM)})

	for _, d := range deltas {
		switch ev := d.Event.(type) {
		case machine.MachineTempo:
			msgs = append(msgs, timed{tick: d.Tick, prio: 0, msg: tempoMeta(ev.BPM)})
		case machine.VibratoSpeed:
			value := uint8(ev.Speed * 127)
			msgs = append(msgs, timed{tick: d.Tick, prio: 2, msg: midi.ControlChange(vibraphoneChannel, modWheelController, value)})
		}

		if d.Fired == nil {
			continue
		}
		note, err := r.dropMessages(d)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, note...)
	}

	return encodeSMF(msgs, from)
}

// dropMessages resolves one fired drop into note on/off messages,
// honoring the mute state at the moment of firing.
func (r *Renderer) dropMessages(d machine.Delta) ([]timed, error) {
	drop := d.Fired.Drop
	if d.State.Machine.Muted(drop.Channel()) {
		return nil, nil
	}

	var (
		channel uint8
		note    uint8
		length  int64
		err     error
	)
	switch e := drop.(type) {
	case machine.BassDrop:
		channel, length = bassChannel, bassNoteLength
		note, err = notes.BassNote(d.State.Bass, e.String, e.Fret)
	case machine.VibraphoneDrop:
		channel, length = vibraphoneChannel, vibraphoneNoteLength
		note, err = notes.VibraphoneNote(d.State.Vibraphone, e.Slot)
	case machine.DrumDrop:
		channel, length = drumChannel, drumNoteLength
		note, err = notes.DrumNote(e.Drum, d.State.Hihat.Closed)
	default:
		return nil, fmt.Errorf("unknown drop type %q", drop.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("drop at tick %d: %w", d.Tick, err)
	}

	return []timed{
		{tick: d.Tick, prio: 3, msg: midi.NoteOn(channel, note, r.velocity)},
		{tick: d.Tick + length, prio: 1, msg: midi.NoteOff(channel, note)},
	}, nil
}

// tempoMeta builds an SMF tempo meta message (FF 51 03).
func tempoMeta(bpm float64) []byte {
	microsecondsPerBeat := uint32(60000000.0 / bpm)
	return []byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}
}

func encodeSMF(msgs []timed, from int64) ([]byte, error) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].prio < msgs[j].prio
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(machine.TicksPerQuarter)

	var track smf.Track
	current := from
	for _, m := range msgs {
		delta := uint32(m.tick - current)
		track.Add(delta, m.msg)
		current = m.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFile renders a performance range and writes it to a .mid file.
func (r *Renderer) RenderFile(perf *machine.Performance, from, to int64, filename string) error {
	data, err := r.RenderSMF(perf, from, to)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

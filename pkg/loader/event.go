package loader

import (
	"fmt"

	"github.com/james-see/marblereplay/pkg/machine"
)

// eventDoc is the flat wire form of every event variant, discriminated
// by Kind. Unused fields stay at their zero value and are omitted.
type eventDoc struct {
	Kind      machine.EventKind  `json:"kind"`
	Tick      int64              `json:"tick"`
	Channel   machine.Channel    `json:"channel,omitempty"`
	Muted     bool               `json:"muted,omitempty"`
	BPM       float64            `json:"bpm,omitempty"`
	Connected bool               `json:"connected,omitempty"`
	Enabled   bool               `json:"enabled,omitempty"`
	Speed     float64            `json:"speed,omitempty"`
	String    machine.BassString `json:"string,omitempty"`
	Fret      int                `json:"fret,omitempty"`
	Drum      machine.Channel    `json:"drum,omitempty"`
	Slot      int                `json:"slot,omitempty"`
	Setting   string             `json:"setting,omitempty"`
	Closed    bool               `json:"closed,omitempty"`
	Bake      machine.BakeType   `json:"bake,omitempty"`
	Overrides machine.Channel    `json:"overrides,omitempty"`
}

func (d eventDoc) toEvent() (machine.Event, error) {
	switch d.Kind {
	case machine.KindMachineMute:
		return machine.MachineMute{At: d.Tick, Target: d.Channel, Muted: d.Muted}, nil
	case machine.KindMachineTempo:
		return machine.MachineTempo{At: d.Tick, BPM: d.BPM}, nil
	case machine.KindMachineFlywheel:
		return machine.MachineFlywheel{At: d.Tick, Connected: d.Connected}, nil
	case machine.KindVibratoEnabled:
		return machine.VibratoEnabled{At: d.Tick, Enabled: d.Enabled}, nil
	case machine.KindVibratoSpeed:
		return machine.VibratoSpeed{At: d.Tick, Speed: d.Speed}, nil
	case machine.KindBassCapo:
		return machine.BassCapo{At: d.Tick, CapoString: d.String, Fret: d.Fret}, nil
	case machine.KindHihatMachine:
		return machine.HihatMachineSetting{At: d.Tick, State: machine.HihatMachineState{Setting: d.Setting}}, nil
	case machine.KindHihatClosed:
		return machine.HihatClosed{At: d.Tick, Closed: d.Closed}, nil
	case machine.KindBassDrop:
		return machine.BassDrop{At: d.Tick, String: d.String, Fret: d.Fret, BakeType: d.Bake}, nil
	case machine.KindDrumDrop:
		return machine.DrumDrop{At: d.Tick, Drum: d.Drum, BakeType: d.Bake, Overrides: d.Overrides}, nil
	case machine.KindVibraphoneDrop:
		return machine.VibraphoneDrop{At: d.Tick, Slot: d.Slot, BakeType: d.Bake}, nil
	}
	return nil, fmt.Errorf("unknown event kind %q", d.Kind)
}

func fromEvent(ev machine.Event) eventDoc {
	doc := eventDoc{Kind: ev.Kind(), Tick: ev.Tick()}
	switch e := ev.(type) {
	case machine.MachineMute:
		doc.Channel = e.Target
		doc.Muted = e.Muted
	case machine.MachineTempo:
		doc.BPM = e.BPM
	case machine.MachineFlywheel:
		doc.Connected = e.Connected
	case machine.VibratoEnabled:
		doc.Enabled = e.Enabled
	case machine.VibratoSpeed:
		doc.Speed = e.Speed
	case machine.BassCapo:
		doc.String = e.CapoString
		doc.Fret = e.Fret
	case machine.HihatMachineSetting:
		doc.Setting = e.State.Setting
	case machine.HihatClosed:
		doc.Closed = e.Closed
	case machine.BassDrop:
		doc.String = e.String
		doc.Fret = e.Fret
		doc.Bake = e.BakeType
	case machine.DrumDrop:
		doc.Drum = e.Drum
		doc.Bake = e.BakeType
		doc.Overrides = e.Overrides
	case machine.VibraphoneDrop:
		doc.Slot = e.Slot
		doc.Bake = e.BakeType
	}
	return doc
}

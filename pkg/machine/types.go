// Package machine reconstructs the behavioral state of a marble-actuated
// musical instrument from its programmed and performed event streams.
package machine

// Wheel geometry. The programming wheel holds one full cycle of 61440
// ticks at 240 ticks per quarter note (256 quarter notes per rotation).
const (
	TicksPerQuarter = 240
	WheelTicks      = 61440
)

// Channel identifies an independently mutable playing surface.
type Channel string

const (
	ChannelBassdrum   Channel = "bassdrum"
	ChannelHihat      Channel = "hihat"
	ChannelSnare      Channel = "snare"
	ChannelVibraphone Channel = "vibraphone"
	ChannelBass       Channel = "bass"
)

// Channels lists every valid channel in a fixed order.
var Channels = []Channel{
	ChannelBassdrum,
	ChannelHihat,
	ChannelSnare,
	ChannelVibraphone,
	ChannelBass,
}

// DrumChannels lists the channels that accept drum drops.
var DrumChannels = []Channel{ChannelBassdrum, ChannelHihat, ChannelSnare}

// Valid reports whether c names a defined channel.
func (c Channel) Valid() bool {
	for _, ch := range Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// BassString identifies one of the four bass strings (1 = lowest).
type BassString int

// NumBassStrings is the number of strings on the bass.
const NumBassStrings = 4

// Valid reports whether s is in 1..4.
func (s BassString) Valid() bool {
	return s >= 1 && s <= NumBassStrings
}

// VibraphoneSlots is the number of vibraphone channel slots.
const VibraphoneSlots = 11

// MachineState holds the machine-wide controls: per-channel mutes, the
// wheel tempo, and whether the flywheel is engaged. An absent entry in
// Mutes means the channel is unmuted.
type MachineState struct {
	Mutes             map[Channel]bool `json:"mutes,omitempty"`
	BPM               float64          `json:"bpm"`
	FlywheelConnected bool             `json:"flywheelConnected"`
}

// Muted reports whether a channel is muted.
func (m MachineState) Muted(c Channel) bool {
	return m.Mutes[c]
}

// VibraphoneState holds vibrato controls and the fixed note layout.
// Notes is authorable in a Program only; a Performance never changes it.
type VibraphoneState struct {
	VibratoEnabled bool                    `json:"vibratoEnabled"`
	VibratoSpeed   float64                 `json:"vibratoSpeed"`
	Notes          [VibraphoneSlots]string `json:"notes"`
}

// BassState holds capo positions and per-string tuning. An absent capo
// entry (or fret 0) means no capo; an absent tuning entry means the
// string is at standard tuning.
type BassState struct {
	Capos  map[BassString]int    `json:"capos,omitempty"`
	Tuning map[BassString]string `json:"tuning,omitempty"`
}

// Capo returns the capo fret for a string, 0 when none is set.
func (b BassState) Capo(s BassString) int {
	return b.Capos[s]
}

// HihatMachineState is an opaque setting token. The semantics of the
// token are defined by the physical hihat machine, not by this package;
// it is only ever replaced wholesale and compared for equality.
type HihatMachineState struct {
	Setting string `json:"setting"`
}

// HihatState holds the hihat pedal position.
type HihatState struct {
	Closed bool `json:"closed"`
}

// State is a value-semantics snapshot of the whole machine at one tick.
// It is fully determined by an initial state plus the ordered event
// sequence up to and including that tick, and is only ever mutated by
// the reducer.
type State struct {
	Machine      MachineState      `json:"machine"`
	Vibraphone   VibraphoneState   `json:"vibraphone"`
	Bass         BassState         `json:"bass"`
	HihatMachine HihatMachineState `json:"hihatMachine"`
	Hihat        HihatState        `json:"hihat"`
}

// NewState returns a state with library defaults: 120 BPM, flywheel
// connected, nothing muted, no capos, standard tuning.
func NewState() State {
	return State{
		Machine: MachineState{BPM: 120, FlywheelConnected: true},
	}
}

// Clone returns a deep copy of the state. Snapshots handed to callers
// are always clones so later replays can never mutate them.
func (s State) Clone() State {
	out := s
	if s.Machine.Mutes != nil {
		out.Machine.Mutes = make(map[Channel]bool, len(s.Machine.Mutes))
		for k, v := range s.Machine.Mutes {
			out.Machine.Mutes[k] = v
		}
	}
	if s.Bass.Capos != nil {
		out.Bass.Capos = make(map[BassString]int, len(s.Bass.Capos))
		for k, v := range s.Bass.Capos {
			out.Bass.Capos[k] = v
		}
	}
	if s.Bass.Tuning != nil {
		out.Bass.Tuning = make(map[BassString]string, len(s.Bass.Tuning))
		for k, v := range s.Bass.Tuning {
			out.Bass.Tuning[k] = v
		}
	}
	return out
}

// Metadata describes an authored document.
type Metadata struct {
	Name   string `json:"name"`
	Author string `json:"author,omitempty"`
}

// Program is an authored drop sequence on the wheel plus the authoring
// rest state. Programs are immutable inputs: the engine never mutates
// one, even when a performance overrides individual drops.
type Program struct {
	Meta      Metadata
	RestState State
	Drops     []DropEvent // ascending by tick, every tick < WheelTicks
}

// Performance is a live rendition of a Program: the frozen machine
// state at performance start plus operator events layered on top of
// the Program's own drops, sharing the same tick clock. Performance
// ticks are a monotonic global counter and may span multiple wheel
// rotations.
type Performance struct {
	Meta         Metadata
	Program      *Program
	InitialState State
	Events       []Event // ascending by tick
}

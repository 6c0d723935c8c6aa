package machine

// EventKind discriminates event variants.
type EventKind string

const (
	KindMachineMute     EventKind = "machine_mute"
	KindMachineTempo    EventKind = "machine_tempo"
	KindMachineFlywheel EventKind = "machine_flywheelConnected"
	KindVibratoEnabled  EventKind = "vibraphone_vibrato_enabled"
	KindVibratoSpeed    EventKind = "vibraphone_vibrato_speed"
	KindBassCapo        EventKind = "bass_capo"
	KindHihatMachine    EventKind = "hihatmachine_setting"
	KindHihatClosed     EventKind = "hihat_closed"
	KindBassDrop        EventKind = "drop_bass"
	KindDrumDrop        EventKind = "drop_drum"
	KindVibraphoneDrop  EventKind = "drop_vibraphone"
)

// Event is the closed union of everything that can happen on the tick
// clock. Each variant mutates exactly one logical property (or none,
// for drops); compound changes are multiple co-tick events. The
// unexported marker seals the union so the reducer's switch stays
// exhaustive.
type Event interface {
	Tick() int64
	Kind() EventKind
	isEvent()
}

// BakeType classifies how a performance drop relates to the underlying
// program's authored drop at the same tick and channel.
type BakeType string

const (
	BakeAuto         BakeType = "AUTO"
	BakeModifiedAuto BakeType = "MODIFIED_AUTO"
	BakeManual       BakeType = "MANUAL"
)

// Valid reports whether b is a defined bake type.
func (b BakeType) Valid() bool {
	switch b {
	case BakeAuto, BakeModifiedAuto, BakeManual:
		return true
	}
	return false
}

// DropEvent is the sub-union of marble releases. A drop is an action,
// not a state change: the reducer leaves state untouched and the
// replay engine reports the firing on a side channel instead.
type DropEvent interface {
	Event
	// Channel is the playing surface the marble lands on.
	Channel() Channel
	// Bake is the drop's bake classification. Program-authored drops
	// report the zero value; performance drops must carry one.
	Bake() BakeType
	// RefChannel is the program channel this drop references during
	// reconciliation. It differs from Channel only when a
	// MODIFIED_AUTO override moves the firing to another surface.
	RefChannel() Channel
	isDrop()
}

// MachineMute mutes or unmutes one channel. Muting affects audio
// rendering downstream, never drop occurrence.
type MachineMute struct {
	At     int64
	Target Channel
	Muted  bool
}

func (e MachineMute) Tick() int64     { return e.At }
func (e MachineMute) Kind() EventKind { return KindMachineMute }
func (MachineMute) isEvent()          {}

// MachineTempo sets the wheel tempo in BPM. Non-positive values are
// rejected by the reducer.
type MachineTempo struct {
	At  int64
	BPM float64
}

func (e MachineTempo) Tick() int64     { return e.At }
func (e MachineTempo) Kind() EventKind { return KindMachineTempo }
func (MachineTempo) isEvent()          {}

// MachineFlywheel engages or disengages the flywheel.
type MachineFlywheel struct {
	At        int64
	Connected bool
}

func (e MachineFlywheel) Tick() int64     { return e.At }
func (e MachineFlywheel) Kind() EventKind { return KindMachineFlywheel }
func (MachineFlywheel) isEvent()          {}

// VibratoEnabled switches the vibraphone vibrato motor on or off.
type VibratoEnabled struct {
	At      int64
	Enabled bool
}

func (e VibratoEnabled) Tick() int64     { return e.At }
func (e VibratoEnabled) Kind() EventKind { return KindVibratoEnabled }
func (VibratoEnabled) isEvent()          {}

// VibratoSpeed sets the vibrato speed. Values outside [0,1] are
// rejected by the reducer, not clamped.
type VibratoSpeed struct {
	At    int64
	Speed float64
}

func (e VibratoSpeed) Tick() int64     { return e.At }
func (e VibratoSpeed) Kind() EventKind { return KindVibratoSpeed }
func (VibratoSpeed) isEvent()          {}

// BassCapo moves a capo on one string. Fret 0 removes the capo.
type BassCapo struct {
	At         int64
	CapoString BassString
	Fret       int
}

func (e BassCapo) Tick() int64     { return e.At }
func (e BassCapo) Kind() EventKind { return KindBassCapo }
func (BassCapo) isEvent()          {}

// HihatMachineSetting replaces the hihat machine state wholesale; the
// event is the new state fragment.
type HihatMachineSetting struct {
	At    int64
	State HihatMachineState
}

func (e HihatMachineSetting) Tick() int64     { return e.At }
func (e HihatMachineSetting) Kind() EventKind { return KindHihatMachine }
func (HihatMachineSetting) isEvent()          {}

// HihatClosed opens or closes the hihat pedal.
type HihatClosed struct {
	At     int64
	Closed bool
}

func (e HihatClosed) Tick() int64     { return e.At }
func (e HihatClosed) Kind() EventKind { return KindHihatClosed }
func (HihatClosed) isEvent()          {}

// BassDrop releases a marble onto a bass string at a fret.
type BassDrop struct {
	At       int64
	String   BassString
	Fret     int
	BakeType BakeType
}

func (e BassDrop) Tick() int64         { return e.At }
func (e BassDrop) Kind() EventKind     { return KindBassDrop }
func (e BassDrop) Channel() Channel    { return ChannelBass }
func (e BassDrop) Bake() BakeType      { return e.BakeType }
func (e BassDrop) RefChannel() Channel { return ChannelBass }
func (BassDrop) isEvent()              {}
func (BassDrop) isDrop()               {}

// DrumDrop releases a marble onto a drum. Drum is the surface that
// fires; Overrides, when set on a MODIFIED_AUTO drop, names the
// program channel whose scheduled drop this one replaces (for example
// a bassdrum drop re-routed to the snare).
type DrumDrop struct {
	At        int64
	Drum      Channel
	BakeType  BakeType
	Overrides Channel
}

func (e DrumDrop) Tick() int64      { return e.At }
func (e DrumDrop) Kind() EventKind  { return KindDrumDrop }
func (e DrumDrop) Channel() Channel { return e.Drum }
func (e DrumDrop) Bake() BakeType   { return e.BakeType }
func (e DrumDrop) RefChannel() Channel {
	if e.Overrides != "" {
		return e.Overrides
	}
	return e.Drum
}
func (DrumDrop) isEvent() {}
func (DrumDrop) isDrop()  {}

// VibraphoneDrop releases a marble onto one of the eleven vibraphone
// channel slots (0-based).
type VibraphoneDrop struct {
	At       int64
	Slot     int
	BakeType BakeType
}

func (e VibraphoneDrop) Tick() int64         { return e.At }
func (e VibraphoneDrop) Kind() EventKind     { return KindVibraphoneDrop }
func (e VibraphoneDrop) Channel() Channel    { return ChannelVibraphone }
func (e VibraphoneDrop) Bake() BakeType      { return e.BakeType }
func (e VibraphoneDrop) RefChannel() Channel { return ChannelVibraphone }
func (VibraphoneDrop) isEvent()              {}
func (VibraphoneDrop) isDrop()               {}

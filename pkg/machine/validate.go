package machine

// validateEvent checks the parts of an event that can be rejected
// eagerly, before any replay starts: negative ticks, undefined
// channels, strings, drums and slots, and the two range-checked
// values. The reducer re-checks the value rules so direct Apply
// callers get the same guarantees.
func validateEvent(ev Event) error {
	if ev.Tick() < 0 {
		return outOfRangef("%s at negative tick %d", ev.Kind(), ev.Tick())
	}
	switch e := ev.(type) {
	case MachineMute:
		if !e.Target.Valid() {
			return outOfRangef("mute of undefined channel %q at tick %d", e.Target, e.At)
		}
	case MachineTempo:
		if e.BPM <= 0 {
			return outOfRangef("tempo %v bpm at tick %d, must be positive", e.BPM, e.At)
		}
	case VibratoSpeed:
		if e.Speed < 0 || e.Speed > 1 {
			return outOfRangef("vibrato speed %v at tick %d, must be within [0,1]", e.Speed, e.At)
		}
	case BassCapo:
		if !e.CapoString.Valid() {
			return outOfRangef("capo on undefined string %d at tick %d", e.CapoString, e.At)
		}
		if e.Fret < 0 {
			return outOfRangef("capo fret %d at tick %d, must not be negative", e.Fret, e.At)
		}
	case BassDrop:
		if !e.String.Valid() {
			return outOfRangef("bass drop on undefined string %d at tick %d", e.String, e.At)
		}
		if e.Fret < 0 {
			return outOfRangef("bass drop fret %d at tick %d, must not be negative", e.Fret, e.At)
		}
	case DrumDrop:
		if !isDrumChannel(e.Drum) {
			return outOfRangef("drum drop on undefined drum %q at tick %d", e.Drum, e.At)
		}
		if e.Overrides != "" && !isDrumChannel(e.Overrides) {
			return outOfRangef("drum drop overriding undefined drum %q at tick %d", e.Overrides, e.At)
		}
	case VibraphoneDrop:
		if e.Slot < 0 || e.Slot >= VibraphoneSlots {
			return outOfRangef("vibraphone drop on undefined slot %d at tick %d", e.Slot, e.At)
		}
	}
	return nil
}

func isDrumChannel(c Channel) bool {
	for _, d := range DrumChannels {
		if c == d {
			return true
		}
	}
	return false
}

package machine

// Apply reduces one event into a state, returning the successor state.
// It is a pure function: the input state is never mutated, and the
// same (state, event) pair always produces the same result. Drops
// return the state unchanged; the replay engine reports their firing
// separately.
//
// Only two rules can fail, both eagerly and both leaving the prior
// state intact: a non-positive tempo and a vibrato speed outside
// [0,1].
func Apply(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case MachineMute:
		return applyMute(s, e), nil
	case MachineTempo:
		return applyTempo(s, e)
	case MachineFlywheel:
		next := s.Clone()
		next.Machine.FlywheelConnected = e.Connected
		return next, nil
	case VibratoEnabled:
		next := s.Clone()
		next.Vibraphone.VibratoEnabled = e.Enabled
		return next, nil
	case VibratoSpeed:
		return applyVibratoSpeed(s, e)
	case BassCapo:
		return applyCapo(s, e), nil
	case HihatMachineSetting:
		next := s.Clone()
		next.HihatMachine = e.State
		return next, nil
	case HihatClosed:
		next := s.Clone()
		next.Hihat.Closed = e.Closed
		return next, nil
	case BassDrop, DrumDrop, VibraphoneDrop:
		// Dropping a marble is an action, not a state change.
		return s, nil
	default:
		return s, outOfRangef("unknown event kind %q", ev.Kind())
	}
}

func applyMute(s State, e MachineMute) State {
	next := s.Clone()
	if next.Machine.Mutes == nil {
		next.Machine.Mutes = make(map[Channel]bool, 1)
	}
	if e.Muted {
		next.Machine.Mutes[e.Target] = true
	} else {
		// Unset means unmuted; keep the map sparse.
		delete(next.Machine.Mutes, e.Target)
		if len(next.Machine.Mutes) == 0 {
			next.Machine.Mutes = nil
		}
	}
	return next
}

func applyTempo(s State, e MachineTempo) (State, error) {
	if e.BPM <= 0 {
		return s, outOfRangef("tempo %v bpm at tick %d, must be positive", e.BPM, e.At)
	}
	next := s.Clone()
	next.Machine.BPM = e.BPM
	return next, nil
}

func applyVibratoSpeed(s State, e VibratoSpeed) (State, error) {
	if e.Speed < 0 || e.Speed > 1 {
		return s, outOfRangef("vibrato speed %v at tick %d, must be within [0,1]", e.Speed, e.At)
	}
	next := s.Clone()
	next.Vibraphone.VibratoSpeed = e.Speed
	return next, nil
}

func applyCapo(s State, e BassCapo) State {
	next := s.Clone()
	if next.Bass.Capos == nil {
		next.Bass.Capos = make(map[BassString]int, 1)
	}
	if e.Fret == 0 {
		// Fret 0 removes the capo; absent means none.
		delete(next.Bass.Capos, e.CapoString)
		if len(next.Bass.Capos) == 0 {
			next.Bass.Capos = nil
		}
	} else {
		next.Bass.Capos[e.CapoString] = e.Fret
	}
	return next
}

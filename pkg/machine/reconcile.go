package machine

// DropOrigin records how a fired drop came to fire.
type DropOrigin string

const (
	// OriginProgram marks a program-scheduled drop firing unmodified
	// (including drops confirmed by a redundant AUTO event).
	OriginProgram DropOrigin = "program"
	// OriginModified marks a program drop whose parameters were
	// replaced by a MODIFIED_AUTO performance event for this firing.
	OriginModified DropOrigin = "modified"
	// OriginManual marks an operator-initiated drop with no program
	// counterpart.
	OriginManual DropOrigin = "manual"
)

// FiredDrop is the side-channel emission for one marble release. Drop
// carries the placement that actually fired.
type FiredDrop struct {
	Tick   int64
	Drop   DropEvent
	Origin DropOrigin
}

// reconcileTick resolves all events sharing one global tick into
// canonical order. progDrops are the program drops recurring at that
// tick's wheel position. Reconciliation is always scoped to
// (tick, channel); drops on different channels never conflict.
func reconcileTick(tick int64, progDrops []DropEvent, perfEvents []Event) ([]canonEvent, error) {
	// Index performance drops by the program channel they reference.
	// More than one per channel can have only one outcome, so it is a
	// conflict regardless of bake types.
	perfDrops := make(map[Channel]DropEvent)
	for _, ev := range perfEvents {
		d, ok := ev.(DropEvent)
		if !ok {
			continue
		}
		ch := d.RefChannel()
		if _, dup := perfDrops[ch]; dup {
			return nil, conflictf("two performance drops target tick %d channel %q", tick, ch)
		}
		perfDrops[ch] = d
	}

	progByChannel := make(map[Channel]int, len(progDrops))
	for _, d := range progDrops {
		progByChannel[d.Channel()]++
	}

	var units, rest []canonEvent
	matched := make(map[Channel]bool)
	for _, d := range progDrops {
		ch := d.Channel()
		p, ok := perfDrops[ch]
		if !ok {
			// No matching performance event: implicit AUTO.
			rest = append(rest, canonEvent{tick: tick, ev: d, fired: &FiredDrop{Tick: tick, Drop: d, Origin: OriginProgram}})
			continue
		}
		if progByChannel[ch] > 1 {
			return nil, conflictf("tick %d channel %q has %d program drops for one baked event", tick, ch, progByChannel[ch])
		}
		matched[ch] = true
		switch p.Bake() {
		case BakeAuto:
			// Redundant confirmation; the program drop fires, the
			// performance event is not reapplied.
			units = append(units, canonEvent{tick: tick, ev: d, fired: &FiredDrop{Tick: tick, Drop: d, Origin: OriginProgram}})
		case BakeModifiedAuto:
			// The performance parameters replace the program drop's
			// for this firing only; the authored drop is untouched.
			units = append(units, canonEvent{tick: tick, ev: p, fired: &FiredDrop{Tick: tick, Drop: p, Origin: OriginModified}})
		case BakeManual:
			return nil, conflictf("manual drop collides with program drop at tick %d channel %q", tick, ch)
		}
	}

	for _, ev := range perfEvents {
		d, ok := ev.(DropEvent)
		if !ok {
			rest = append(rest, canonEvent{tick: tick, ev: ev})
			continue
		}
		ch := d.RefChannel()
		if matched[ch] {
			continue // consumed by a reconciled unit above
		}
		if d.Bake() != BakeManual {
			return nil, conflictf("%s drop at tick %d references channel %q with no program drop", d.Bake(), tick, ch)
		}
		rest = append(rest, canonEvent{tick: tick, ev: d, fired: &FiredDrop{Tick: tick, Drop: d, Origin: OriginManual}})
	}

	return append(units, rest...), nil
}

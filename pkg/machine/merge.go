package machine

import "sort"

// canonEvent is one entry of the canonical event sequence: the global
// tick it occurs at, the event the reducer sees, and the drop firing
// it carries, if any. A recurring program drop keeps its authored
// local tick in the event; tick carries the rotation offset.
type canonEvent struct {
	tick  int64
	ev    Event
	fired *FiredDrop
}

// sequence is the canonical merged view of a performance: the
// program's drop cycle, which recurs once per wheel rotation, and the
// performance's event stream on the global tick counter. The merged
// stream is unbounded whenever the program has drops, so it is walked
// with a cursor instead of being materialized.
//
// Ordering at every occupied global tick:
//  1. ascending global tick, with each program drop recurring at
//     rotation*WheelTicks + localTick for every rotation;
//  2. at equal tick, reconciled (tick, channel) units first, in
//     program authoring order;
//  3. then unmatched program drops, then performance events, each in
//     authoring order (the program is the base layer).
type sequence struct {
	prog []DropEvent // local ticks, ascending, all < WheelTicks
	perf []Event     // global ticks, ascending
}

// newSequence validates both streams and reconciles every performance
// tick against the program drops recurring there, so conflicts fail
// construction instead of surfacing mid-replay.
//
// Both inputs must already be in ascending tick order; a descending
// pair fails with ErrUnsortedEventStream instead of being re-sorted.
// Co-tick events are legal in both streams: compound changes are
// authored as multiple events sharing a tick.
func newSequence(prog *Program, perf *Performance) (*sequence, error) {
	var progDrops []DropEvent
	if prog != nil {
		progDrops = prog.Drops
	}
	var perfEvents []Event
	if perf != nil {
		perfEvents = perf.Events
	}

	if err := validateProgramStream(progDrops); err != nil {
		return nil, err
	}
	if err := validatePerformanceStream(perfEvents); err != nil {
		return nil, err
	}

	s := &sequence{prog: progDrops, perf: perfEvents}
	for ei := 0; ei < len(perfEvents); {
		tick := perfEvents[ei].Tick()
		eEnd := ei
		for eEnd < len(perfEvents) && perfEvents[eEnd].Tick() == tick {
			eEnd++
		}
		if _, err := reconcileTick(tick, s.progDropsAt(tick), perfEvents[ei:eEnd]); err != nil {
			return nil, err
		}
		ei = eEnd
	}
	return s, nil
}

// progDropsAt returns the program drops that recur at one global tick,
// found at the tick's position on the wheel.
func (s *sequence) progDropsAt(global int64) []DropEvent {
	if len(s.prog) == 0 {
		return nil
	}
	local := global % WheelTicks
	i := sort.Search(len(s.prog), func(i int) bool { return s.prog[i].Tick() >= local })
	j := i
	for j < len(s.prog) && s.prog[j].Tick() == local {
		j++
	}
	return s.prog[i:j]
}

// cursor addresses a position between occupied ticks of the merged
// stream: the wheel rotation and offset within the program cycle, and
// the offset into the performance events.
type cursor struct {
	rotation int64
	pi, ei   int
}

// next resolves the canonical events of the first occupied tick at or
// after c, and the cursor past that tick. ok is false once both
// streams are exhausted, which only happens for a dropless program.
func (s *sequence) next(c cursor) ([]canonEvent, cursor, bool) {
	if len(s.prog) > 0 && c.pi >= len(s.prog) {
		c.rotation++
		c.pi = 0
	}
	hasProg := len(s.prog) > 0
	hasPerf := c.ei < len(s.perf)
	if !hasProg && !hasPerf {
		return nil, c, false
	}

	var tick int64
	switch {
	case !hasProg:
		tick = s.perf[c.ei].Tick()
	case !hasPerf:
		tick = c.rotation*WheelTicks + s.prog[c.pi].Tick()
	default:
		tick = c.rotation*WheelTicks + s.prog[c.pi].Tick()
		if perfTick := s.perf[c.ei].Tick(); perfTick < tick {
			tick = perfTick
		}
	}

	var progGroup []DropEvent
	if hasProg {
		start := c.pi
		for c.pi < len(s.prog) && c.rotation*WheelTicks+s.prog[c.pi].Tick() == tick {
			c.pi++
		}
		progGroup = s.prog[start:c.pi]
	}
	start := c.ei
	for c.ei < len(s.perf) && s.perf[c.ei].Tick() == tick {
		c.ei++
	}
	perfGroup := s.perf[start:c.ei]

	// Conflicts were rejected during construction; identical inputs
	// cannot fail here.
	out, _ := reconcileTick(tick, progGroup, perfGroup)
	return out, c, true
}

func validateProgramStream(drops []DropEvent) error {
	prev := int64(-1)
	for i, d := range drops {
		if err := validateEvent(d); err != nil {
			return err
		}
		if d.Tick() >= WheelTicks {
			return outOfRangef("program drop at tick %d beyond wheel length %d", d.Tick(), WheelTicks)
		}
		if d.Tick() < prev {
			return unsortedf("program drop %d at tick %d after tick %d", i, d.Tick(), prev)
		}
		prev = d.Tick()
	}
	return nil
}

func validatePerformanceStream(events []Event) error {
	prev := int64(-1)
	for i, ev := range events {
		if err := validateEvent(ev); err != nil {
			return err
		}
		if d, ok := ev.(DropEvent); ok && !d.Bake().Valid() {
			return outOfRangef("performance drop at tick %d without bake type", d.Tick())
		}
		if ev.Tick() < prev {
			return unsortedf("performance event %d at tick %d after tick %d", i, ev.Tick(), prev)
		}
		prev = ev.Tick()
	}
	return nil
}

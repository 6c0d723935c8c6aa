package machine

// Delta is one observable transition: the event that caused it, the
// field-level changes it made, the drop it fired (nil for parameter
// events), and a snapshot of the state after it was applied. Tick is
// the global performance tick; for a program drop recurring on a later
// rotation it differs from the event's authored wheel tick.
type Delta struct {
	Tick    int64
	Event   Event
	Changes []FieldChange
	Fired   *FiredDrop
	State   State
}

// Replayer folds the merged, reconciled event sequence of one
// performance over its initial state. Construction validates both
// streams and resolves all reconciliation eagerly, so a Replayer that
// exists can only fail on out-of-bounds queries.
//
// A Replayer is a pure function of its inputs: queries are
// deterministic, idempotent, and safe to run concurrently.
type Replayer struct {
	initial State
	seq     *sequence
	cache   *checkpointCache
}

// NewReplayer builds a replayer for a performance layered over its
// program. The performance's InitialState seeds the fold. A nil
// Program is treated as an empty drop stream.
func NewReplayer(perf *Performance) (*Replayer, error) {
	seq, err := newSequence(perf.Program, perf)
	if err != nil {
		return nil, err
	}
	return &Replayer{initial: perf.InitialState.Clone(), seq: seq}, nil
}

// NewProgramReplayer builds a replayer for a program alone, seeded
// with its authoring rest state. Useful for editors that need the
// derived state at an edit cursor without a performance.
func NewProgramReplayer(prog *Program) (*Replayer, error) {
	seq, err := newSequence(prog, nil)
	if err != nil {
		return nil, err
	}
	return &Replayer{initial: prog.RestState.Clone(), seq: seq}, nil
}

// EnableCheckpoints turns on snapshot memoization so repeated queries
// against the same replayer avoid refolding from tick zero. Cached
// snapshots are immutable clones; enabling the cache never changes
// query results. Call it before handing the replayer to other
// goroutines: the field write is not synchronized with running
// queries.
func (r *Replayer) EnableCheckpoints() {
	r.cache = newCheckpointCache()
}

// StateAt returns the machine state at targetTick: the initial state
// with every event at tick <= targetTick applied in canonical order,
// including every wheel rotation of the program's drop cycle up to
// that tick.
func (r *Replayer) StateAt(targetTick int64) (State, error) {
	if targetTick < 0 {
		return State{}, tickBoundsf("target tick %d is negative", targetTick)
	}

	state := r.initial
	var cur cursor
	if r.cache != nil {
		if cp, ok := r.cache.nearest(targetTick); ok {
			state, cur = cp.state, cp.cur
		}
	}

	for {
		events, next, ok := r.seq.next(cur)
		if !ok || events[0].tick > targetTick {
			break
		}
		for _, e := range events {
			applied, err := Apply(state, e.ev)
			if err != nil {
				return State{}, err
			}
			state = applied
		}
		cur = next
	}

	if r.cache != nil {
		r.cache.store(targetTick, checkpoint{state: state, cur: cur})
	}
	return state.Clone(), nil
}

// DeltasBetween yields every transition with from <= tick <= to, in
// canonical order. DeltasBetween(T, T) yields exactly the transitions
// of tick T, or nothing when T has no events.
func (r *Replayer) DeltasBetween(from, to int64) ([]Delta, error) {
	if from < 0 {
		return nil, tickBoundsf("range start %d is negative", from)
	}
	if to < from {
		return nil, tickBoundsf("range end %d before start %d", to, from)
	}

	state := r.initial
	var cur cursor
	if r.cache != nil && from > 0 {
		if cp, ok := r.cache.nearest(from - 1); ok {
			state, cur = cp.state, cp.cur
		}
	}

	var deltas []Delta
	for {
		events, next, ok := r.seq.next(cur)
		if !ok || events[0].tick > to {
			break
		}
		for _, e := range events {
			applied, err := Apply(state, e.ev)
			if err != nil {
				return nil, err
			}
			if e.tick >= from {
				deltas = append(deltas, Delta{
					Tick:    e.tick,
					Event:   e.ev,
					Changes: diffStates(state, applied),
					Fired:   e.fired,
					State:   applied.Clone(),
				})
			}
			state = applied
		}
		cur = next
	}
	return deltas, nil
}

// StateAt computes the machine state of a performance at one tick.
// Convenience for one-shot queries; hosts issuing many queries should
// hold a Replayer with checkpoints enabled.
func StateAt(perf *Performance, targetTick int64) (State, error) {
	r, err := NewReplayer(perf)
	if err != nil {
		return State{}, err
	}
	return r.StateAt(targetTick)
}

// DeltasBetween computes the transitions of a performance over a tick
// range. Convenience for one-shot queries.
func DeltasBetween(perf *Performance, from, to int64) ([]Delta, error) {
	r, err := NewReplayer(perf)
	if err != nil {
		return nil, err
	}
	return r.DeltasBetween(from, to)
}

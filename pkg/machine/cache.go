package machine

import (
	"sort"
	"sync"
)

// checkpoint is a memoized fold result: the state after every event at
// tick <= the checkpoint tick, and the sequence cursor to resume from.
type checkpoint struct {
	state State
	cur   cursor
}

// checkpointCache memoizes snapshots keyed by tick. Stored and
// returned states are clones, so a cached snapshot can never be
// observed mutating. Single-writer/multiple-reader via RWMutex.
type checkpointCache struct {
	mu    sync.RWMutex
	snaps map[int64]checkpoint
	ticks []int64 // sorted keys of snaps
}

func newCheckpointCache() *checkpointCache {
	return &checkpointCache{snaps: make(map[int64]checkpoint)}
}

// nearest returns the checkpoint with the greatest tick <= target.
func (c *checkpointCache) nearest(target int64) (checkpoint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := sort.Search(len(c.ticks), func(i int) bool { return c.ticks[i] > target })
	if i == 0 {
		return checkpoint{}, false
	}
	cp := c.snaps[c.ticks[i-1]]
	cp.state = cp.state.Clone()
	return cp, true
}

func (c *checkpointCache) store(tick int64, cp checkpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.snaps[tick]; ok {
		return
	}
	cp.state = cp.state.Clone()
	c.snaps[tick] = cp
	i := sort.Search(len(c.ticks), func(i int) bool { return c.ticks[i] > tick })
	c.ticks = append(c.ticks, 0)
	copy(c.ticks[i+1:], c.ticks[i:])
	c.ticks[i] = tick
}

package machine

// ToLocal maps a global performance tick onto the wheel: which
// rotation it falls in and where on the wheel. Total over the
// non-negative integer domain; negative ticks never reach here (they
// are rejected during validation).
func ToLocal(globalTick int64) (rotation uint64, localTick uint32) {
	return uint64(globalTick) / WheelTicks, uint32(globalTick % WheelTicks)
}

// TickOfQuarter returns the tick at which the n-th quarter note starts.
func TickOfQuarter(n int64) int64 {
	return n * TicksPerQuarter
}

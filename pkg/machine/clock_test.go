package machine

import (
	"testing"
)

func TestToLocal(t *testing.T) {
	tests := []struct {
		name     string
		tick     int64
		rotation uint64
		local    uint32
	}{
		{"start", 0, 0, 0},
		{"last tick of first rotation", WheelTicks - 1, 0, WheelTicks - 1},
		{"first tick of second rotation", WheelTicks, 1, 0},
		{"mid second rotation", WheelTicks + 576, 1, 576},
		{"third rotation", 2*WheelTicks + 1, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rotation, local := ToLocal(tt.tick)
			if rotation != tt.rotation || local != tt.local {
				t.Errorf("ToLocal(%d) = (%d, %d), want (%d, %d)",
					tt.tick, rotation, local, tt.rotation, tt.local)
			}
		})
	}
}

func TestTickOfQuarter(t *testing.T) {
	if got := TickOfQuarter(4); got != 960 {
		t.Errorf("TickOfQuarter(4) = %d, want 960", got)
	}
}

func TestWheelGeometry(t *testing.T) {
	if WheelTicks%TicksPerQuarter != 0 {
		t.Errorf("wheel length %d is not a whole number of quarter notes", WheelTicks)
	}
}

package machine

import (
	"errors"
	"testing"
)

func TestApplyMute(t *testing.T) {
	s := NewState()

	s2, err := Apply(s, MachineMute{At: 0, Target: ChannelSnare, Muted: true})
	if err != nil {
		t.Fatalf("Apply(mute) error = %v", err)
	}
	if !s2.Machine.Muted(ChannelSnare) {
		t.Error("snare should be muted")
	}
	if s.Machine.Muted(ChannelSnare) {
		t.Error("input state was mutated")
	}

	s3, err := Apply(s2, MachineMute{At: 1, Target: ChannelSnare, Muted: false})
	if err != nil {
		t.Fatalf("Apply(unmute) error = %v", err)
	}
	if s3.Machine.Muted(ChannelSnare) {
		t.Error("snare should be unmuted")
	}
	if s3.Machine.Mutes != nil {
		t.Error("unmute should keep the mute map sparse, not store false")
	}
}

func TestApplyTempo(t *testing.T) {
	tests := []struct {
		name    string
		bpm     float64
		wantErr bool
	}{
		{"valid", 140, false},
		{"slow but positive", 0.5, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s2, err := Apply(s, MachineTempo{At: 0, BPM: tt.bpm})
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRangeValue) {
					t.Fatalf("Apply(tempo %v) error = %v, want ErrOutOfRangeValue", tt.bpm, err)
				}
				if s2.Machine.BPM != s.Machine.BPM {
					t.Errorf("failed apply changed bpm to %v", s2.Machine.BPM)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply(tempo %v) error = %v", tt.bpm, err)
			}
			if s2.Machine.BPM != tt.bpm {
				t.Errorf("bpm = %v, want %v", s2.Machine.BPM, tt.bpm)
			}
		})
	}
}

func TestApplyVibratoSpeed(t *testing.T) {
	tests := []struct {
		name    string
		speed   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"half", 0.5, false},
		{"full", 1, false},
		{"above range", 1.5, true},
		{"below range", -0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s2, err := Apply(s, VibratoSpeed{At: 0, Speed: tt.speed})
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRangeValue) {
					t.Fatalf("Apply(speed %v) error = %v, want ErrOutOfRangeValue", tt.speed, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply(speed %v) error = %v", tt.speed, err)
			}
			if s2.Vibraphone.VibratoSpeed != tt.speed {
				t.Errorf("speed = %v, want %v", s2.Vibraphone.VibratoSpeed, tt.speed)
			}
		})
	}
}

func TestApplyCapo(t *testing.T) {
	s := NewState()

	s2, err := Apply(s, BassCapo{At: 0, CapoString: 2, Fret: 5})
	if err != nil {
		t.Fatalf("Apply(capo) error = %v", err)
	}
	if s2.Bass.Capo(2) != 5 {
		t.Errorf("capo = %d, want 5", s2.Bass.Capo(2))
	}

	// Fret 0 removes the capo entirely.
	s3, err := Apply(s2, BassCapo{At: 1, CapoString: 2, Fret: 0})
	if err != nil {
		t.Fatalf("Apply(capo removal) error = %v", err)
	}
	if s3.Bass.Capo(2) != 0 {
		t.Errorf("capo = %d, want 0", s3.Bass.Capo(2))
	}
	if s3.Bass.Capos != nil {
		t.Error("capo removal should keep the map sparse")
	}
}

func TestApplyFlywheelAndHihat(t *testing.T) {
	s := NewState()

	s2, err := Apply(s, MachineFlywheel{At: 0, Connected: false})
	if err != nil {
		t.Fatalf("Apply(flywheel) error = %v", err)
	}
	if s2.Machine.FlywheelConnected {
		t.Error("flywheel should be disconnected")
	}

	s3, err := Apply(s2, HihatClosed{At: 0, Closed: true})
	if err != nil {
		t.Fatalf("Apply(hihat) error = %v", err)
	}
	if !s3.Hihat.Closed {
		t.Error("hihat should be closed")
	}

	s4, err := Apply(s3, VibratoEnabled{At: 0, Enabled: true})
	if err != nil {
		t.Fatalf("Apply(vibrato) error = %v", err)
	}
	if !s4.Vibraphone.VibratoEnabled {
		t.Error("vibrato should be enabled")
	}
}

func TestApplyHihatMachineSettingReplacesWholesale(t *testing.T) {
	s := NewState()
	s.HihatMachine.Setting = "pattern-a"

	s2, err := Apply(s, HihatMachineSetting{At: 0, State: HihatMachineState{Setting: "pattern-b"}})
	if err != nil {
		t.Fatalf("Apply(hihatmachine) error = %v", err)
	}
	if s2.HihatMachine.Setting != "pattern-b" {
		t.Errorf("setting = %q, want %q", s2.HihatMachine.Setting, "pattern-b")
	}
}

func TestApplyDropLeavesStateUnchanged(t *testing.T) {
	drops := []Event{
		BassDrop{At: 0, String: 1, Fret: 3},
		DrumDrop{At: 0, Drum: ChannelSnare},
		VibraphoneDrop{At: 0, Slot: 4},
	}

	s := NewState()
	for _, drop := range drops {
		s2, err := Apply(s, drop)
		if err != nil {
			t.Fatalf("Apply(%s) error = %v", drop.Kind(), err)
		}
		if s2.Machine.BPM != s.Machine.BPM || s2.Hihat != s.Hihat || s2.Vibraphone != s.Vibraphone {
			t.Errorf("Apply(%s) changed state", drop.Kind())
		}
	}
}

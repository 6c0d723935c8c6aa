package render

import (
	"bytes"
	"testing"

	"github.com/james-see/marblereplay/pkg/machine"
)

func testPerformance() *machine.Performance {
	prog := &machine.Program{
		Meta:      machine.Metadata{Name: "test"},
		RestState: machine.NewState(),
		Drops: []machine.DropEvent{
			machine.DrumDrop{At: 0, Drum: machine.ChannelBassdrum},
			machine.BassDrop{At: machine.TickOfQuarter(1), String: 1, Fret: 3},
			machine.VibraphoneDrop{At: machine.TickOfQuarter(2), Slot: 4},
		},
	}
	return &machine.Performance{
		Meta:         machine.Metadata{Name: "test"},
		Program:      prog,
		InitialState: machine.NewState(),
		Events: []machine.Event{
			machine.MachineTempo{At: machine.TickOfQuarter(1), BPM: 90},
			machine.VibratoSpeed{At: machine.TickOfQuarter(2), Speed: 0.5},
		},
	}
}

func TestRenderSMFProducesValidHeader(t *testing.T) {
	data, err := New().RenderSMF(testPerformance(), 0, machine.TickOfQuarter(4))
	if err != nil {
		t.Fatalf("RenderSMF() error = %v", err)
	}
	if len(data) < 14 {
		t.Fatalf("output too short: %d bytes", len(data))
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Errorf("output does not start with an SMF header chunk")
	}
	if !bytes.Contains(data, []byte("MTrk")) {
		t.Errorf("output has no track chunk")
	}
}

func TestRenderSMFIsDeterministic(t *testing.T) {
	r := New()
	first, err := r.RenderSMF(testPerformance(), 0, machine.TickOfQuarter(4))
	if err != nil {
		t.Fatalf("RenderSMF() error = %v", err)
	}
	second, err := r.RenderSMF(testPerformance(), 0, machine.TickOfQuarter(4))
	if err != nil {
		t.Fatalf("RenderSMF() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two renders of the same performance differ byte for byte")
	}
}

func TestRenderSMFMuteSilencesChannel(t *testing.T) {
	unmuted, err := New().RenderSMF(testPerformance(), 0, machine.TickOfQuarter(4))
	if err != nil {
		t.Fatalf("RenderSMF() error = %v", err)
	}

	perf := testPerformance()
	perf.Events = append([]machine.Event{
		machine.MachineMute{At: 0, Target: machine.ChannelBassdrum, Muted: true},
	}, perf.Events...)
	muted, err := New().RenderSMF(perf, 0, machine.TickOfQuarter(4))
	if err != nil {
		t.Fatalf("RenderSMF() error = %v", err)
	}

	if bytes.Equal(unmuted, muted) {
		t.Error("muting a channel with a drop did not change the rendered output")
	}
	if len(muted) >= len(unmuted) {
		t.Errorf("muted render (%d bytes) should be shorter than unmuted (%d bytes)", len(muted), len(unmuted))
	}
}

func TestRenderSMFRejectsBadRange(t *testing.T) {
	if _, err := New().RenderSMF(testPerformance(), 100, 50); err == nil {
		t.Error("inverted range should fail")
	}
	if _, err := New().RenderSMF(nil, 0, 100); err == nil {
		t.Error("nil performance should fail")
	}
}

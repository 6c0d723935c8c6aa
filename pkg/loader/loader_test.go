package loader

import (
	"reflect"
	"strings"
	"testing"

	"github.com/james-see/marblereplay/pkg/machine"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"night-waltz.program.json", FormatProgram},
		{"live-take-3.performance.json", FormatPerformance},
		{"NIGHT-WALTZ.PROGRAM.JSON", FormatProgram},
		{"notes.json", FormatUnknown},
		{"song.mid", FormatUnknown},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.filename); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"performance", `{"name":"x","initialState":{},"events":[]}`, FormatPerformance},
		{"program", `{"name":"x","restState":{},"drops":[]}`, FormatProgram},
		{"neither", `{"name":"x"}`, FormatUnknown},
		{"not json", `hello`, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormatFromContent([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFormatFromContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseProgram(t *testing.T) {
	data := `{
		"name": "night waltz",
		"author": "rk",
		"restState": {"machine": {"bpm": 96, "flywheelConnected": true}},
		"drops": [
			{"kind": "drop_drum", "tick": 0, "drum": "bassdrum"},
			{"kind": "drop_bass", "tick": 240, "string": 2, "fret": 3},
			{"kind": "drop_vibraphone", "tick": 480, "slot": 4}
		]
	}`

	prog, err := ParseProgram([]byte(data))
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	if prog.Meta.Name != "night waltz" || prog.Meta.Author != "rk" {
		t.Errorf("meta = %+v", prog.Meta)
	}
	if prog.RestState.Machine.BPM != 96 {
		t.Errorf("rest bpm = %v, want 96", prog.RestState.Machine.BPM)
	}
	if len(prog.Drops) != 3 {
		t.Fatalf("drops = %d, want 3", len(prog.Drops))
	}
	bass, ok := prog.Drops[1].(machine.BassDrop)
	if !ok {
		t.Fatalf("drop 1 = %T, want BassDrop", prog.Drops[1])
	}
	if bass.At != 240 || bass.String != 2 || bass.Fret != 3 {
		t.Errorf("bass drop = %+v", bass)
	}
}

func TestParseProgramRejectsNonDrop(t *testing.T) {
	data := `{
		"name": "x",
		"restState": {},
		"drops": [{"kind": "machine_tempo", "tick": 0, "bpm": 90}]
	}`
	_, err := ParseProgram([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "not a drop event") {
		t.Errorf("ParseProgram() error = %v, want non-drop rejection", err)
	}
}

func TestParsePerformance(t *testing.T) {
	data := `{
		"name": "live take",
		"initialState": {"machine": {"bpm": 120, "flywheelConnected": true}},
		"program": {
			"name": "night waltz",
			"restState": {"machine": {"bpm": 96}},
			"drops": [{"kind": "drop_drum", "tick": 0, "drum": "bassdrum"}]
		},
		"events": [
			{"kind": "machine_mute", "tick": 0, "channel": "snare", "muted": true},
			{"kind": "drop_drum", "tick": 0, "drum": "snare", "bake": "MODIFIED_AUTO", "overrides": "bassdrum"},
			{"kind": "hihat_closed", "tick": 480, "closed": true}
		]
	}`

	perf, err := ParsePerformance([]byte(data))
	if err != nil {
		t.Fatalf("ParsePerformance() error = %v", err)
	}
	if perf.Program == nil || perf.Program.Meta.Name != "night waltz" {
		t.Fatalf("embedded program missing or wrong: %+v", perf.Program)
	}
	if len(perf.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(perf.Events))
	}
	drop, ok := perf.Events[1].(machine.DrumDrop)
	if !ok {
		t.Fatalf("event 1 = %T, want DrumDrop", perf.Events[1])
	}
	if drop.BakeType != machine.BakeModifiedAuto || drop.Overrides != machine.ChannelBassdrum {
		t.Errorf("drop = %+v, want modified auto overriding bassdrum", drop)
	}

	// The parsed document must replay cleanly end to end.
	state, err := machine.StateAt(perf, 0)
	if err != nil {
		t.Fatalf("StateAt() error = %v", err)
	}
	if !state.Machine.Muted(machine.ChannelSnare) {
		t.Error("snare should be muted at tick 0")
	}
}

func TestParsePerformanceRequiresProgram(t *testing.T) {
	data := `{"name": "x", "initialState": {}, "events": []}`
	_, err := ParsePerformance([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "no embedded program") {
		t.Errorf("ParsePerformance() error = %v, want missing-program rejection", err)
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	data := `{
		"name": "x",
		"initialState": {},
		"program": {"name": "p", "restState": {}, "drops": []},
		"events": [{"kind": "machine_detonate", "tick": 0}]
	}`
	_, err := ParsePerformance([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "unknown event kind") {
		t.Errorf("ParsePerformance() error = %v, want unknown-kind rejection", err)
	}
}

func TestPerformanceRoundTrip(t *testing.T) {
	perf := &machine.Performance{
		Meta: machine.Metadata{Name: "live take", Author: "rk"},
		Program: &machine.Program{
			Meta:      machine.Metadata{Name: "night waltz"},
			RestState: machine.NewState(),
			Drops: []machine.DropEvent{
				machine.DrumDrop{At: 0, Drum: machine.ChannelBassdrum},
				machine.BassDrop{At: 240, String: 1, Fret: 5},
			},
		},
		InitialState: machine.NewState(),
		Events: []machine.Event{
			machine.MachineTempo{At: 0, BPM: 90},
			machine.BassCapo{At: 0, CapoString: 2, Fret: 4},
			machine.VibraphoneDrop{At: 240, Slot: 7, BakeType: machine.BakeManual},
			machine.HihatMachineSetting{At: 480, State: machine.HihatMachineState{Setting: "pattern-a"}},
		},
	}

	data, err := MarshalPerformance(perf)
	if err != nil {
		t.Fatalf("MarshalPerformance() error = %v", err)
	}
	back, err := ParsePerformance(data)
	if err != nil {
		t.Fatalf("ParsePerformance() error = %v", err)
	}

	if !reflect.DeepEqual(back.Events, perf.Events) {
		t.Errorf("events did not survive the round trip:\ngot  = %+v\nwant = %+v", back.Events, perf.Events)
	}
	if !reflect.DeepEqual(back.Program.Drops, perf.Program.Drops) {
		t.Errorf("program drops did not survive the round trip:\ngot  = %+v\nwant = %+v", back.Program.Drops, perf.Program.Drops)
	}
	if back.Meta != perf.Meta || back.Program.Meta != perf.Program.Meta {
		t.Errorf("metadata did not survive: %+v / %+v", back.Meta, back.Program.Meta)
	}
}

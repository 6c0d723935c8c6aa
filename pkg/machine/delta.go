package machine

import (
	"fmt"
	"strconv"
)

// FieldChange names one state field that changed and its before/after
// values, formatted for renderers and logs. Fields use dotted paths
// ("machine.bpm", "machine.mute.snare", "bass.capo.2").
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// diffStates lists the field-level differences between two states in a
// fixed, deterministic order.
func diffStates(a, b State) []FieldChange {
	var out []FieldChange

	for _, ch := range Channels {
		out = appendChange(out, "machine.mute."+string(ch),
			strconv.FormatBool(a.Machine.Muted(ch)), strconv.FormatBool(b.Machine.Muted(ch)))
	}
	out = appendChange(out, "machine.bpm", formatFloat(a.Machine.BPM), formatFloat(b.Machine.BPM))
	out = appendChange(out, "machine.flywheelConnected",
		strconv.FormatBool(a.Machine.FlywheelConnected), strconv.FormatBool(b.Machine.FlywheelConnected))

	out = appendChange(out, "vibraphone.vibratoEnabled",
		strconv.FormatBool(a.Vibraphone.VibratoEnabled), strconv.FormatBool(b.Vibraphone.VibratoEnabled))
	out = appendChange(out, "vibraphone.vibratoSpeed",
		formatFloat(a.Vibraphone.VibratoSpeed), formatFloat(b.Vibraphone.VibratoSpeed))
	for i := 0; i < VibraphoneSlots; i++ {
		out = appendChange(out, fmt.Sprintf("vibraphone.note.%d", i),
			a.Vibraphone.Notes[i], b.Vibraphone.Notes[i])
	}

	for s := BassString(1); s <= NumBassStrings; s++ {
		out = appendChange(out, fmt.Sprintf("bass.capo.%d", s),
			strconv.Itoa(a.Bass.Capo(s)), strconv.Itoa(b.Bass.Capo(s)))
		out = appendChange(out, fmt.Sprintf("bass.tuning.%d", s),
			a.Bass.Tuning[s], b.Bass.Tuning[s])
	}

	out = appendChange(out, "hihatMachine.setting", a.HihatMachine.Setting, b.HihatMachine.Setting)
	out = appendChange(out, "hihat.closed",
		strconv.FormatBool(a.Hihat.Closed), strconv.FormatBool(b.Hihat.Closed))

	return out
}

func appendChange(out []FieldChange, field, from, to string) []FieldChange {
	if from == to {
		return out
	}
	return append(out, FieldChange{Field: field, From: from, To: to})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Package loader reads and writes the JSON documents that carry
// programs and performances. The replay core consumes only the parsed
// structures; this package owns the file format.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/james-see/marblereplay/pkg/machine"
)

// Format identifies a document format.
type Format string

const (
	FormatProgram     Format = "program"
	FormatPerformance Format = "performance"
	FormatUnknown     Format = "unknown"
)

// DetectFormat detects the document format from the filename.
func DetectFormat(filename string) Format {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".program.json"):
		return FormatProgram
	case strings.HasSuffix(name, ".performance.json"):
		return FormatPerformance
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects the document format by probing the
// JSON body: performances carry an initialState, programs a restState.
func DetectFormatFromContent(data []byte) Format {
	var probe struct {
		InitialState json.RawMessage `json:"initialState"`
		RestState    json.RawMessage `json:"restState"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return FormatUnknown
	}
	switch {
	case probe.InitialState != nil:
		return FormatPerformance
	case probe.RestState != nil:
		return FormatProgram
	default:
		return FormatUnknown
	}
}

type programDoc struct {
	Name      string        `json:"name"`
	Author    string        `json:"author,omitempty"`
	RestState machine.State `json:"restState"`
	Drops     []eventDoc    `json:"drops"`
}

type performanceDoc struct {
	Name         string        `json:"name"`
	Author       string        `json:"author,omitempty"`
	Program      *programDoc   `json:"program"`
	InitialState machine.State `json:"initialState"`
	Events       []eventDoc    `json:"events"`
}

// ParseProgram parses a program document.
func ParseProgram(data []byte) (*machine.Program, error) {
	var doc programDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}
	return doc.toProgram()
}

func (doc *programDoc) toProgram() (*machine.Program, error) {
	prog := &machine.Program{
		Meta:      machine.Metadata{Name: doc.Name, Author: doc.Author},
		RestState: doc.RestState,
	}
	for i, ed := range doc.Drops {
		ev, err := ed.toEvent()
		if err != nil {
			return nil, fmt.Errorf("program drop %d: %w", i, err)
		}
		drop, ok := ev.(machine.DropEvent)
		if !ok {
			return nil, fmt.Errorf("program drop %d: %q is not a drop event", i, ed.Kind)
		}
		prog.Drops = append(prog.Drops, drop)
	}
	return prog, nil
}

// ParsePerformance parses a performance document, including its
// embedded program.
func ParsePerformance(data []byte) (*machine.Performance, error) {
	var doc performanceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse performance: %w", err)
	}
	if doc.Program == nil {
		return nil, errors.New("performance document has no embedded program")
	}
	prog, err := doc.Program.toProgram()
	if err != nil {
		return nil, err
	}
	perf := &machine.Performance{
		Meta:         machine.Metadata{Name: doc.Name, Author: doc.Author},
		Program:      prog,
		InitialState: doc.InitialState,
	}
	for i, ed := range doc.Events {
		ev, err := ed.toEvent()
		if err != nil {
			return nil, fmt.Errorf("performance event %d: %w", i, err)
		}
		perf.Events = append(perf.Events, ev)
	}
	return perf, nil
}

// LoadProgram reads and parses a program file.
func LoadProgram(filename string) (*machine.Program, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}
	return ParseProgram(data)
}

// LoadPerformance reads and parses a performance file.
func LoadPerformance(filename string) (*machine.Performance, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read performance file: %w", err)
	}
	return ParsePerformance(data)
}

// MarshalProgram serializes a program document.
func MarshalProgram(prog *machine.Program) ([]byte, error) {
	doc := programDoc{
		Name:      prog.Meta.Name,
		Author:    prog.Meta.Author,
		RestState: prog.RestState,
	}
	for _, d := range prog.Drops {
		doc.Drops = append(doc.Drops, fromEvent(d))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalPerformance serializes a performance document with its
// program embedded.
func MarshalPerformance(perf *machine.Performance) ([]byte, error) {
	doc := performanceDoc{
		Name:         perf.Meta.Name,
		Author:       perf.Meta.Author,
		InitialState: perf.InitialState,
	}
	if perf.Program != nil {
		pd := programDoc{
			Name:      perf.Program.Meta.Name,
			Author:    perf.Program.Meta.Author,
			RestState: perf.Program.RestState,
		}
		for _, d := range perf.Program.Drops {
			pd.Drops = append(pd.Drops, fromEvent(d))
		}
		doc.Program = &pd
	}
	for _, ev := range perf.Events {
		doc.Events = append(doc.Events, fromEvent(ev))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteProgramFile serializes a program to a file.
func WriteProgramFile(prog *machine.Program, filename string) error {
	data, err := MarshalProgram(prog)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// WritePerformanceFile serializes a performance to a file.
func WritePerformanceFile(perf *machine.Performance, filename string) error {
	data, err := MarshalPerformance(perf)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

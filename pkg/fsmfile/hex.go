// Package fsmfile reads and writes machines: JSON, YAML, hex records, the
// zipped .fsm archive (machine.hex plus labels.yaml) and Graphviz DOT.
package fsmfile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// Record types
const (
	TypeMealyTransition uint16 = 0x0001
	TypeStateDecl       uint16 = 0x0002
)

// State declaration flags
const (
	FlagInitial uint16 = 0x0001
)

// Record represents a single hex record.
type Record struct {
	Type   uint16
	Field1 uint16 // source state or state ID
	Field2 uint16 // input or flags
	Field3 uint16 // target state
	Field4 uint16 // output
}

// FormatRecord formats a record as "TYPE SSSS:IIII TTTT:OOOO".
func FormatRecord(r Record) string {
	return fmt.Sprintf("%04X %04X:%04X %04X:%04X",
		r.Type, r.Field1, r.Field2, r.Field3, r.Field4)
}

// ParseRecord parses a record from "TYPE SSSS:IIII TTTT:OOOO" format.
func ParseRecord(s string) (Record, error) {
	clean := strings.ReplaceAll(s, " ", "")
	clean = strings.ReplaceAll(clean, ":", "")

	if len(clean) != 20 {
		return Record{}, fmt.Errorf("invalid record length: %d", len(clean))
	}

	var fields [5]uint16
	for i := range fields {
		v, err := strconv.ParseUint(clean[i*4:i*4+4], 16, 16)
		if err != nil {
			return Record{}, fmt.Errorf("invalid record %q: %w", s, err)
		}
		fields[i] = uint16(v)
	}
	return Record{
		Type:   fields[0],
		Field1: fields[1],
		Field2: fields[2],
		Field3: fields[3],
		Field4: fields[4],
	}, nil
}

var recordPattern = regexp.MustCompile(`([0-9A-Fa-f]{4})\s*([0-9A-Fa-f]{4}):([0-9A-Fa-f]{4})\s*([0-9A-Fa-f]{4}):([0-9A-Fa-f]{4})`)

// ParseHex parses hex records from text. Lines starting with # are
// comments.
func ParseHex(text string) ([]Record, error) {
	var cleanLines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cleanLines = append(cleanLines, line)
	}
	text = strings.Join(cleanLines, " ")

	var records []Record
	for _, m := range recordPattern.FindAllStringSubmatch(text, -1) {
		r, err := ParseRecord(fmt.Sprintf("%s %s:%s %s:%s", m[1], m[2], m[3], m[4], m[5]))
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// FormatHex formats records as text, width records per line.
func FormatHex(records []Record, width int) string {
	var lines []string
	for i := 0; i < len(records); i += width {
		end := min(i+width, len(records))
		row := make([]string, 0, end-i)
		for _, r := range records[i:end] {
			row = append(row, FormatRecord(r))
		}
		lines = append(lines, strings.Join(row, "   "))
	}
	return strings.Join(lines, "\n")
}

// FSMToRecords converts an FSM to hex records. It also returns the label
// tables mapping record indices back to state, input and output names.
func FSMToRecords(f *fsm.FSM) ([]Record, map[int]string, map[int]string, map[int]string) {
	stateNames := indexNames(f.States)
	inputNames := indexNames(f.Alphabet)
	outputNames := indexNames(f.OutputAlphabet)

	var records []Record
	if i := f.StateIndex(f.Initial); i >= 0 {
		records = append(records, Record{
			Type:   TypeStateDecl,
			Field1: uint16(i),
			Field2: FlagInitial,
		})
	}
	for _, t := range f.Transitions {
		records = append(records, Record{
			Type:   TypeMealyTransition,
			Field1: uint16(f.StateIndex(t.From)),
			Field2: uint16(f.InputIndex(t.Input)),
			Field3: uint16(f.StateIndex(t.To)),
			Field4: uint16(f.OutputIndex(t.Output)),
		})
	}
	return records, stateNames, inputNames, outputNames
}

func indexNames(names []string) map[int]string {
	m := make(map[int]string, len(names))
	for i, n := range names {
		m[i] = n
	}
	return m
}

// RecordsToFSM converts hex records to an FSM. Names come from labels when
// present and default to S<n>, i<n> and o<n>.
func RecordsToFSM(records []Record, labels *Labels) (*fsm.FSM, error) {
	stateIDs := make(map[int]bool)
	inputIDs := make(map[int]bool)
	outputIDs := make(map[int]bool)
	initialState := -1

	for i, r := range records {
		switch r.Type {
		case TypeStateDecl:
			stateIDs[int(r.Field1)] = true
			if r.Field2&FlagInitial != 0 {
				initialState = int(r.Field1)
			}
		case TypeMealyTransition:
			stateIDs[int(r.Field1)] = true
			stateIDs[int(r.Field3)] = true
			inputIDs[int(r.Field2)] = true
			outputIDs[int(r.Field4)] = true
		default:
			return nil, fmt.Errorf("record %d: unsupported record type %04X", i, r.Type)
		}
	}

	if labels == nil {
		labels = &Labels{}
	}
	name := func(m map[int]string, prefix string, i int) string {
		if n, ok := m[i]; ok {
			return n
		}
		return fmt.Sprintf("%s%d", prefix, i)
	}
	stateName := func(i int) string { return name(labels.States, "S", i) }
	inputName := func(i int) string { return name(labels.Inputs, "i", i) }
	outputName := func(i int) string { return name(labels.Outputs, "o", i) }

	f := fsm.New()
	f.Name = labels.FSM.Name
	f.Description = labels.FSM.Description

	for i := 0; i <= maxKey(stateIDs); i++ {
		if stateIDs[i] {
			f.AddState(stateName(i))
		}
	}
	for i := 0; i <= maxKey(inputIDs); i++ {
		if inputIDs[i] {
			f.AddInput(inputName(i))
		}
	}
	for i := 0; i <= maxKey(outputIDs); i++ {
		if outputIDs[i] {
			f.AddOutput(outputName(i))
		}
	}
	if initialState >= 0 {
		f.SetInitial(stateName(initialState))
	}

	for _, r := range records {
		if r.Type != TypeMealyTransition {
			continue
		}
		f.AddTransition(
			stateName(int(r.Field1)),
			inputName(int(r.Field2)),
			stateName(int(r.Field3)),
			outputName(int(r.Field4)),
		)
	}
	return f, nil
}

func maxKey(m map[int]bool) int {
	max := -1
	for k := range m {
		if k > max {
			max = k
		}
	}
	return max
}

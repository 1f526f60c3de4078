// Run with: go test -fuzz=FuzzParseHex -fuzztime=30s ./pkg/fsmfile/
package fsmfile_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
	"github.com/ha1tch/fsm-conformance/pkg/fsmfile"
)

const seedMealy = `{"type":"mealy","states":["s0","s1"],"alphabet":["a","b"],"initial":"s0","transitions":[` +
	`{"from":"s0","input":"a","to":"s1","output":"x"},{"from":"s0","input":"b","to":"s0","output":"y"},` +
	`{"from":"s1","input":"a","to":"s0","output":"y"},{"from":"s1","input":"b","to":"s1","output":"x"}]}`

// FuzzParseHex looks for panics in the hex record parser.
func FuzzParseHex(f *testing.F) {
	f.Add("0001 0000:0000 0001:0002")
	f.Add("0002 0000:0001 0000:0000")
	f.Add("")
	f.Add("0000")
	f.Add("0000 0000:0000")
	f.Add("FFFF FFFF:FFFF FFFF:FFFF")
	f.Add("0001 0000:0000 0001:0000\n# comment\n0001 0001:0000 0000:0000")
	f.Add("0001 0000:0000 0001:0000 extra garbage")
	f.Add("0001\t0000:0000\t0001:0000")
	f.Add("zzzz zzzz:zzzz zzzz:zzzz")

	f.Fuzz(func(t *testing.T, data string) {
		records, err := fsmfile.ParseHex(data)
		if err == nil && len(records) > 0 {
			_ = fsmfile.FormatHex(records, 4)
		}
	})
}

// FuzzParseRecord checks that every parsable record round-trips.
func FuzzParseRecord(f *testing.F) {
	f.Add("0001 0000:0000 0001:0002")
	f.Add("0002 0000:0001 0000:0000")
	f.Add("")
	f.Add("0")
	f.Add("00000000000000000000")
	f.Add("FFFFFFFFFFFFFFFFFFFFFFFF")

	f.Fuzz(func(t *testing.T, data string) {
		record, err := fsmfile.ParseRecord(data)
		if err != nil {
			return
		}
		formatted := fsmfile.FormatRecord(record)
		record2, err := fsmfile.ParseRecord(formatted)
		if err != nil {
			t.Fatalf("round-trip failed: %q -> %q: %v", data, formatted, err)
		}
		if record != record2 {
			t.Errorf("round-trip mismatch: %v != %v", record, record2)
		}
	})
}

// FuzzParseJSON looks for panics in schema validation and decoding.
func FuzzParseJSON(f *testing.F) {
	f.Add([]byte(seedMealy))
	f.Add([]byte(`{"type":"mealy","states":["s0"],"alphabet":["a"],"initial":"s0","transitions":[]}`))
	f.Add([]byte(`{"type":"dfa","states":["s0"],"alphabet":["a"],"initial":"s0","transitions":[]}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`null`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := fsmfile.ParseJSON(data)
		if err != nil {
			return
		}
		out, err := fsmfile.ToJSON(m, false)
		if err != nil {
			t.Fatalf("ToJSON: %v", err)
		}
		if _, err := fsmfile.ParseJSON(out); err != nil {
			t.Errorf("re-parse of %s: %v", out, err)
		}
	})
}

// FuzzParseYAML looks for panics in the YAML decoder.
func FuzzParseYAML(f *testing.F) {
	f.Add([]byte("states: [a]\nalphabet: [x]\ninitial: a\ntransitions:\n  - [a, x, a, o]\n"))
	f.Add([]byte("type: moore\n"))
	f.Add([]byte("transitions:\n  - [a, x]\n"))
	f.Add([]byte(""))

	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := fsmfile.ParseYAML(data)
		if err == nil {
			_, _ = fsmfile.ToYAML(m)
		}
	})
}

// FuzzRecordsToFSM converts arbitrary record lists and back.
func FuzzRecordsToFSM(f *testing.F) {
	seeds := [][]fsmfile.Record{
		{},
		{{Type: fsmfile.TypeStateDecl, Field1: 0, Field2: 1}},
		{
			{Type: fsmfile.TypeStateDecl, Field1: 0, Field2: 1},
			{Type: fsmfile.TypeMealyTransition, Field1: 0, Field2: 0, Field3: 1, Field4: 0},
			{Type: fsmfile.TypeMealyTransition, Field1: 1, Field2: 0, Field3: 0, Field4: 1},
		},
		{{Type: 0x0003}},
	}
	for _, records := range seeds {
		data, _ := json.Marshal(records)
		f.Add(data)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		var records []fsmfile.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return
		}
		m, err := fsmfile.RecordsToFSM(records, nil)
		if err == nil {
			_, _, _, _ = fsmfile.FSMToRecords(m)
		}
	})
}

// FuzzFSMArchive reads malformed .fsm archives.
func FuzzFSMArchive(f *testing.F) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("machine.hex")
	w.Write([]byte("0002 0000:0001 0000:0000\n0001 0000:0000 0000:0000"))
	lw, _ := zw.Create("labels.yaml")
	lw.Write([]byte("fsm:\n  version: 1\n  type: mealy\nstates:\n  0: idle\n"))
	zw.Close()
	f.Add(buf.Bytes())

	buf.Reset()
	zw = zip.NewWriter(&buf)
	zw.Close()
	f.Add(buf.Bytes())

	f.Add([]byte{})
	f.Add([]byte{0x50, 0x4B, 0x03, 0x04})
	f.Add([]byte("not a zip"))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = fsmfile.ReadFSMBytes(data)
	})
}

// FuzzRunner steps a parsed machine through arbitrary input.
func FuzzRunner(f *testing.F) {
	f.Add([]byte(seedMealy), "a")
	f.Add([]byte(seedMealy), "abab")
	f.Add([]byte(seedMealy), "")
	f.Add([]byte(seedMealy), "xyz")

	f.Fuzz(func(t *testing.T, data []byte, inputs string) {
		m, err := fsmfile.ParseJSON(data)
		if err != nil {
			return
		}
		_ = m.Analyse()
		runner, err := fsm.NewRunner(m)
		if err != nil {
			return
		}
		for _, r := range inputs {
			_, _ = runner.Step(string(r))
		}
		_ = runner.CurrentState()
		_ = runner.History()
		_ = runner.Trace()
		runner.Reset()
	})
}

// FuzzDOT checks DOT output stays well-formed for arbitrary titles.
func FuzzDOT(f *testing.F) {
	f.Add([]byte(seedMealy), "Test")
	f.Add([]byte(seedMealy), "")
	f.Add([]byte(seedMealy), "Title with \"quotes\" and \\ backslash")

	f.Fuzz(func(t *testing.T, data []byte, title string) {
		m, err := fsmfile.ParseJSON(data)
		if err != nil {
			return
		}
		dot := fsmfile.GenerateDOT(m, fsmfile.DOTOptions{Title: title, Highlight: [][]string{m.Alphabet}})
		if !strings.HasPrefix(dot, "digraph") {
			t.Error("generated DOT does not start with digraph")
		}
	})
}

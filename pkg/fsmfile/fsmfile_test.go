package fsmfile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
	"github.com/ha1tch/fsm-conformance/pkg/fsmfile"
)

func sampleFSM() *fsm.FSM {
	f := fsm.New()
	f.Name = "toggle"
	f.Description = "two-state toggle"
	f.AddTransition("off", "push", "on", "light")
	f.AddTransition("off", "wait", "off", "dark")
	f.AddTransition("on", "push", "off", "dark")
	f.AddTransition("on", "wait", "on", "light")
	f.SetInitial("off")
	return f
}

func TestJSONRoundTrip(t *testing.T) {
	orig := sampleFSM()
	for _, pretty := range []bool{false, true} {
		data, err := fsmfile.ToJSON(orig, pretty)
		require.NoError(t, err)
		require.NoError(t, fsmfile.ValidateJSON(data))

		got, err := fsmfile.ParseJSON(data)
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	}
}

func TestValidateJSONRejectsMalformedMachines(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing states", `{"alphabet":["a"],"initial":"s","transitions":[]}`},
		{"wrong type", `{"type":"dfa","states":["s"],"alphabet":["a"],"initial":"s","transitions":[]}`},
		{"nondeterministic target", `{"states":["s"],"alphabet":["a"],"initial":"s","transitions":[{"from":"s","input":"a","to":["s"],"output":"x"}]}`},
		{"missing output", `{"states":["s"],"alphabet":["a"],"initial":"s","transitions":[{"from":"s","input":"a","to":"s"}]}`},
		{"empty state name", `{"states":[""],"alphabet":["a"],"initial":"s","transitions":[]}`},
		{"not json", `states: [s]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, fsmfile.ValidateJSON([]byte(tt.data)))
			_, err := fsmfile.ParseJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	orig := sampleFSM()
	data, err := fsmfile.ToYAML(orig)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: mealy")

	got, err := fsmfile.ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestParseYAMLFlowTransitions(t *testing.T) {
	src := `
name: example
states: ["0", "1"]
alphabet: [A, B]
initial: "0"
transitions:
  - ["0", A, "0", X]
  - ["0", B, "1", Y]
  - ["1", A, "0", Y]
  - ["1", B, "1", X]
`
	f, err := fsmfile.ParseYAML([]byte(src))
	require.NoError(t, err)
	require.NoError(t, f.Validate())
	assert.Equal(t, []string{"X", "Y"}, f.OutputAlphabet)
	assert.Equal(t, fsm.Transition{From: "0", Input: "B", To: "1", Output: "Y"}, f.Transitions[1])

	_, err = fsmfile.ParseYAML([]byte("type: moore\nstates: [a]\n"))
	assert.Error(t, err)
	_, err = fsmfile.ParseYAML([]byte("states: [a]\nunknown: 1\n"))
	assert.Error(t, err)
	_, err = fsmfile.ParseYAML([]byte("transitions:\n  - [a, b]\n"))
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	f := sampleFSM()
	records, states, inputs, outputs := fsmfile.FSMToRecords(f)

	require.Len(t, records, 5)
	assert.Equal(t, fsmfile.Record{Type: fsmfile.TypeStateDecl, Field1: 0, Field2: fsmfile.FlagInitial}, records[0])
	assert.Equal(t, fsmfile.Record{Type: fsmfile.TypeMealyTransition, Field1: 0, Field2: 0, Field3: 1, Field4: 0}, records[1])
	assert.Equal(t, map[int]string{0: "off", 1: "on"}, states)
	assert.Equal(t, map[int]string{0: "push", 1: "wait"}, inputs)
	assert.Equal(t, map[int]string{0: "light", 1: "dark"}, outputs)

	assert.Equal(t, "0001 0000:0000 0001:0000", fsmfile.FormatRecord(records[1]))
}

func TestHexRoundTripWithoutLabels(t *testing.T) {
	records, _, _, _ := fsmfile.FSMToRecords(sampleFSM())
	text := "# toggle\n" + fsmfile.FormatHex(records, 2)

	parsed, err := fsmfile.ParseHex(text)
	require.NoError(t, err)
	assert.Equal(t, records, parsed)

	f, err := fsmfile.RecordsToFSM(parsed, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"S0", "S1"}, f.States)
	assert.Equal(t, []string{"i0", "i1"}, f.Alphabet)
	assert.Equal(t, []string{"o0", "o1"}, f.OutputAlphabet)
	assert.Equal(t, "S0", f.Initial)
	assert.NoError(t, f.Validate())
}

func TestRecordsToFSMRejectsUnknownRecordTypes(t *testing.T) {
	_, err := fsmfile.RecordsToFSM([]fsmfile.Record{{Type: 0x0003}}, nil)
	assert.ErrorContains(t, err, "unsupported record type 0003")
}

func TestParseRecord(t *testing.T) {
	r, err := fsmfile.ParseRecord("0001 000A:000B 000C:000D")
	require.NoError(t, err)
	assert.Equal(t, fsmfile.Record{Type: 1, Field1: 10, Field2: 11, Field3: 12, Field4: 13}, r)

	_, err = fsmfile.ParseRecord("0001 000A")
	assert.Error(t, err)
	_, err = fsmfile.ParseRecord("zzzz 0000:0000 0000:0000")
	assert.Error(t, err)
}

func TestArchiveRoundTrip(t *testing.T) {
	orig := sampleFSM()

	var buf bytes.Buffer
	require.NoError(t, fsmfile.WriteFSM(&buf, orig, true))
	got, err := fsmfile.ReadFSMBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	buf.Reset()
	require.NoError(t, fsmfile.WriteFSM(&buf, orig, false))
	unlabelled, err := fsmfile.ReadFSMBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"S0", "S1"}, unlabelled.States)
	assert.Empty(t, unlabelled.Name)
}

func TestLabels(t *testing.T) {
	data, err := fsmfile.GenerateLabels(sampleFSM(), map[int]string{0: "off"}, nil, nil)
	require.NoError(t, err)

	l, err := fsmfile.ParseLabels(data)
	require.NoError(t, err)
	assert.Equal(t, 1, l.FSM.Version)
	assert.Equal(t, "mealy", l.FSM.Type)
	assert.Equal(t, "toggle", l.FSM.Name)
	assert.Equal(t, map[int]string{0: "off"}, l.States)

	_, err = fsmfile.ParseLabels([]byte("fsm:\n  type: nfa\n"))
	assert.Error(t, err)
}

func TestReadFSMBytesMissingHex(t *testing.T) {
	_, err := fsmfile.ReadFSMBytes([]byte("not a zip"))
	assert.Error(t, err)
}

func TestGenerateDOT(t *testing.T) {
	dot := fsmfile.GenerateDOT(sampleFSM(), fsmfile.DOTOptions{Title: `say "hi"`})
	assert.True(t, strings.HasPrefix(dot, "digraph FSM {"))
	assert.Contains(t, dot, `label="say \"hi\"";`)
	assert.Contains(t, dot, `__start -> "off";`)
	assert.Contains(t, dot, `"off" -> "on" [label="push/light"];`)
	assert.Contains(t, dot, `"off" -> "off" [label="wait/dark"];`)
	assert.NotContains(t, dot, "style=bold")
}

func TestGenerateDOTHighlightsWalkedEdges(t *testing.T) {
	dot := fsmfile.GenerateDOT(sampleFSM(), fsmfile.DOTOptions{
		Highlight: [][]string{{"push"}, {"push", "push"}, {"bogus"}},
	})
	assert.Contains(t, dot, `"off" -> "on" [label="push/light", style=bold`)
	assert.Contains(t, dot, `"on" -> "off" [label="push/dark", style=bold`)
	assert.Contains(t, dot, `"off" -> "off" [label="wait/dark"];`)
	assert.Contains(t, dot, `"on" -> "on" [label="wait/light"];`)
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	orig := sampleFSM()

	for _, name := range []string{"m.json", "m.yaml", "m.yml", "m.fsm"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, fsmfile.Save(path, orig))
			got, err := fsmfile.Load(path)
			require.NoError(t, err)
			assert.Equal(t, orig, got)
		})
	}

	path := filepath.Join(dir, "m.hex")
	require.NoError(t, fsmfile.Save(path, orig))
	got, err := fsmfile.Load(path)
	require.NoError(t, err)
	assert.Len(t, got.Transitions, 4)
	assert.Len(t, got.States, len(orig.States))

	format, err := fsmfile.FormatFromPath("machines/M.HEX")
	require.NoError(t, err)
	assert.Equal(t, fsmfile.FormatHexRecords, format)

	_, err = fsmfile.Load(filepath.Join(dir, "m.txt"))
	assert.Error(t, err)
	assert.Error(t, fsmfile.Save(filepath.Join(dir, "m.png"), orig))

	_, err = fsmfile.Load(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

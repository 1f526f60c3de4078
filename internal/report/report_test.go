package report

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

func exampleFSM() *fsm.FSM {
	f := fsm.New()
	f.Name = "example"
	f.AddTransition("0", "A", "0", "X")
	f.AddTransition("0", "B", "1", "Y")
	f.AddTransition("1", "A", "2", "Y")
	f.AddTransition("1", "B", "3", "X")
	f.AddTransition("2", "A", "3", "X")
	f.AddTransition("2", "B", "0", "X")
	f.AddTransition("3", "A", "3", "X")
	f.AddTransition("3", "B", "0", "Y")
	f.SetInitial("0")
	return f
}

// fullReport fills every section, including a failing execution and
// surviving mutants.
func fullReport(t *testing.T, opts conformance.Options) *Report {
	t.Helper()
	f := exampleFSM()
	a, err := conformance.Analyze(f, opts)
	require.NoError(t, err)
	suite, err := a.Suite(conformance.MethodWp, "R")
	require.NoError(t, err)

	impl := f.Clone()
	impl.Transitions[2].Output = "X"
	ex, err := conformance.Execute(a.Table, fsm.NewTable(impl), f.Initial, impl.Initial, suite)
	require.NoError(t, err)

	score, err := conformance.Score(f, suite[:2], conformance.Mutants(f))
	require.NoError(t, err)

	r := New(f)
	r.Analysis = a
	r.SetSuite(conformance.MethodWp, "R", false, suite)
	r.Execution = ex
	r.Mutation = score
	return r
}

func compileSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	sch, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
	require.NoError(t, err, "parse schema JSON")
	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("schema.json", sch))
	compiled, err := compiler.Compile("schema.json")
	require.NoError(t, err, "compile schema")
	return compiled
}

func TestWriteJSON_ValidAgainstSchema(t *testing.T) {
	compiled := compileSchema(t)

	reports := map[string]*Report{
		"full":         fullReport(t, conformance.DefaultOptions()),
		"machine only": New(exampleFSM()),
		"empty":        New(fsm.New()),
	}
	incomplete := conformance.DefaultOptions()
	incomplete.MaxLength = 1
	reports["incomplete"] = fullReport(t, incomplete)

	for name, r := range reports {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteJSON(&buf, r))

			inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.NoError(t, compiled.Validate(inst), buf.String())
		})
	}
}

func TestWriteJSON_Content(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fullReport(t, conformance.DefaultOptions())))

	var got struct {
		Version string `json:"version"`
		Machine struct {
			States []string `json:"states"`
		} `json:"machine"`
		Analysis struct {
			Distinguishing []string `json:"distinguishing_sequence"`
			Characterizing struct {
				Sequences [][]string `json:"sequences"`
				Complete  bool       `json:"complete"`
			} `json:"characterizing_set"`
		} `json:"analysis"`
		Suite struct {
			Size  int      `json:"size"`
			Tests []string `json:"tests"`
		} `json:"suite"`
		Mutation struct {
			Total int `json:"total"`
		} `json:"mutation"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, Version, got.Version)
	assert.Equal(t, []string{"0", "1", "2", "3"}, got.Machine.States)
	assert.Equal(t, []string{"B", "B", "A"}, got.Analysis.Distinguishing)
	assert.Equal(t, [][]string{{"A"}, {"B"}, {"B", "A"}}, got.Analysis.Characterizing.Sequences)
	assert.True(t, got.Analysis.Characterizing.Complete)
	assert.Equal(t, 33, got.Suite.Size)
	assert.Equal(t, "R.A", got.Suite.Tests[0])
	assert.Equal(t, 32, got.Mutation.Total)
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, fullReport(t, conformance.DefaultOptions())))
	out := stripANSI(buf.String())

	for _, want := range []string{
		"=== example ===",
		"4 states, 2 inputs, 2 outputs, 8 transitions; initial 0",
		"BBA",
		"{A, B, BA}",
		"Identifying sets",
		"ACCESS SEQUENCE",
		"ε",
		"Wp-method suite",
		"RB.B.BA",
		"Execution",
		"Failed",
		"Mutation score",
		"survived:",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteTextIncomplete(t *testing.T) {
	opts := conformance.DefaultOptions()
	opts.MaxLength = 1

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, fullReport(t, opts)))
	out := stripANSI(buf.String())

	assert.Contains(t, out, "none within bound 1")
	assert.Contains(t, out, "INCOMPLETE")
	assert.Contains(t, out, "undistinguished: (0,3)")
}

func TestWriteTextMultiCharSymbols(t *testing.T) {
	assert.Equal(t, "ε", seqText(conformance.Sequence{}))
	assert.Equal(t, "AB", seqText(conformance.Sequence{"A", "B"}))
	assert.Equal(t, "go stop", seqText(conformance.Sequence{"go", "stop"}))
	assert.Equal(t, "{ε, go}", setText([]conformance.Sequence{{}, {"go"}}))
}

func TestWriteQuery(t *testing.T) {
	r := fullReport(t, conformance.DefaultOptions())

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"raw string", ".suite.tests[0]", "R.A\n"},
		{"number", ".mutation.total", "32\n"},
		{"array", `.analysis.characterizing_set.sequences | map(join(""))`, `["A","B","BA"]` + "\n"},
		{"stream", ".suite.tests[:2][]", "R.A\nR.B\n"},
		{"empty", ".suite.tests[] | select(. == \"none\")", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteQuery(context.Background(), &buf, r, tt.query))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteQueryErrors(t *testing.T) {
	r := fullReport(t, conformance.DefaultOptions())
	var buf bytes.Buffer

	err := WriteQuery(context.Background(), &buf, r, ".suite.tests[")
	assert.ErrorContains(t, err, "parse query")

	err = WriteQuery(context.Background(), &buf, r, `.version | error("boom")`)
	assert.ErrorContains(t, err, "boom")
}

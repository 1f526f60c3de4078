package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// GenerateGoTests generates a self-contained Go test file that replays
// suite. The file embeds the machine's transition table, one case per test
// with its expected output trace, and a TestConformance function.
//
// Cases run against conformanceNew, which defaults to the embedded table.
// To test a real implementation, assign conformanceNew from an init
// function in another file of the same package.
func GenerateGoTests(f *fsm.FSM, suite conformance.Suite, packageName string) (string, error) {
	table, err := fsm.Compile(f)
	if err != nil {
		return "", err
	}
	if packageName == "" {
		packageName = "fsm"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `// Code generated from FSM definition. DO NOT EDIT.
// FSM: %s
// Tests: %d

package %s

import "testing"

// ConformanceMachine is the system under test.
type ConformanceMachine interface {
	// Reset returns the machine to its initial state.
	Reset()
	// Step applies input and returns the output, or false when the input
	// is not accepted.
	Step(input string) (output string, ok bool)
}

type conformanceEdge struct {
	to, output string
}

`, f.Name, len(suite), packageName)

	sb.WriteString("var conformanceTable = map[string]map[string]conformanceEdge{\n")
	for _, s := range f.States {
		fmt.Fprintf(&sb, "\t%q: {\n", s)
		for _, in := range f.Alphabet {
			to, out, err := table.Next(s, in)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "\t\t%q: {%q, %q},\n", in, to, out)
		}
		sb.WriteString("\t},\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString(`type conformanceReference struct {
	state string
}

func (m *conformanceReference) Reset() {
`)
	fmt.Fprintf(&sb, "\tm.state = %q\n", f.Initial)
	sb.WriteString(`}

func (m *conformanceReference) Step(input string) (string, bool) {
	e, ok := conformanceTable[m.state][input]
	if !ok {
		return "", false
	}
	m.state = e.to
	return e.output, true
}

var conformanceNew = func() ConformanceMachine { return &conformanceReference{} }

var conformanceCases = []struct {
	name   string
	inputs []string
	want   []string
}{
`)
	for _, tc := range suite {
		_, want, err := conformance.Run(table, f.Initial, tc.Symbols())
		if err != nil {
			return "", fmt.Errorf("test %s: %w", tc, err)
		}
		fmt.Fprintf(&sb, "\t{%q, %s, %s},\n", tc.String(), goStrings(tc.Symbols()), goStrings(want))
	}
	sb.WriteString(`}

func TestConformance(t *testing.T) {
	for _, tc := range conformanceCases {
		t.Run(tc.name, func(t *testing.T) {
			m := conformanceNew()
			m.Reset()
			for i, in := range tc.inputs {
				got, ok := m.Step(in)
				if !ok {
					t.Fatalf("step %d: input %q rejected", i, in)
				}
				if got != tc.want[i] {
					t.Fatalf("step %d: input %q: got output %q, want %q", i, in, got, tc.want[i])
				}
			}
		})
	}
}
`)
	return sb.String(), nil
}

func goStrings(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

package conformance

import (
	"errors"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// Verdict is the outcome of one test against an implementation.
type Verdict struct {
	Test       string `json:"test"`
	Passed     bool   `json:"passed"`
	Expected   Trace  `json:"expected"`
	Actual     Trace  `json:"actual"`
	Divergence int    `json:"divergence"` // index of the first differing output, -1 when passed
	Error      string `json:"error,omitempty"`
}

// Execution collects the verdicts of a suite run.
type Execution struct {
	Verdicts []Verdict `json:"verdicts"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
}

// Execute runs every test of suite against impl and compares each output
// trace with the one spec produces. Each test starts from the respective
// initial state. A missing transition in impl fails the test; a missing
// transition in spec is returned as an error.
func Execute(spec, impl Machine, specInitial, implInitial string, suite Suite) (*Execution, error) {
	ex := &Execution{Verdicts: make([]Verdict, 0, len(suite))}
	for _, tc := range suite {
		symbols := tc.Symbols()
		_, want, err := Run(spec, specInitial, symbols)
		if err != nil {
			return nil, err
		}

		v := Verdict{Test: tc.String(), Expected: want, Divergence: -1}
		got, err := runPartial(impl, implInitial, symbols)
		v.Actual = got
		if err != nil {
			var undef *fsm.UndefinedTransitionError
			if !errors.As(err, &undef) {
				return nil, err
			}
			v.Error = err.Error()
			v.Divergence = len(got)
		} else if i := firstDifference(want, got); i >= 0 {
			v.Divergence = i
		}

		v.Passed = v.Divergence < 0
		if v.Passed {
			ex.Passed++
		} else {
			ex.Failed++
		}
		ex.Verdicts = append(ex.Verdicts, v)
	}
	return ex, nil
}

// runPartial is Run, but keeps the outputs produced before a failure.
func runPartial(m Machine, start string, seq Sequence) (Trace, error) {
	state := start
	trace := make(Trace, 0, len(seq))
	for _, in := range seq {
		next, out, err := m.Next(state, in)
		if err != nil {
			return trace, err
		}
		state = next
		trace = append(trace, out)
	}
	return trace, nil
}

func firstDifference(a, b Trace) int {
	for i := range a {
		if i >= len(b) || a[i] != b[i] {
			return i
		}
	}
	if len(b) > len(a) {
		return len(a)
	}
	return -1
}

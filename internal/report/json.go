// Package report renders analysis, suite, execution and mutation results
// as styled text or JSON.
package report

import (
	"encoding/json"
	"io"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// Version is the JSON report format version.
const Version = "1.0.0"

// Report is the top-level output structure. Sections other than Machine
// are optional and filled by the command that produced the report.
type Report struct {
	Version   string                     `json:"version"`
	Machine   Machine                    `json:"machine"`
	Analysis  *conformance.Analysis      `json:"analysis,omitempty"`
	Suite     *Suite                     `json:"suite,omitempty"`
	Execution *conformance.Execution     `json:"execution,omitempty"`
	Mutation  *conformance.MutationScore `json:"mutation,omitempty"`
}

// Machine summarizes the machine under analysis.
type Machine struct {
	Name        string   `json:"name,omitempty"`
	Initial     string   `json:"initial"`
	States      []string `json:"states"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
	Transitions int      `json:"transitions"`
}

// Suite describes a generated test suite.
type Suite struct {
	Method    conformance.Method `json:"method"`
	Reset     string             `json:"reset"`
	Minimized bool               `json:"minimized"`
	Size      int                `json:"size"`
	Tests     []string           `json:"tests"`
}

// New starts a report for f.
func New(f *fsm.FSM) *Report {
	return &Report{
		Version: Version,
		Machine: Machine{
			Name:        f.Name,
			Initial:     f.Initial,
			States:      nonNil(f.States),
			Inputs:      nonNil(f.Alphabet),
			Outputs:     nonNil(f.OutputAlphabet),
			Transitions: len(f.Transitions),
		},
	}
}

// SetSuite records a generated suite.
func (r *Report) SetSuite(method conformance.Method, reset string, minimized bool, suite conformance.Suite) {
	r.Suite = &Suite{
		Method:    method,
		Reset:     reset,
		Minimized: minimized,
		Size:      len(suite),
		Tests:     nonNil(suite.Strings()),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

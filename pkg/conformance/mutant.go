package conformance

import (
	"fmt"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// MutantKind is the kind of single fault seeded into a mutant.
type MutantKind string

const (
	OutputFault   MutantKind = "output"
	TransferFault MutantKind = "transfer"
)

// Mutant is a copy of a machine with one transition altered.
type Mutant struct {
	Kind        MutantKind     `json:"kind"`
	Original    fsm.Transition `json:"original"`
	Replacement string         `json:"replacement"`
	FSM         *fsm.FSM       `json:"-"`
}

func (m Mutant) String() string {
	t := m.Original
	switch m.Kind {
	case OutputFault:
		return fmt.Sprintf("%s -%s/%s-> %s (output %s)", t.From, t.Input, t.Output, t.To, m.Replacement)
	default:
		return fmt.Sprintf("%s -%s/%s-> %s (target %s)", t.From, t.Input, t.Output, t.To, m.Replacement)
	}
}

// Mutants returns every single output fault (each transition's output
// replaced by each other output symbol) and every single transfer fault
// (each transition's target replaced by each other state). The mutants keep
// the original state set, so a complete W-method suite detects every
// mutant that is not equivalent to f.
func Mutants(f *fsm.FSM) []Mutant {
	var out []Mutant
	for k, t := range f.Transitions {
		for _, o := range f.OutputAlphabet {
			if o == t.Output {
				continue
			}
			c := f.Clone()
			c.Transitions[k].Output = o
			out = append(out, Mutant{Kind: OutputFault, Original: t, Replacement: o, FSM: c})
		}
		for _, s := range f.States {
			if s == t.To {
				continue
			}
			c := f.Clone()
			c.Transitions[k].To = s
			out = append(out, Mutant{Kind: TransferFault, Original: t, Replacement: s, FSM: c})
		}
	}
	return out
}

// MutationScore summarizes how many mutants a suite detects.
type MutationScore struct {
	Total     int      `json:"total"`
	Killed    int      `json:"killed"`
	Survivors []Mutant `json:"survivors,omitempty"`
}

// Ratio returns killed/total, or 1 when there are no mutants.
func (s *MutationScore) Ratio() float64 {
	if s.Total == 0 {
		return 1
	}
	return float64(s.Killed) / float64(s.Total)
}

// Score runs suite against every mutant of spec.
func Score(spec *fsm.FSM, suite Suite, mutants []Mutant) (*MutationScore, error) {
	table, err := fsm.Compile(spec)
	if err != nil {
		return nil, err
	}
	score := &MutationScore{Total: len(mutants)}
	for _, mu := range mutants {
		ex, err := Execute(table, fsm.NewTable(mu.FSM), spec.Initial, mu.FSM.Initial, suite)
		if err != nil {
			return nil, fmt.Errorf("mutant %s: %w", mu, err)
		}
		if ex.Failed > 0 {
			score.Killed++
		} else {
			score.Survivors = append(score.Survivors, mu)
		}
	}
	return score, nil
}

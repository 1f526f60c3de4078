package fsm

import "fmt"

// UndefinedTransitionError is returned when a (state, input) pair has no
// transition. For a validated FSM this indicates a data-integrity fault.
type UndefinedTransitionError struct {
	State string
	Input string
}

func (e *UndefinedTransitionError) Error() string {
	return fmt.Sprintf("no transition from state %q on input %q", e.State, e.Input)
}

type edge struct {
	to     string
	output string
}

// Table is a compiled, read-only transition table for lookups by
// (state, input). It is safe for concurrent use.
type Table struct {
	edges map[string]map[string]edge
}

// NewTable compiles the transitions of f. Only the first transition for each
// (state, input) pair is kept; call Validate first to reject
// non-deterministic machines.
func NewTable(f *FSM) *Table {
	t := &Table{edges: make(map[string]map[string]edge, len(f.States))}
	for _, tr := range f.Transitions {
		row, ok := t.edges[tr.From]
		if !ok {
			row = make(map[string]edge)
			t.edges[tr.From] = row
		}
		if _, dup := row[tr.Input]; dup {
			continue
		}
		row[tr.Input] = edge{to: tr.To, output: tr.Output}
	}
	return t
}

// Compile validates f and returns its transition table.
func Compile(f *FSM) (*Table, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FSM: %w", err)
	}
	return NewTable(f), nil
}

// Next returns the state reached and the output produced by applying input
// in state.
func (t *Table) Next(state, input string) (string, string, error) {
	e, ok := t.edges[state][input]
	if !ok {
		return "", "", &UndefinedTransitionError{State: state, Input: input}
	}
	return e.to, e.output, nil
}

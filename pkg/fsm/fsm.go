// Package fsm provides core Mealy machine types and operations.
package fsm

import (
	"fmt"
	"strings"
)

// Type is the kind of machine recorded in file headers.
// Only Mealy machines are supported.
type Type string

const TypeMealy Type = "mealy"

// Transition represents a single Mealy transition.
type Transition struct {
	From   string `json:"from" yaml:"from"`
	Input  string `json:"input" yaml:"input"`
	To     string `json:"to" yaml:"to"`
	Output string `json:"output" yaml:"output"`
}

// FSM represents a deterministic Mealy machine.
type FSM struct {
	Name           string       `json:"name,omitempty" yaml:"name,omitempty"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty"`
	States         []string     `json:"states" yaml:"states"`
	Alphabet       []string     `json:"alphabet" yaml:"alphabet"`
	OutputAlphabet []string     `json:"output_alphabet,omitempty" yaml:"output_alphabet,omitempty"`
	Initial        string       `json:"initial" yaml:"initial"`
	Transitions    []Transition `json:"transitions" yaml:"transitions"`
}

// New creates an empty FSM.
func New() *FSM {
	return &FSM{
		States:         make([]string, 0),
		Alphabet:       make([]string, 0),
		OutputAlphabet: make([]string, 0),
		Transitions:    make([]Transition, 0),
	}
}

// AddState adds a state to the FSM.
func (f *FSM) AddState(name string) {
	if f.StateIndex(name) < 0 {
		f.States = append(f.States, name)
	}
}

// AddInput adds an input symbol to the alphabet.
func (f *FSM) AddInput(symbol string) {
	if f.InputIndex(symbol) < 0 {
		f.Alphabet = append(f.Alphabet, symbol)
	}
}

// AddOutput adds an output symbol to the output alphabet.
func (f *FSM) AddOutput(symbol string) {
	if f.OutputIndex(symbol) < 0 {
		f.OutputAlphabet = append(f.OutputAlphabet, symbol)
	}
}

// AddTransition adds a transition, registering any new states and symbols.
func (f *FSM) AddTransition(from, input, to, output string) {
	f.AddState(from)
	f.AddState(to)
	f.AddInput(input)
	f.AddOutput(output)
	f.Transitions = append(f.Transitions, Transition{
		From:   from,
		Input:  input,
		To:     to,
		Output: output,
	})
}

// SetInitial sets the initial state.
func (f *FSM) SetInitial(state string) {
	f.Initial = state
}

// ValidationError reports a structural problem with an FSM.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks that the FSM is well-formed, deterministic and
// completely specified.
func (f *FSM) Validate() error {
	if len(f.States) == 0 {
		return invalid("states", "FSM has no states")
	}
	if len(f.Alphabet) == 0 {
		return invalid("alphabet", "FSM has no inputs")
	}
	if f.Initial == "" {
		return invalid("initial", "FSM has no initial state")
	}
	if f.StateIndex(f.Initial) < 0 {
		return invalid("initial", "initial state %q not in states", f.Initial)
	}
	if s, ok := firstDuplicate(f.States); ok {
		return invalid("states", "duplicate state %q", s)
	}
	if s, ok := firstDuplicate(f.Alphabet); ok {
		return invalid("alphabet", "duplicate input %q", s)
	}

	for i, t := range f.Transitions {
		field := fmt.Sprintf("transitions[%d]", i)
		if f.StateIndex(t.From) < 0 {
			return invalid(field, "from state %q not in states", t.From)
		}
		if f.StateIndex(t.To) < 0 {
			return invalid(field, "to state %q not in states", t.To)
		}
		if f.InputIndex(t.Input) < 0 {
			return invalid(field, "input %q not in alphabet", t.Input)
		}
		if len(f.OutputAlphabet) > 0 && f.OutputIndex(t.Output) < 0 {
			return invalid(field, "output %q not in output alphabet", t.Output)
		}
	}

	if states := f.NonDeterministicStates(); len(states) > 0 {
		return invalid("transitions", "non-deterministic states: %s", strings.Join(states, ", "))
	}
	if states := f.IncompleteStates(); len(states) > 0 {
		return invalid("transitions", "incompletely specified states: %s", strings.Join(states, ", "))
	}
	return nil
}

func firstDuplicate(items []string) (string, bool) {
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		if seen[s] {
			return s, true
		}
		seen[s] = true
	}
	return "", false
}

// StateIndex returns the index of a state, or -1 if not found.
func (f *FSM) StateIndex(state string) int {
	for i, s := range f.States {
		if s == state {
			return i
		}
	}
	return -1
}

// InputIndex returns the index of an input, or -1 if not found.
func (f *FSM) InputIndex(input string) int {
	for i, a := range f.Alphabet {
		if a == input {
			return i
		}
	}
	return -1
}

// OutputIndex returns the index of an output, or -1 if not found.
func (f *FSM) OutputIndex(output string) int {
	for i, o := range f.OutputAlphabet {
		if o == output {
			return i
		}
	}
	return -1
}

// GetTransitions returns all transitions from a state on a given input.
// A valid FSM returns exactly one.
func (f *FSM) GetTransitions(from, input string) []Transition {
	var result []Transition
	for _, t := range f.Transitions {
		if t.From == from && t.Input == input {
			result = append(result, t)
		}
	}
	return result
}

// Clone returns a deep copy of the FSM.
func (f *FSM) Clone() *FSM {
	c := *f
	c.States = append([]string(nil), f.States...)
	c.Alphabet = append([]string(nil), f.Alphabet...)
	c.OutputAlphabet = append([]string(nil), f.OutputAlphabet...)
	c.Transitions = append([]Transition(nil), f.Transitions...)
	return &c
}

// String returns a string representation of the FSM.
func (f *FSM) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FSM[%s]: %s\n", TypeMealy, f.Name))
	sb.WriteString(fmt.Sprintf("  States: %v\n", f.States))
	sb.WriteString(fmt.Sprintf("  Alphabet: %v\n", f.Alphabet))
	sb.WriteString(fmt.Sprintf("  Outputs: %v\n", f.OutputAlphabet))
	sb.WriteString(fmt.Sprintf("  Initial: %s\n", f.Initial))
	sb.WriteString(fmt.Sprintf("  Transitions: %d\n", len(f.Transitions)))
	return sb.String()
}

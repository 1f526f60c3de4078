package fsm

import (
	"fmt"
	"strings"
)

// Runner executes an FSM one input at a time.
type Runner struct {
	fsm     *FSM
	table   *Table
	current string
	history []Step
}

// Step records one step of execution.
type Step struct {
	FromState string
	Input     string
	ToState   string
	Output    string
}

// NewRunner creates a runner for the given FSM.
func NewRunner(f *FSM) (*Runner, error) {
	table, err := Compile(f)
	if err != nil {
		return nil, err
	}
	return &Runner{
		fsm:     f,
		table:   table,
		current: f.Initial,
		history: make([]Step, 0),
	}, nil
}

// CurrentState returns the current state.
func (r *Runner) CurrentState() string {
	return r.current
}

// AvailableInputs returns the input alphabet in declaration order.
// Every input is available from every state of a valid FSM.
func (r *Runner) AvailableInputs() []string {
	return append([]string(nil), r.fsm.Alphabet...)
}

// Step processes an input and returns the output it produced.
func (r *Runner) Step(input string) (string, error) {
	next, output, err := r.table.Next(r.current, input)
	if err != nil {
		return "", err
	}
	r.history = append(r.history, Step{
		FromState: r.current,
		Input:     input,
		ToState:   next,
		Output:    output,
	})
	r.current = next
	return output, nil
}

// Reset returns the runner to the initial state and clears the history.
func (r *Runner) Reset() {
	r.current = r.fsm.Initial
	r.history = make([]Step, 0)
}

// History returns the execution history.
func (r *Runner) History() []Step {
	return r.history
}

// Run processes a sequence of inputs and returns all outputs.
// On error the outputs produced so far are returned.
func (r *Runner) Run(inputs []string) ([]string, error) {
	outputs := make([]string, 0, len(inputs))
	for _, input := range inputs {
		output, err := r.Step(input)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

// RunString processes a sequence of single-character inputs.
func (r *Runner) RunString(input string) ([]string, error) {
	var inputs []string
	for _, c := range input {
		inputs = append(inputs, string(c))
	}
	return r.Run(inputs)
}

// Status returns a status string for the current state.
func (r *Runner) Status() string {
	status := fmt.Sprintf("State: %s", r.current)
	if n := len(r.history); n > 0 {
		status += fmt.Sprintf(" (last output: %s)", r.history[n-1].Output)
	}
	return status
}

// Trace formats the history as "s0 -a/x-> s1 -b/y-> s2".
func (r *Runner) Trace() string {
	if len(r.history) == 0 {
		return r.current
	}
	var sb strings.Builder
	sb.WriteString(r.history[0].FromState)
	for _, st := range r.history {
		sb.WriteString(fmt.Sprintf(" -%s/%s-> %s", st.Input, st.Output, st.ToState))
	}
	return sb.String()
}

package fsm

import "sort"

// Warning describes a property of the machine that conformance testing
// cannot cope with, or that degrades its results.
type Warning struct {
	Type    string `json:"type"` // "unreachable", "incomplete", "nondeterministic"
	State   string `json:"state"`
	Message string `json:"message"`
}

// Analyse returns all warnings for the FSM.
func (f *FSM) Analyse() []Warning {
	var warnings []Warning
	for _, s := range f.UnreachableStates() {
		warnings = append(warnings, Warning{
			Type:    "unreachable",
			State:   s,
			Message: "state is not reachable from " + f.Initial + "; the state cover will be incomplete",
		})
	}
	for _, s := range f.IncompleteStates() {
		warnings = append(warnings, Warning{
			Type:    "incomplete",
			State:   s,
			Message: "state lacks a transition for at least one input",
		})
	}
	for _, s := range f.NonDeterministicStates() {
		warnings = append(warnings, Warning{
			Type:    "nondeterministic",
			State:   s,
			Message: "state has more than one transition for some input",
		})
	}
	return warnings
}

// UnreachableStates returns states that cannot be reached from the initial
// state, in declaration order.
func (f *FSM) UnreachableStates() []string {
	if f.Initial == "" {
		return nil
	}
	reached := map[string]bool{f.Initial: true}
	queue := []string{f.Initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range f.Transitions {
			if t.From == s && !reached[t.To] {
				reached[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}

	var result []string
	for _, s := range f.States {
		if !reached[s] {
			result = append(result, s)
		}
	}
	return result
}

// IncompleteStates returns states missing a transition for some input.
func (f *FSM) IncompleteStates() []string {
	defined := make(map[[2]string]bool)
	for _, t := range f.Transitions {
		defined[[2]string{t.From, t.Input}] = true
	}

	var result []string
	for _, s := range f.States {
		for _, a := range f.Alphabet {
			if !defined[[2]string{s, a}] {
				result = append(result, s)
				break
			}
		}
	}
	return result
}

// NonDeterministicStates returns states with more than one transition on
// the same input.
func (f *FSM) NonDeterministicStates() []string {
	count := make(map[[2]string]int)
	for _, t := range f.Transitions {
		count[[2]string{t.From, t.Input}]++
	}

	seen := make(map[string]bool)
	var result []string
	for key, n := range count {
		if n > 1 && !seen[key[0]] {
			seen[key[0]] = true
			result = append(result, key[0])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return f.StateIndex(result[i]) < f.StateIndex(result[j])
	})
	return result
}

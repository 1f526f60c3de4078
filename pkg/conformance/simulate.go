package conformance

// Machine is a deterministic Mealy transition function. *fsm.Table
// implements it. Next returns *fsm.UndefinedTransitionError for a missing
// (state, input) pair.
type Machine interface {
	Next(state, input string) (next, output string, err error)
}

// Run applies seq from start and returns the end state and output trace.
func Run(m Machine, start string, seq Sequence) (string, Trace, error) {
	state := start
	trace := make(Trace, 0, len(seq))
	for _, in := range seq {
		next, out, err := m.Next(state, in)
		if err != nil {
			return "", nil, err
		}
		state = next
		trace = append(trace, out)
	}
	return state, trace, nil
}

// RunStateOnly applies seq from start and returns only the end state.
func RunStateOnly(m Machine, start string, seq Sequence) (string, error) {
	state := start
	for _, in := range seq {
		next, _, err := m.Next(state, in)
		if err != nil {
			return "", err
		}
		state = next
	}
	return state, nil
}

// Distinguishes reports whether seq produces different output traces from
// p and q. End states are not compared.
func Distinguishes(m Machine, p, q string, seq Sequence) (bool, error) {
	_, tp, err := Run(m, p, seq)
	if err != nil {
		return false, err
	}
	_, tq, err := Run(m, q, seq)
	if err != nil {
		return false, err
	}
	return !tp.Equal(tq), nil
}

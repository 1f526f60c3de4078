package conformance

// CoverEntry maps an access sequence to the state it reaches from the
// initial state.
type CoverEntry struct {
	Sequence Sequence `json:"sequence"`
	State    string   `json:"state"`
}

// Cover is a state cover: one access sequence per reached state, in
// discovery order. The first entry is always the empty sequence reaching the
// initial state.
type Cover struct {
	Entries  []CoverEntry `json:"entries"`
	Complete bool         `json:"complete"`
	Missing  []string     `json:"missing,omitempty"`
	Bound    int          `json:"bound"`
}

// Sequences returns the access sequences in discovery order.
func (c *Cover) Sequences() []Sequence {
	out := make([]Sequence, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Sequence
	}
	return out
}

// Map returns the cover keyed by the concatenated access sequence.
func (c *Cover) Map() map[string]string {
	out := make(map[string]string, len(c.Entries))
	for _, e := range c.Entries {
		out[e.Sequence.String()] = e.State
	}
	return out
}

// StateCover scans sequences from the initial state in enumeration order, up
// to Options.CoverLength (default: number of states), and keeps the first
// sequence reaching each newly discovered state. The search stops as soon as
// every state is covered. Unreachable states, or states needing longer
// sequences, leave the cover incomplete.
func StateCover(m Machine, initial string, states, inputs []string, opts Options) (*Cover, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	bound := opts.coverLength(len(states))
	cover := &Cover{
		Entries: []CoverEntry{{Sequence: Sequence{}, State: initial}},
		Bound:   bound,
	}
	covered := map[string]bool{initial: true}

	want := make(map[string]bool, len(states))
	for _, s := range states {
		want[s] = true
	}
	remaining := len(want)
	if want[initial] {
		remaining--
	}

	if remaining > 0 {
		for seq := range Enumerate(inputs, bound) {
			reached, err := RunStateOnly(m, initial, seq)
			if err != nil {
				return nil, err
			}
			if covered[reached] {
				continue
			}
			covered[reached] = true
			cover.Entries = append(cover.Entries, CoverEntry{Sequence: seq, State: reached})
			if want[reached] {
				remaining--
			}
			if remaining == 0 {
				break
			}
		}
	}

	for _, s := range states {
		if !covered[s] {
			cover.Missing = append(cover.Missing, s)
		}
	}
	cover.Complete = len(cover.Missing) == 0
	if !cover.Complete {
		opts.logger().Warn("state cover is incomplete", "missing", cover.Missing, "bound", bound)
	}
	return cover, nil
}

package conformance

import (
	"fmt"
	"slices"
)

// Pair names two states compared by a search. Characterizing-set pairs are
// in state order; identifying-set pairs start with the target state.
type Pair struct {
	P string `json:"p"`
	Q string `json:"q"`
}

func (p Pair) String() string {
	return fmt.Sprintf("(%s,%s)", p.P, p.Q)
}

// SetResult is a set of separating sequences together with its
// completeness. Complete is false when some pair could not be separated
// within the bound; those pairs are listed in Undistinguished.
type SetResult struct {
	Sequences       []Sequence `json:"sequences"`
	Complete        bool       `json:"complete"`
	Undistinguished []Pair     `json:"undistinguished,omitempty"`
	Bound           int        `json:"bound"`
}

// Contains reports whether seq is a member of the set.
func (r *SetResult) Contains(seq Sequence) bool {
	return slices.ContainsFunc(r.Sequences, seq.Equal)
}

// traceCache memoizes the output trace of each enumerated sequence from
// each state.
type traceCache struct {
	m      Machine
	seqs   []Sequence
	traces map[string][]Trace
}

func newTraceCache(m Machine, inputs []string, maxLength int) *traceCache {
	return &traceCache{
		m:      m,
		seqs:   Sequences(inputs, maxLength),
		traces: make(map[string][]Trace),
	}
}

func (c *traceCache) trace(state string, i int) (Trace, error) {
	row, ok := c.traces[state]
	if !ok {
		row = make([]Trace, len(c.seqs))
		c.traces[state] = row
	}
	if row[i] == nil {
		_, tr, err := Run(c.m, state, c.seqs[i])
		if err != nil {
			return nil, err
		}
		row[i] = tr
	}
	return row[i], nil
}

// firstSeparator returns the index of the first sequence whose traces from
// p and q differ, or -1.
func (c *traceCache) firstSeparator(p, q string) (int, error) {
	for i := range c.seqs {
		tp, err := c.trace(p, i)
		if err != nil {
			return -1, err
		}
		tq, err := c.trace(q, i)
		if err != nil {
			return -1, err
		}
		if !tp.Equal(tq) {
			return i, nil
		}
	}
	return -1, nil
}

// DistinguishingSequence returns the first sequence, in enumeration order,
// whose output traces are pairwise distinct across all states. The boolean
// is false when no such sequence exists within the bound.
func DistinguishingSequence(m Machine, states, inputs []string, opts Options) (Sequence, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	bounds, err := opts.searchBounds(len(states), len(inputs))
	if err != nil {
		return nil, false, err
	}
	logger := opts.logger()

	for _, bound := range bounds {
		c := newTraceCache(m, inputs, bound)
		for i, seq := range c.seqs {
			seen := make(map[string]bool, len(states))
			injective := true
			for _, s := range states {
				tr, err := c.trace(s, i)
				if err != nil {
					return nil, false, err
				}
				k := tr.key()
				if seen[k] {
					injective = false
					break
				}
				seen[k] = true
			}
			if injective {
				logger.Debug("distinguishing sequence found", "sequence", seq.String(), "bound", bound)
				return seq, true, nil
			}
		}
		logger.Debug("no distinguishing sequence", "bound", bound)
	}
	return nil, false, nil
}

// CharacterizingSet computes W: for every pair of states p<q (in the order
// of states) the first separating sequence in enumeration order. The union
// is returned in enumeration order.
func CharacterizingSet(m Machine, states, inputs []string, opts Options) (*SetResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bounds, err := opts.searchBounds(len(states), len(inputs))
	if err != nil {
		return nil, err
	}

	var result *SetResult
	for _, bound := range bounds {
		c := newTraceCache(m, inputs, bound)
		var pairs [][2]string
		for i := range states {
			for j := i + 1; j < len(states); j++ {
				pairs = append(pairs, [2]string{states[i], states[j]})
			}
		}

		result, err = separatingSet(c, pairs, bound)
		if err != nil {
			return nil, err
		}
		if result.Complete {
			break
		}
		opts.logger().Debug("characterizing set incomplete", "bound", bound, "pairs", len(result.Undistinguished))
	}

	if !result.Complete {
		opts.logger().Warn("characterizing set is incomplete", "undistinguished", result.Undistinguished)
	}
	return result, nil
}

// IdentifyingSets computes Ws for every state: for each other state t, the
// first sequence separating s from t, unioned in enumeration order.
func IdentifyingSets(m Machine, states, inputs []string, opts Options) (map[string]*SetResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bounds, err := opts.searchBounds(len(states), len(inputs))
	if err != nil {
		return nil, err
	}

	var sets map[string]*SetResult
	for _, bound := range bounds {
		c := newTraceCache(m, inputs, bound)
		sets = make(map[string]*SetResult, len(states))
		complete := true
		for _, s := range states {
			var pairs [][2]string
			for _, t := range states {
				if t != s {
					pairs = append(pairs, [2]string{s, t})
				}
			}
			r, err := separatingSet(c, pairs, bound)
			if err != nil {
				return nil, err
			}
			sets[s] = r
			complete = complete && r.Complete
		}
		if complete {
			break
		}
		opts.logger().Debug("identifying sets incomplete", "bound", bound)
	}

	for _, s := range states {
		if !sets[s].Complete {
			opts.logger().Warn("identifying set is incomplete", "state", s, "undistinguished", sets[s].Undistinguished)
		}
	}
	return sets, nil
}

// separatingSet collects the first separator of each pair.
func separatingSet(c *traceCache, pairs [][2]string, bound int) (*SetResult, error) {
	found := make(map[int]bool)
	result := &SetResult{Complete: true, Bound: bound, Sequences: []Sequence{}}
	for _, pq := range pairs {
		i, err := c.firstSeparator(pq[0], pq[1])
		if err != nil {
			return nil, err
		}
		if i < 0 {
			result.Complete = false
			result.Undistinguished = append(result.Undistinguished, Pair{P: pq[0], Q: pq[1]})
			continue
		}
		found[i] = true
	}

	// Sequence indices already follow enumeration order.
	indices := make([]int, 0, len(found))
	for i := range found {
		indices = append(indices, i)
	}
	slices.Sort(indices)
	for _, i := range indices {
		result.Sequences = append(result.Sequences, c.seqs[i])
	}
	return result, nil
}

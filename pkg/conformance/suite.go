package conformance

import (
	"fmt"
	"slices"
	"strings"
)

// Method selects a test derivation method.
type Method string

const (
	MethodW  Method = "w"
	MethodWp Method = "wp"
)

// ParseMethod parses "w" or "wp", case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(s)); m {
	case MethodW, MethodWp:
		return m, nil
	}
	return "", fmt.Errorf("unknown method %q: must be 'w' or 'wp'", s)
}

// IncompleteError is returned by suite synthesis under
// Options.RequireComplete when an artifact did not reach completeness
// within its bound.
type IncompleteError struct {
	Artifact string   // "state cover", "characterizing set", "identifying set of <s>"
	Missing  []string // uncovered states or undistinguished pairs
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s is incomplete: %s", e.Artifact, strings.Join(e.Missing, ", "))
}

func pairStrings(pairs []Pair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.String()
	}
	return out
}

func checkCover(c *Cover) error {
	if !c.Complete {
		return &IncompleteError{Artifact: "state cover", Missing: c.Missing}
	}
	return nil
}

func checkSet(name string, r *SetResult) error {
	if !r.Complete {
		return &IncompleteError{Artifact: name, Missing: pairStrings(r.Undistinguished)}
	}
	return nil
}

// WMethod derives the W-method suite: reset·c·i·w for every access sequence
// c, input i and characterizing sequence w. The suite has |C|×|Σ|×|W| tests
// sorted by serialized length.
func WMethod(m Machine, states, inputs []string, reset, initial string, opts Options) (Suite, error) {
	if err := ValidateReset(reset); err != nil {
		return nil, err
	}
	cover, err := StateCover(m, initial, states, inputs, opts)
	if err != nil {
		return nil, err
	}
	w, err := CharacterizingSet(m, states, inputs, opts)
	if err != nil {
		return nil, err
	}
	if opts.RequireComplete {
		if err := checkCover(cover); err != nil {
			return nil, err
		}
		if err := checkSet("characterizing set", w); err != nil {
			return nil, err
		}
	}
	return AssembleW(reset, cover, inputs, w), nil
}

// AssembleW builds the W-method suite from precomputed artifacts.
func AssembleW(reset string, cover *Cover, inputs []string, w *SetResult) Suite {
	suite := make(Suite, 0, len(cover.Entries)*len(inputs)*len(w.Sequences))
	for _, c := range cover.Entries {
		for _, in := range inputs {
			for _, seq := range w.Sequences {
				suite = append(suite, TestCase{
					Reset: reset,
					Cover: c.Sequence,
					Input: Sequence{in},
					Tail:  seq,
				})
			}
		}
	}
	sortByLength(suite)
	return suite
}

// WpMethod derives the Wp-method suite: the RCW part reset·c·w for every
// access sequence and characterizing sequence, united with the RCIWS part
// reset·c·i·w where w ranges over the identifying set of the state reached
// by c·i. Duplicates collapse; the suite is sorted by serialized length.
func WpMethod(m Machine, states, inputs []string, reset, initial string, opts Options) (Suite, error) {
	if err := ValidateReset(reset); err != nil {
		return nil, err
	}
	cover, err := StateCover(m, initial, states, inputs, opts)
	if err != nil {
		return nil, err
	}
	w, err := CharacterizingSet(m, states, inputs, opts)
	if err != nil {
		return nil, err
	}
	ws, err := IdentifyingSets(m, states, inputs, opts)
	if err != nil {
		return nil, err
	}
	if opts.RequireComplete {
		if err := checkCover(cover); err != nil {
			return nil, err
		}
		if err := checkSet("characterizing set", w); err != nil {
			return nil, err
		}
		for _, s := range states {
			if err := checkSet("identifying set of "+s, ws[s]); err != nil {
				return nil, err
			}
		}
	}
	return AssembleWp(m, reset, cover, inputs, w, ws)
}

// AssembleWp builds the Wp-method suite from precomputed artifacts.
func AssembleWp(m Machine, reset string, cover *Cover, inputs []string, w *SetResult, ws map[string]*SetResult) (Suite, error) {
	var suite Suite
	seen := make(map[string]bool)
	add := func(tc TestCase) {
		k := tc.key()
		if seen[k] {
			return
		}
		seen[k] = true
		suite = append(suite, tc)
	}

	for _, c := range cover.Entries {
		for _, seq := range w.Sequences {
			add(TestCase{Reset: reset, Cover: c.Sequence, Tail: seq})
		}
	}

	for _, c := range cover.Entries {
		for _, in := range inputs {
			next, _, err := m.Next(c.State, in)
			if err != nil {
				return nil, err
			}
			set, ok := ws[next]
			if !ok {
				continue
			}
			for _, seq := range set.Sequences {
				add(TestCase{Reset: reset, Cover: c.Sequence, Input: Sequence{in}, Tail: seq})
			}
		}
	}

	sortByLength(suite)
	return suite, nil
}

// Generate dispatches to WMethod or WpMethod.
func Generate(method Method, m Machine, states, inputs []string, reset, initial string, opts Options) (Suite, error) {
	switch method {
	case MethodW:
		return WMethod(m, states, inputs, reset, initial, opts)
	case MethodWp:
		return WpMethod(m, states, inputs, reset, initial, opts)
	}
	return nil, fmt.Errorf("unknown method %q", method)
}

// sortByLength orders tests by serialized length, keeping insertion order
// among equal lengths.
func sortByLength(suite Suite) {
	slices.SortStableFunc(suite, func(a, b TestCase) int {
		return len(a.String()) - len(b.String())
	})
}

package conformance

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins the fragments of a serialized test case.
const Separator = "."

// ErrInvalidReset is returned for an empty reset symbol or one containing
// the separator.
var ErrInvalidReset = errors.New("reset symbol must be non-empty and must not contain " + Separator)

// TestCase is a conformance test: reset, then the access sequence Cover,
// then at most one Input symbol, then the identifying fragment Tail.
type TestCase struct {
	Reset string   `json:"reset"`
	Cover Sequence `json:"cover"`
	Input Sequence `json:"input,omitempty"`
	Tail  Sequence `json:"tail"`
}

// Symbols returns the inputs applied after the reset.
func (tc TestCase) Symbols() Sequence {
	return tc.Cover.Concat(tc.Input, tc.Tail)
}

// String serializes the test as <reset><cover>.<input>.<tail>, or
// <reset><cover>.<tail> when there is no input fragment. The reset symbol
// is not separated from the cover fragment.
func (tc TestCase) String() string {
	parts := []string{tc.Cover.String()}
	if len(tc.Input) > 0 {
		parts = append(parts, tc.Input.String())
	}
	parts = append(parts, tc.Tail.String())
	return tc.Reset + strings.Join(parts, Separator)
}

// key identifies the test by its fragment structure.
func (tc TestCase) key() string {
	return tc.Reset + "\x1e" + tc.Cover.key() + "\x1e" + tc.Input.key() + "\x1e" + tc.Tail.key()
}

// Suite is an ordered list of test cases.
type Suite []TestCase

// Strings serializes every test.
func (s Suite) Strings() []string {
	out := make([]string, len(s))
	for i, tc := range s {
		out[i] = tc.String()
	}
	return out
}

// ValidateReset checks that reset is non-empty and free of the fragment
// separator.
func ValidateReset(reset string) error {
	if reset == "" || strings.Contains(reset, Separator) {
		return fmt.Errorf("%w: %q", ErrInvalidReset, reset)
	}
	return nil
}

// ParseTestCase parses the serialized form produced by TestCase.String.
// Fragments are split into symbols of inputs by longest match; with no
// inputs every rune is a symbol.
func ParseTestCase(s, reset string, inputs []string) (TestCase, error) {
	if err := ValidateReset(reset); err != nil {
		return TestCase{}, err
	}
	if !strings.HasPrefix(s, reset) {
		return TestCase{}, fmt.Errorf("test %q does not start with reset %q", s, reset)
	}

	parts := strings.Split(s[len(reset):], Separator)
	frags := make([]Sequence, len(parts))
	for i, p := range parts {
		seq, err := tokenize(p, inputs)
		if err != nil {
			return TestCase{}, fmt.Errorf("test %q: %w", s, err)
		}
		frags[i] = seq
	}

	tc := TestCase{Reset: reset}
	switch len(frags) {
	case 2:
		tc.Cover, tc.Tail = frags[0], frags[1]
	case 3:
		tc.Cover, tc.Input, tc.Tail = frags[0], frags[1], frags[2]
	default:
		return TestCase{}, fmt.Errorf("test %q: expected 2 or 3 fragments, got %d", s, len(frags))
	}
	return tc, nil
}

func tokenize(fragment string, inputs []string) (Sequence, error) {
	seq := Sequence{}
	if len(inputs) == 0 {
		for _, r := range fragment {
			seq = append(seq, string(r))
		}
		return seq, nil
	}

	for rest := fragment; rest != ""; {
		best := ""
		for _, in := range inputs {
			if len(in) > len(best) && strings.HasPrefix(rest, in) {
				best = in
			}
		}
		if best == "" {
			return nil, fmt.Errorf("unknown input symbol at %q", rest)
		}
		seq = append(seq, best)
		rest = rest[len(best):]
	}
	return seq, nil
}

package conformance

import (
	"iter"
	"math"
	"slices"
	"strings"
)

// Sequence is an ordered sequence of input symbols. The empty sequence is
// valid and means no input is applied.
type Sequence []string

// Trace is the output produced by applying a Sequence; it has the same
// length as the sequence.
type Trace []string

// String concatenates the symbols, as used in serialized test cases.
func (s Sequence) String() string {
	return strings.Join(s, "")
}

// key is an unambiguous map key, even for multi-character symbols.
func (s Sequence) key() string {
	return strings.Join(s, "\x1f")
}

// Equal reports whether two sequences hold the same symbols.
func (s Sequence) Equal(o Sequence) bool {
	return slices.Equal(s, o)
}

// HasPrefix reports whether p is a prefix of s.
func (s Sequence) HasPrefix(p Sequence) bool {
	return len(p) <= len(s) && slices.Equal(s[:len(p)], p)
}

// Concat returns a new sequence holding s followed by the others.
func (s Sequence) Concat(others ...Sequence) Sequence {
	n := len(s)
	for _, o := range others {
		n += len(o)
	}
	out := make(Sequence, 0, n)
	out = append(out, s...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

// Equal reports whether two traces hold the same outputs.
func (t Trace) Equal(o Trace) bool {
	return slices.Equal(t, o)
}

func (t Trace) key() string {
	return strings.Join(t, "\x1f")
}

// Enumerate yields every sequence over inputs with length 1..maxLength,
// length-major and in alphabet order within a length. The empty sequence is
// never yielded. Each yielded sequence is a fresh slice.
func Enumerate(inputs []string, maxLength int) iter.Seq[Sequence] {
	return func(yield func(Sequence) bool) {
		if len(inputs) == 0 {
			return
		}
		for length := 1; length <= maxLength; length++ {
			idx := make([]int, length)
			for {
				seq := make(Sequence, length)
				for i, k := range idx {
					seq[i] = inputs[k]
				}
				if !yield(seq) {
					return
				}
				if !advance(idx, len(inputs)) {
					break
				}
			}
		}
	}
}

// advance steps an odometer of digits in base n, last position fastest.
// It returns false after the last combination.
func advance(idx []int, n int) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < n {
			return true
		}
		idx[i] = 0
	}
	return false
}

// Sequences is the eager form of Enumerate.
func Sequences(inputs []string, maxLength int) []Sequence {
	out := make([]Sequence, 0, min(Count(len(inputs), maxLength), MaxSearchSequences))
	for seq := range Enumerate(inputs, maxLength) {
		out = append(out, seq)
	}
	return out
}

// Count returns the number of sequences Enumerate yields:
// n + n² + ... + n^maxLength. It saturates at math.MaxInt.
func Count(alphabetSize, maxLength int) int {
	total, power := 0, 1
	for i := 0; i < maxLength; i++ {
		if alphabetSize > 1 && power > math.MaxInt/alphabetSize {
			return math.MaxInt
		}
		power *= alphabetSize
		if total > math.MaxInt-power {
			return math.MaxInt
		}
		total += power
	}
	return total
}

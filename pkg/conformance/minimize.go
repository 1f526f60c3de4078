package conformance

import "strings"

// Minimize removes every test whose input symbols (after the reset) are a
// proper prefix of another test's: executing the longer test exercises the
// shorter one. Of several tests applying the same symbols only the first is
// kept. Order is preserved, so a length-sorted suite stays sorted.
func Minimize(suite Suite) Suite {
	symbols := make([]Sequence, len(suite))
	for i, tc := range suite {
		symbols[i] = tc.Symbols()
	}

	out := make(Suite, 0, len(suite))
	for i, tc := range suite {
		if subsumed(symbols, i) {
			continue
		}
		out = append(out, tc)
	}
	return out
}

func subsumed(symbols []Sequence, i int) bool {
	s := symbols[i]
	for j, other := range symbols {
		if j == i || !other.HasPrefix(s) {
			continue
		}
		if len(other) > len(s) || j < i {
			return true
		}
	}
	return false
}

// MinimizeStrings applies prefix minimization to serialized tests. Each test
// is normalized by collapsing reset+"." into reset (once, and only when more
// characters follow), so that tests with an empty access sequence compare
// like the others. A test is kept iff no other normalized test starts with
// it; of identical normalized tests the first is kept. The original strings
// are returned in their original order.
//
// The comparison is textual, so fragment separators take part in it: RB.A
// is not a prefix of RBA.BA although its inputs are. Minimize compares
// input symbols and removes more.
func MinimizeStrings(tests []string, reset string) []string {
	normalized := make([]string, len(tests))
	for i, t := range tests {
		normalized[i] = normalizeReset(t, reset)
	}

	out := make([]string, 0, len(tests))
	for i, n := range normalized {
		if !subsumedString(normalized, i, n) {
			out = append(out, tests[i])
		}
	}
	return out
}

func subsumedString(normalized []string, i int, n string) bool {
	for j, other := range normalized {
		if j == i || !strings.HasPrefix(other, n) {
			continue
		}
		if len(other) > len(n) || j < i {
			return true
		}
	}
	return false
}

func normalizeReset(test, reset string) string {
	lead := reset + Separator
	if strings.HasPrefix(test, lead) && len(test) > len(lead) {
		return reset + test[len(lead):]
	}
	return test
}

package conformance_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
)

func TestWMethod(t *testing.T) {
	suite, err := conformance.WMethod(exampleTable(t), exampleStates, exampleInputs, "R", "0", conformance.DefaultOptions())
	require.NoError(t, err)

	// |C| x |Σ| x |W| = 4 x 2 x 3
	require.Len(t, suite, 24)
	assert.Equal(t, []string{
		"R.A.A", "R.A.B", "R.B.A", "R.B.B",
		"R.A.BA", "R.B.BA", "RB.A.A", "RB.A.B", "RB.B.A", "RB.B.B",
	}, suite.Strings()[:10])

	for i := 1; i < len(suite); i++ {
		assert.LessOrEqual(t, len(suite[i-1].String()), len(suite[i].String()))
	}
	for _, tc := range suite {
		assert.Len(t, tc.Input, 1)
		assert.Equal(t, "R", tc.Reset)
	}
}

func TestWpMethod(t *testing.T) {
	table := exampleTable(t)
	opts := conformance.DefaultOptions()

	suite, err := conformance.WpMethod(table, exampleStates, exampleInputs, "R", "0", opts)
	require.NoError(t, err)
	require.Len(t, suite, 33)
	assert.Equal(t, []string{"R.A", "R.B"}, suite.Strings()[:2])

	// Every two-fragment test is reset·c·w drawn from C and W.
	cover, err := conformance.StateCover(table, "0", exampleStates, exampleInputs, opts)
	require.NoError(t, err)
	w, err := conformance.CharacterizingSet(table, exampleStates, exampleInputs, opts)
	require.NoError(t, err)
	coverSet := cover.Map()
	rcw := 0
	for _, tc := range suite {
		if len(tc.Input) > 0 {
			continue
		}
		rcw++
		_, ok := coverSet[tc.Cover.String()]
		assert.True(t, ok, "cover %q not in C", tc.Cover)
		assert.True(t, w.Contains(tc.Tail), "tail %q not in W", tc.Tail)
	}
	assert.Equal(t, 12, rcw)

	// No duplicate test strings.
	seen := make(map[string]bool)
	for _, s := range suite.Strings() {
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
	}
}

func TestWpMethodIdentifyingFragments(t *testing.T) {
	table := exampleTable(t)
	opts := conformance.DefaultOptions()

	suite, err := conformance.WpMethod(table, exampleStates, exampleInputs, "R", "0", opts)
	require.NoError(t, err)
	ws, err := conformance.IdentifyingSets(table, exampleStates, exampleInputs, opts)
	require.NoError(t, err)

	for _, tc := range suite {
		if len(tc.Input) == 0 {
			continue
		}
		reached, err := conformance.RunStateOnly(table, "0", tc.Cover.Concat(tc.Input))
		require.NoError(t, err)
		assert.True(t, ws[reached].Contains(tc.Tail), "%s: tail not in W%s", tc, reached)
	}
}

func TestGenerateDispatch(t *testing.T) {
	table := exampleTable(t)
	opts := conformance.DefaultOptions()

	w, err := conformance.Generate(conformance.MethodW, table, exampleStates, exampleInputs, "R", "0", opts)
	require.NoError(t, err)
	assert.Len(t, w, 24)

	wp, err := conformance.Generate(conformance.MethodWp, table, exampleStates, exampleInputs, "R", "0", opts)
	require.NoError(t, err)
	assert.Len(t, wp, 33)

	_, err = conformance.Generate("uio", table, exampleStates, exampleInputs, "R", "0", opts)
	assert.Error(t, err)
}

func TestSuitesAreDeterministic(t *testing.T) {
	table := exampleTable(t)
	opts := conformance.DefaultOptions()
	for _, m := range []conformance.Method{conformance.MethodW, conformance.MethodWp} {
		a, err := conformance.Generate(m, table, exampleStates, exampleInputs, "R", "0", opts)
		require.NoError(t, err)
		b, err := conformance.Generate(m, table, exampleStates, exampleInputs, "R", "0", opts)
		require.NoError(t, err)
		assert.Equal(t, a.Strings(), b.Strings())
	}
}

func TestRequireComplete(t *testing.T) {
	opts := conformance.DefaultOptions()
	opts.MaxLength = 1
	opts.RequireComplete = true

	_, err := conformance.WMethod(exampleTable(t), exampleStates, exampleInputs, "R", "0", opts)
	var incomplete *conformance.IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, "characterizing set", incomplete.Artifact)
	assert.Equal(t, []string{"(0,3)"}, incomplete.Missing)

	opts.MaxLength = 4
	opts.CoverLength = 1
	_, err = conformance.WpMethod(exampleTable(t), exampleStates, exampleInputs, "R", "0", opts)
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, "state cover", incomplete.Artifact)
	assert.Equal(t, []string{"2", "3"}, incomplete.Missing)
}

func TestIncompleteArtifactsStillYieldSuite(t *testing.T) {
	opts := conformance.DefaultOptions()
	opts.MaxLength = 1

	suite, err := conformance.WMethod(exampleTable(t), exampleStates, exampleInputs, "R", "0", opts)
	require.NoError(t, err)
	assert.Len(t, suite, 4*2*2)
}

func TestInvalidReset(t *testing.T) {
	for _, reset := range []string{"", "R.", "."} {
		_, err := conformance.WMethod(exampleTable(t), exampleStates, exampleInputs, reset, "0", conformance.DefaultOptions())
		assert.True(t, errors.Is(err, conformance.ErrInvalidReset), "reset %q", reset)
	}
}

func TestParseMethod(t *testing.T) {
	m, err := conformance.ParseMethod("Wp")
	require.NoError(t, err)
	assert.Equal(t, conformance.MethodWp, m)

	_, err = conformance.ParseMethod("hsi")
	assert.Error(t, err)
}

func TestTestCaseStringAndParse(t *testing.T) {
	tc := conformance.TestCase{Reset: "R", Cover: seq("01"), Input: seq("A"), Tail: seq("X")}
	assert.Equal(t, "R01.A.X", tc.String())
	assert.Equal(t, "01AX", tc.Symbols().String())

	rcw := conformance.TestCase{Reset: "R", Cover: conformance.Sequence{}, Tail: seq("BA")}
	assert.Equal(t, "R.BA", rcw.String())

	parsed, err := conformance.ParseTestCase("R01.A.X", "R", nil)
	require.NoError(t, err)
	assert.Equal(t, tc, parsed)

	parsed, err = conformance.ParseTestCase("rst.go.stopgo", "rst", []string{"go", "stop"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, []string(parsed.Input))
	assert.Equal(t, []string{"stop", "go"}, []string(parsed.Tail))
	assert.Empty(t, parsed.Cover)

	_, err = conformance.ParseTestCase("X.A.B", "R", nil)
	assert.Error(t, err)
	_, err = conformance.ParseTestCase("R.A.B.C", "R", nil)
	assert.Error(t, err)
	_, err = conformance.ParseTestCase("R.Q", "R", []string{"A"})
	assert.True(t, err != nil && strings.Contains(err.Error(), "unknown input symbol"))
}

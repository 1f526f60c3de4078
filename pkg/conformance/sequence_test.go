package conformance_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

func TestEnumerateOrder(t *testing.T) {
	got := seqStrings(conformance.Sequences([]string{"A", "B"}, 2))
	assert.Equal(t, []string{"A", "B", "AA", "AB", "BA", "BB"}, got)
}

func TestEnumerateEarlyStop(t *testing.T) {
	var got []string
	for s := range conformance.Enumerate([]string{"0", "1", "2"}, 3) {
		got = append(got, s.String())
		if len(got) == 5 {
			break
		}
	}
	assert.Equal(t, []string{"0", "1", "2", "00", "01"}, got)
}

func TestEnumerateEdgeCases(t *testing.T) {
	assert.Empty(t, conformance.Sequences(nil, 3))
	assert.Empty(t, conformance.Sequences([]string{"A"}, 0))
	assert.Equal(t, []string{"A", "AA", "AAA"}, seqStrings(conformance.Sequences([]string{"A"}, 3)))
}

func TestCount(t *testing.T) {
	tests := []struct {
		size, length, want int
	}{
		{2, 1, 2},
		{2, 4, 30},
		{3, 3, 39},
		{4, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, conformance.Count(tt.size, tt.length))
		assert.Len(t, conformance.Sequences(make([]string, tt.size), tt.length), tt.want)
	}
}

func TestCountSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, conformance.Count(2, 64))
	assert.Equal(t, math.MaxInt, conformance.Count(10, 100))
	assert.Equal(t, 100, conformance.Count(1, 100))
}

func TestSequenceHelpers(t *testing.T) {
	s := seq("ABA")
	assert.True(t, s.HasPrefix(seq("AB")))
	assert.True(t, s.HasPrefix(conformance.Sequence{}))
	assert.False(t, s.HasPrefix(seq("B")))
	assert.False(t, seq("A").HasPrefix(s))
	assert.Equal(t, "ABAB", s.Concat(nil, seq("B")).String())
	assert.True(t, s.Equal(seq("ABA")))
}

func TestRun(t *testing.T) {
	table := exampleTable(t)

	end, trace, err := conformance.Run(table, "0", seq("BBA"))
	require.NoError(t, err)
	assert.Equal(t, "3", end)
	assert.Equal(t, conformance.Trace{"Y", "X", "X"}, trace)

	end, trace, err = conformance.Run(table, "2", conformance.Sequence{})
	require.NoError(t, err)
	assert.Equal(t, "2", end)
	assert.Empty(t, trace)

	end, err = conformance.RunStateOnly(table, "1", seq("AB"))
	require.NoError(t, err)
	assert.Equal(t, "0", end)
}

func TestRunUndefinedTransition(t *testing.T) {
	f := exampleFSM()
	f.Transitions = f.Transitions[:7] // drop 3 -B->
	table := fsm.NewTable(f)

	_, _, err := conformance.Run(table, "0", seq("BBB"))
	var undef *fsm.UndefinedTransitionError
	require.True(t, errors.As(err, &undef))
	assert.Equal(t, "3", undef.State)
	assert.Equal(t, "B", undef.Input)

	_, err = conformance.RunStateOnly(table, "3", seq("AB"))
	assert.True(t, errors.As(err, &undef))
}

func TestDistinguishesComparesTracesOnly(t *testing.T) {
	table := exampleTable(t)

	// 0 and 3 agree on A and B but split on BA.
	ok, err := conformance.Distinguishes(table, "0", "3", seq("B"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = conformance.Distinguishes(table, "0", "3", seq("BA"))
	require.NoError(t, err)
	assert.True(t, ok)

	// 2 and 3 reach the same state on A with the same output.
	ok, err = conformance.Distinguishes(table, "2", "3", seq("A"))
	require.NoError(t, err)
	assert.False(t, ok)
}

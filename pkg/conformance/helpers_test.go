package conformance_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// exampleFSM is the four-state reference machine:
//
//	0: A->0/X  B->1/Y
//	1: A->2/Y  B->3/X
//	2: A->3/X  B->0/X
//	3: A->3/X  B->0/Y
func exampleFSM() *fsm.FSM {
	f := fsm.New()
	f.Name = "example"
	f.AddTransition("0", "A", "0", "X")
	f.AddTransition("0", "B", "1", "Y")
	f.AddTransition("1", "A", "2", "Y")
	f.AddTransition("1", "B", "3", "X")
	f.AddTransition("2", "A", "3", "X")
	f.AddTransition("2", "B", "0", "X")
	f.AddTransition("3", "A", "3", "X")
	f.AddTransition("3", "B", "0", "Y")
	f.SetInitial("0")
	return f
}

func exampleTable(t *testing.T) *fsm.Table {
	t.Helper()
	table, err := fsm.Compile(exampleFSM())
	require.NoError(t, err)
	return table
}

func seq(s string) conformance.Sequence {
	out := conformance.Sequence{}
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func seqStrings(seqs []conformance.Sequence) []string {
	out := make([]string, len(seqs))
	for i, s := range seqs {
		out[i] = s.String()
	}
	return out
}

var (
	exampleStates = []string{"0", "1", "2", "3"}
	exampleInputs = []string{"A", "B"}
)

package fsmfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// DOTOptions controls GenerateDOT.
type DOTOptions struct {
	Title string
	// Highlight lists input sequences applied from the initial state, such
	// as the access sequences of a state cover. Every transition they walk
	// is drawn bold.
	Highlight [][]string
}

// GenerateDOT converts an FSM to Graphviz DOT format. Edges between the
// same pair of states are merged into one edge with a combined label.
func GenerateDOT(f *fsm.FSM, opts DOTOptions) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if opts.Title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(opts.Title))
		sb.WriteString("\n")
	}

	if f.Initial != "" {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
		fmt.Fprintf(&sb, "    __start -> \"%s\";\n", escapeDOT(f.Initial))
		sb.WriteString("\n")
	}

	for _, state := range f.States {
		fmt.Fprintf(&sb, "    \"%s\" [shape=circle];\n", escapeDOT(state))
	}
	sb.WriteString("\n")

	walked := walkedEdges(f, opts.Highlight)

	type edge struct {
		labels []string
		bold   bool
	}
	var order [][2]string
	edges := make(map[[2]string]*edge)
	for _, t := range f.Transitions {
		key := [2]string{t.From, t.To}
		e, ok := edges[key]
		if !ok {
			e = &edge{}
			edges[key] = e
			order = append(order, key)
		}
		e.labels = append(e.labels, t.Input+"/"+t.Output)
		if walked[[2]string{t.From, t.Input}] {
			e.bold = true
		}
	}

	for _, key := range order {
		e := edges[key]
		attrs := fmt.Sprintf("label=\"%s\"", escapeDOT(strings.Join(e.labels, ", ")))
		if e.bold {
			attrs += ", style=bold, color=\"#1f77b4\""
		}
		fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [%s];\n", escapeDOT(key[0]), escapeDOT(key[1]), attrs)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// walkedEdges returns the (state, input) pairs visited by applying each
// sequence from the initial state. Walks stop at undefined transitions.
func walkedEdges(f *fsm.FSM, seqs [][]string) map[[2]string]bool {
	walked := make(map[[2]string]bool)
	if len(seqs) == 0 {
		return walked
	}
	table := fsm.NewTable(f)
	for _, seq := range seqs {
		state := f.Initial
		for _, in := range seq {
			next, _, err := table.Next(state, in)
			if err != nil {
				break
			}
			walked[[2]string{state, in}] = true
			state = next
		}
	}
	return walked
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}

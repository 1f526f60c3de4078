package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
)

// WriteText writes the report as human-readable styled text.
func WriteText(w io.Writer, r *Report) error {
	s := DefaultStyles()

	name := r.Machine.Name
	if name == "" {
		name = "machine"
	}
	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", name)))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    %d states, %d inputs, %d outputs, %d transitions; initial %s",
		len(r.Machine.States), len(r.Machine.Inputs), len(r.Machine.Outputs), r.Machine.Transitions, r.Machine.Initial)))

	if r.Analysis != nil {
		writeAnalysis(w, r.Analysis, s)
	}
	if r.Suite != nil {
		writeSuite(w, r.Suite, s)
	}
	if r.Execution != nil {
		writeExecution(w, r.Execution, s)
	}
	if r.Mutation != nil {
		writeMutation(w, r.Mutation, s)
	}
	return nil
}

func summary(w io.Writer, s Styles, label, value string) {
	fmt.Fprintf(w, "%s%s\n", s.SummaryLabel.Render(label), s.SummaryValue.Render(value))
}

func newTable(s Styles, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			return s.TableCell
		}).
		Headers(headers...)
}

func writeAnalysis(w io.Writer, a *conformance.Analysis, s Styles) {
	fmt.Fprintln(w)
	for _, warn := range a.Warnings {
		fmt.Fprintln(w, s.Warn.Render(fmt.Sprintf("warning: %s: %s", warn.State, warn.Message)))
	}

	if a.HasDistinguishing {
		summary(w, s, "Distinguishing sequence", seqText(a.Distinguishing))
	} else {
		summary(w, s, "Distinguishing sequence", s.Muted.Render(fmt.Sprintf("none within bound %d", a.Characterizing.Bound)))
	}
	summary(w, s, "Characterizing set W", fmt.Sprintf("%s  %s", setText(a.Characterizing.Sequences), s.Completeness(a.Characterizing.Complete)))
	if len(a.Characterizing.Undistinguished) > 0 {
		summary(w, s, "", s.Fail.Render("undistinguished: "+pairsText(a.Characterizing.Undistinguished)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Header.Render("Identifying sets"))
	ws := newTable(s, "STATE", "Ws", "STATUS")
	for _, st := range a.FSM.States {
		r := a.Identifying[st]
		status := s.Completeness(r.Complete)
		if !r.Complete {
			status += " " + pairsText(r.Undistinguished)
		}
		ws.Row(st, setText(r.Sequences), status)
	}
	fmt.Fprintln(w, ws)

	fmt.Fprintln(w, s.Header.Render("State cover"))
	cover := newTable(s, "STATE", "ACCESS SEQUENCE")
	for _, e := range a.Cover.Entries {
		cover.Row(e.State, seqText(e.Sequence))
	}
	for _, m := range a.Cover.Missing {
		cover.Row(m, s.Fail.Render("unreached"))
	}
	fmt.Fprintln(w, cover)
	summary(w, s, "State cover", s.Completeness(a.Cover.Complete))
}

func writeSuite(w io.Writer, suite *Suite, s Styles) {
	fmt.Fprintln(w)
	title := "Test suite"
	switch suite.Method {
	case conformance.MethodW:
		title = "W-method suite"
	case conformance.MethodWp:
		title = "Wp-method suite"
	}
	if suite.Minimized {
		title += " (minimized)"
	}
	fmt.Fprintln(w, s.Header.Render(title))
	for _, t := range suite.Tests {
		fmt.Fprintf(w, "    %s\n", t)
	}
	summary(w, s, "Tests", fmt.Sprintf("%d", suite.Size))
}

func writeExecution(w io.Writer, ex *conformance.Execution, s Styles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Header.Render("Execution"))
	if ex.Failed > 0 {
		failures := newTable(s, "TEST", "EXPECTED", "ACTUAL", "AT")
		for _, v := range ex.Verdicts {
			if v.Passed {
				continue
			}
			actual := strings.Join(v.Actual, " ")
			if v.Error != "" {
				actual += " (" + v.Error + ")"
			}
			failures.Row(v.Test, strings.Join(v.Expected, " "), actual, fmt.Sprintf("%d", v.Divergence))
		}
		fmt.Fprintln(w, failures)
	}
	summary(w, s, "Passed", s.Pass.Render(fmt.Sprintf("%d", ex.Passed)))
	if ex.Failed > 0 {
		summary(w, s, "Failed", s.Fail.Render(fmt.Sprintf("%d", ex.Failed)))
	} else {
		summary(w, s, "Failed", "0")
	}
}

func writeMutation(w io.Writer, m *conformance.MutationScore, s Styles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Header.Render("Mutation score"))
	score := fmt.Sprintf("%d/%d killed (%.1f%%)", m.Killed, m.Total, 100*m.Ratio())
	if m.Killed == m.Total {
		score = s.Pass.Render(score)
	} else {
		score = s.Fail.Render(score)
	}
	summary(w, s, "Mutants", score)
	for _, mu := range m.Survivors {
		fmt.Fprintf(w, "    survived: %s\n", mu)
	}
}

// seqText renders a sequence compactly: concatenated when every symbol is
// a single character, space separated otherwise, ε when empty.
func seqText(seq conformance.Sequence) string {
	if len(seq) == 0 {
		return "ε"
	}
	for _, sym := range seq {
		if utf8.RuneCountInString(sym) != 1 {
			return strings.Join(seq, " ")
		}
	}
	return seq.String()
}

func setText(seqs []conformance.Sequence) string {
	parts := make([]string, len(seqs))
	for i, seq := range seqs {
		parts[i] = seqText(seq)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func pairsText(pairs []conformance.Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
)

// Styles
var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleList     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleListSel  = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleListFail = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHeading  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleState    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDone     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	stylePending  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDiverged = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (ex *Explorer) draw() {
	ex.screen.Clear()
	w, h := ex.screen.Size()

	listW := min(32, w/3)
	ex.drawList(listW, h)
	for y := 0; y < h-2; y++ {
		ex.screen.SetContent(listW, y, '│', nil, styleBorder)
	}

	switch ex.mode {
	case ModeInfo:
		ex.drawInfo(listW+2, w-listW-2, h)
	default:
		ex.drawReplay(listW+2, w-listW-2, h)
	}
	ex.drawStatusBar(w, h)
}

func (ex *Explorer) drawList(w, h int) {
	title := fmt.Sprintf("%s suite (%d)", methodName(ex.method), len(ex.suite))
	ex.drawString(1, 0, truncate(title, w-2), styleHeading)

	rows := h - 4
	if rows < 1 {
		return
	}
	if ex.selected < ex.listTop {
		ex.listTop = ex.selected
	}
	if ex.selected >= ex.listTop+rows {
		ex.listTop = ex.selected - rows + 1
	}

	for row := 0; row < rows; row++ {
		i := ex.listTop + row
		if i >= len(ex.suite) {
			break
		}
		mark := "  "
		style := styleList
		if ex.impl != nil {
			mark = "✓ "
			if ex.failed(i) {
				mark = "✗ "
				style = styleListFail
			}
		}
		if i == ex.selected {
			style = styleListSel
		}
		line := fmt.Sprintf(" %s%-*s", mark, w-4, truncate(ex.suite[i].String(), w-4))
		ex.drawString(0, row+2, line, style)
	}
}

func (ex *Explorer) drawReplay(x, w, h int) {
	if len(ex.suite) == 0 {
		ex.drawString(x, 0, "empty suite", stylePending)
		return
	}
	tc := ex.suite[ex.selected]
	ex.drawString(x, 0, truncate("Test "+tc.String(), w), styleTitle)
	ex.drawString(x, 1, truncate(fmt.Sprintf("cover %s  input %s  tail %s",
		seqText(tc.Cover), seqText(tc.Input), seqText(tc.Tail)), w), stylePending)

	header := fmt.Sprintf("%3s  %-10s %-8s %-8s %-10s", "#", "STATE", "INPUT", "OUTPUT", "NEXT")
	if ex.impl != nil {
		header += " IMPL"
	}
	ex.drawString(x, 3, truncate(header, w), styleHeading)

	y := 4
	for k, st := range ex.steps {
		if y >= h-3 {
			ex.drawString(x, y, "...", stylePending)
			break
		}
		style := stylePending
		if k < ex.cursor {
			style = styleDone
		}
		line := fmt.Sprintf("%3d  %-10s %-8s %-8s %-10s", k+1, st.From, st.Input, st.Output, st.To)
		if ex.impl != nil && k < ex.cursor {
			impl := st.ImplOutput
			if st.ImplErr != "" {
				impl = "-"
			}
			line += " " + impl
			if st.Diverged {
				line += " ✗"
				style = styleDiverged
			}
		}
		ex.drawString(x, y, truncate(line, w), style)
		y++
	}

	y++
	if y < h-2 {
		status := fmt.Sprintf("State: %s   step %d/%d", ex.Current(), ex.cursor, len(ex.steps))
		ex.drawString(x, y, truncate(status, w), styleState)
	}
	if y+1 < h-2 && ex.cursor > 0 {
		outs := make([]string, ex.cursor)
		for k := range outs {
			outs[k] = ex.steps[k].Output
		}
		ex.drawString(x, y+1, truncate("Outputs: "+strings.Join(outs, " "), w), styleState)
	}
}

func (ex *Explorer) drawInfo(x, w, h int) {
	a := ex.analysis
	lines := []struct {
		text  string
		style tcell.Style
	}{
		{ex.fsm.Name, styleTitle},
		{fmt.Sprintf("%d states, %d inputs, %d outputs; initial %s",
			len(ex.fsm.States), len(ex.fsm.Alphabet), len(ex.fsm.OutputAlphabet), ex.fsm.Initial), stylePending},
		{"", styleDefault},
	}
	add := func(text string, style tcell.Style) {
		lines = append(lines, struct {
			text  string
			style tcell.Style
		}{text, style})
	}

	if a.HasDistinguishing {
		add("Distinguishing sequence: "+seqText(a.Distinguishing), styleList)
	} else {
		add("Distinguishing sequence: none", stylePending)
	}
	add("W: "+setText(a.Characterizing.Sequences)+completeness(a.Characterizing.Complete), styleList)
	add("", styleDefault)
	add("Identifying sets:", styleHeading)
	for _, s := range ex.fsm.States {
		ws := a.Identifying[s]
		add(fmt.Sprintf("  %-10s %s%s", s, setText(ws.Sequences), completeness(ws.Complete)), styleList)
	}
	add("", styleDefault)
	add("State cover:", styleHeading)
	for _, e := range a.Cover.Entries {
		add(fmt.Sprintf("  %-10s %s", e.State, seqText(e.Sequence)), styleList)
	}
	for _, m := range a.Cover.Missing {
		add(fmt.Sprintf("  %-10s unreached", m), styleDiverged)
	}

	for i, l := range lines {
		if i >= h-2 {
			break
		}
		ex.drawString(x, i, truncate(l.text, w), l.style)
	}
}

func (ex *Explorer) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ex.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	ex.drawString(1, y, filepath.Base(ex.filename), styleStatus)
	mode := ex.modeString()
	ex.drawString(w/2-len(mode)/2, y, mode, styleStatus)

	if ex.message != "" {
		style := styleMsgInfo
		if ex.msgType == MsgError {
			style = styleMsgError
			if shouldBeInverted(time.Now().UnixMilli() - ex.flashFrom) {
				style = style.Reverse(true)
			}
		}
		ex.drawString(w-len([]rune(ex.message))-2, y, ex.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ex.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ex.drawString(1, y, ex.helpString(), styleHelp)
}

// shouldBeInverted alternates an error message's colours during its first
// half second.
func shouldBeInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func (ex *Explorer) drawString(x, y int, s string, style tcell.Style) {
	col := 0
	for _, r := range s {
		ex.screen.SetContent(x+col, y, r, nil, style)
		col++
	}
}

func (ex *Explorer) modeString() string {
	if ex.mode == ModeInfo {
		return "ANALYSIS"
	}
	return "REPLAY"
}

func (ex *Explorer) helpString() string {
	if ex.mode == ModeInfo {
		return "Tab:Replay  q:Quit"
	}
	help := "↑↓:Test  ←→:Step  Home/End:Rewind/Run  Tab:Analysis"
	if ex.impl != nil {
		help += "  n:Next failure"
	}
	return help + "  q:Quit"
}

func methodName(m conformance.Method) string {
	switch m {
	case conformance.MethodW:
		return "W-method"
	case conformance.MethodWp:
		return "Wp-method"
	}
	return "Test"
}

func seqText(seq conformance.Sequence) string {
	if len(seq) == 0 {
		return "ε"
	}
	return strings.Join(seq, " ")
}

func setText(seqs []conformance.Sequence) string {
	parts := make([]string, len(seqs))
	for i, s := range seqs {
		parts[i] = seqText(s)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func completeness(complete bool) string {
	if complete {
		return ""
	}
	return "  (incomplete)"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

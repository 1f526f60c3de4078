package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// Mode is the content of the right-hand pane.
type Mode int

const (
	ModeReplay Mode = iota
	ModeInfo
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
)

// Step is one transition of a replayed test.
type Step struct {
	From   string
	Input  string
	To     string
	Output string

	// Implementation side, set when an implementation is loaded.
	ImplOutput string
	ImplErr    string
	Diverged   bool
}

// Explorer browses a suite and replays its tests one transition at a time.
type Explorer struct {
	screen   tcell.Screen
	filename string
	fsm      *fsm.FSM
	spec     *fsm.Table
	impl     *fsm.Table // nil when no implementation is loaded
	implInit string
	analysis *conformance.Analysis
	method   conformance.Method

	suite     conformance.Suite
	verdicts  []conformance.Verdict
	selected  int
	listTop   int
	steps     []Step
	cursor    int // number of steps applied
	mode      Mode
	message   string
	msgType   MessageType
	flashFrom int64 // unix ms of the last message
}

// NewExplorer prepares an explorer for suite. impl may be nil.
func NewExplorer(a *conformance.Analysis, method conformance.Method, suite conformance.Suite, impl *fsm.FSM) (*Explorer, error) {
	ex := &Explorer{
		fsm:      a.FSM,
		spec:     a.Table,
		analysis: a,
		method:   method,
		suite:    suite,
	}
	if impl != nil {
		ex.impl = fsm.NewTable(impl)
		ex.implInit = impl.Initial
		run, err := conformance.Execute(a.Table, ex.impl, a.FSM.Initial, impl.Initial, suite)
		if err != nil {
			return nil, err
		}
		ex.verdicts = run.Verdicts
	}
	ex.selectTest(0)
	return ex, nil
}

// Replay applies every input of tc to the specification, and to the
// implementation when one is loaded, stopping at the first undefined
// specification transition.
func (ex *Explorer) Replay(tc conformance.TestCase) []Step {
	var steps []Step
	state := ex.fsm.Initial
	implState, implOK := ex.implInit, ex.impl != nil
	for _, in := range tc.Symbols() {
		next, out, err := ex.spec.Next(state, in)
		if err != nil {
			break
		}
		st := Step{From: state, Input: in, To: next, Output: out}
		if ex.impl != nil {
			if implOK {
				var implNext string
				implNext, st.ImplOutput, err = ex.impl.Next(implState, in)
				if err != nil {
					st.ImplErr = err.Error()
					implOK = false
				}
				implState = implNext
			} else {
				st.ImplErr = "not reached"
			}
			st.Diverged = st.ImplErr != "" || st.ImplOutput != st.Output
		}
		steps = append(steps, st)
		state = next
	}
	return steps
}

func (ex *Explorer) selectTest(i int) {
	if len(ex.suite) == 0 {
		ex.selected, ex.steps, ex.cursor = 0, nil, 0
		return
	}
	i = max(0, min(i, len(ex.suite)-1))
	ex.selected = i
	ex.steps = ex.Replay(ex.suite[i])
	ex.cursor = 0
}

// Current returns the state reached after the applied steps.
func (ex *Explorer) Current() string {
	if ex.cursor == 0 {
		return ex.fsm.Initial
	}
	return ex.steps[ex.cursor-1].To
}

// failed reports whether test i failed against the implementation.
func (ex *Explorer) failed(i int) bool {
	return i < len(ex.verdicts) && !ex.verdicts[i].Passed
}

func (ex *Explorer) nextFailure() {
	if ex.impl == nil {
		ex.showMessage("no implementation loaded", MsgError)
		return
	}
	for k := 1; k <= len(ex.suite); k++ {
		i := (ex.selected + k) % len(ex.suite)
		if ex.failed(i) {
			ex.selectTest(i)
			ex.cursor = ex.verdicts[i].Divergence + 1
			ex.cursor = min(ex.cursor, len(ex.steps))
			ex.showMessage(fmt.Sprintf("test %s fails at step %d", ex.suite[i], ex.verdicts[i].Divergence+1), MsgError)
			return
		}
	}
	ex.showMessage("all tests pass", MsgSuccess)
}

func (ex *Explorer) showMessage(msg string, msgType MessageType) {
	ex.message = msg
	ex.msgType = msgType
	ex.flashFrom = time.Now().UnixMilli()
}

func (ex *Explorer) run() {
	for {
		ex.draw()
		ex.screen.Show()

		switch ev := ex.screen.PollEvent().(type) {
		case *tcell.EventResize:
			ex.screen.Sync()
		case *tcell.EventKey:
			if ex.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}

// handleKey applies a key press and reports whether to quit.
func (ex *Explorer) handleKey(ev *tcell.EventKey) bool {
	ex.message = ""
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyUp:
		ex.selectTest(ex.selected - 1)
	case tcell.KeyDown:
		ex.selectTest(ex.selected + 1)
	case tcell.KeyPgUp:
		ex.selectTest(ex.selected - 10)
	case tcell.KeyPgDn:
		ex.selectTest(ex.selected + 10)
	case tcell.KeyRight:
		ex.cursor = min(ex.cursor+1, len(ex.steps))
	case tcell.KeyLeft:
		ex.cursor = max(ex.cursor-1, 0)
	case tcell.KeyHome:
		ex.cursor = 0
	case tcell.KeyEnd, tcell.KeyEnter:
		ex.cursor = len(ex.steps)
	case tcell.KeyTab:
		ex.toggleMode()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			ex.selectTest(ex.selected - 1)
		case 'j':
			ex.selectTest(ex.selected + 1)
		case 'l', ' ':
			ex.cursor = min(ex.cursor+1, len(ex.steps))
		case 'h':
			ex.cursor = max(ex.cursor-1, 0)
		case 'n':
			ex.nextFailure()
		case 'i':
			ex.toggleMode()
		}
	}
	return false
}

func (ex *Explorer) toggleMode() {
	if ex.mode == ModeReplay {
		ex.mode = ModeInfo
	} else {
		ex.mode = ModeReplay
	}
}

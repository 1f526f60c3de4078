package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// runParams holds the parsed arguments for the run command.
type runParams struct {
	path   string
	reset  string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// interactive prints a prompt before each line.
	interactive bool
}

// runRun drives a machine from commands read one per line. Besides the
// REPL commands, a line may be an input symbol or a serialized test, which
// is replayed from the initial state.
func runRun(p runParams) error {
	f, err := loadMachine(p.path)
	if err != nil {
		return err
	}
	runner, err := fsm.NewRunner(f)
	if err != nil {
		return err
	}
	out := p.stdout

	fmt.Fprintf(out, "FSM: %s (mealy)\n", f.Name)
	fmt.Fprintf(out, "Commands: <input>, <test>, reset, status, history, inputs, quit\n")
	fmt.Fprintln(out)
	fmt.Fprintln(out, runner.Status())

	scanner := bufio.NewScanner(p.stdin)
	for {
		if p.interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}

		switch cmd {
		case "quit", "exit", "q":
			return nil
		case "reset":
			runner.Reset()
			fmt.Fprintln(out, "Reset to initial state")
			fmt.Fprintln(out, runner.Status())
		case "status":
			fmt.Fprintln(out, runner.Status())
		case "history":
			printHistory(out, runner)
		case "inputs":
			fmt.Fprintf(out, "Available inputs: %v\n", runner.AvailableInputs())
		case "help", "?":
			fmt.Fprintln(out, "Commands:")
			fmt.Fprintln(out, "  <input>  - Send input to FSM")
			fmt.Fprintln(out, "  <test>   - Replay a test such as RB.A.BA from the initial state")
			fmt.Fprintln(out, "  reset    - Reset to initial state")
			fmt.Fprintln(out, "  status   - Show current status")
			fmt.Fprintln(out, "  history  - Show execution history")
			fmt.Fprintln(out, "  inputs   - Show available inputs")
			fmt.Fprintln(out, "  quit     - Exit")
		default:
			if strings.Contains(cmd, conformance.Separator) {
				replayTest(p, f, runner, cmd)
				continue
			}
			output, err := runner.Step(cmd)
			if err != nil {
				fmt.Fprintf(p.stderr, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Output: %s\n", output)
			fmt.Fprintln(out, runner.Status())
		}
	}
	return scanner.Err()
}

func replayTest(p runParams, f *fsm.FSM, runner *fsm.Runner, line string) {
	tc, err := conformance.ParseTestCase(line, p.reset, f.Alphabet)
	if err != nil {
		fmt.Fprintf(p.stderr, "Error: %v\n", err)
		return
	}
	runner.Reset()
	outputs, err := runner.Run(tc.Symbols())
	fmt.Fprintf(p.stdout, "Outputs: %s\n", strings.Join(outputs, " "))
	fmt.Fprintln(p.stdout, runner.Trace())
	if err != nil {
		fmt.Fprintf(p.stderr, "Error: %v\n", err)
	}
}

func printHistory(w io.Writer, r *fsm.Runner) {
	history := r.History()
	if len(history) == 0 {
		fmt.Fprintln(w, "No history yet")
		return
	}

	fmt.Fprintln(w, "History:")
	for i, step := range history {
		fmt.Fprintf(w, "  %d: %s --%s--> %s [%s]\n",
			i+1, step.FromState, step.Input, step.ToState, step.Output)
	}
}

func newRunCmd() *cobra.Command {
	var reset string

	cmd := &cobra.Command{
		Use:   "run <machine>",
		Short: "Run a machine interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(runParams{
				path:   args[0],
				reset:  reset,
				stdin:  cmd.InOrStdin(),
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),

				interactive: isTerminal(cmd.InOrStdin()),
			})
		},
	}

	cmd.Flags().StringVarP(&reset, "reset", "r", "R", "reset symbol of replayed tests")
	return cmd
}

// isTerminal reports whether r is a terminal, so that piped scripts are not
// interleaved with prompts.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

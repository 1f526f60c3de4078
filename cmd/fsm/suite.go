package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-conformance/internal/config"
	"github.com/ha1tch/fsm-conformance/internal/report"
	"github.com/ha1tch/fsm-conformance/pkg/conformance"
)

// suiteParams holds the parsed flags for the suite command.
type suiteParams struct {
	path   string
	format string
	output string
	cfg    *config.Config
	stdout io.Writer
}

// runSuite is the extracted, testable body of the suite command.
func runSuite(p suiteParams) error {
	if err := checkFormat(p.format, "list", "text", "json"); err != nil {
		return err
	}
	f, err := loadMachine(p.path)
	if err != nil {
		return err
	}
	a, suite, err := buildSuite(f, p.cfg)
	if err != nil {
		return err
	}
	logger.Info("derived suite", "method", p.cfg.Method, "tests", len(suite))

	w := p.stdout
	if p.output != "" {
		out, err := os.Create(p.output)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}

	if p.format == "list" && query == "" {
		return writeList(w, suite.Strings())
	}
	r := report.New(f)
	r.Analysis = a
	r.SetSuite(p.cfg.MethodValue(), p.cfg.Reset, p.cfg.Minimize, suite)
	return writeReport(w, p.format, r)
}

func writeList(w io.Writer, tests []string) error {
	bw := bufio.NewWriter(w)
	for _, t := range tests {
		fmt.Fprintln(bw, t)
	}
	return bw.Flush()
}

func newSuiteCmd() *cobra.Command {
	var (
		format string
		output string
		gen    genFlags
	)

	cmd := &cobra.Command{
		Use:   "suite <machine>",
		Short: "Derive a W-method or Wp-method test suite",
		Long: `Derive a conformance test suite. Each test is written as the
reset symbol followed by the access sequence, the transition input and
the identifying fragment, joined by '.', for example RB.A.BA.

The list format writes one test per line, ready for 'fsm check --tests'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gen.resolve(cmd)
			if err != nil {
				return err
			}
			return runSuite(suiteParams{
				path:   args[0],
				format: format,
				output: output,
				cfg:    cfg,
				stdout: os.Stdout,
			})
		},
	}

	gen.register(cmd)
	cmd.Flags().StringVar(&format, "format", "list", "output format: list, text or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// minimizeParams holds the parsed flags for the minimize command.
type minimizeParams struct {
	reset   string
	inputs  []string
	textual bool
	name    string
	stdin   io.Reader
	stdout  io.Writer
}

// runMinimize reads serialized tests, one per line, and writes the ones
// that are not prefixes of another test. By default tests are compared by
// their input symbols, the rule 'fsm suite --minimize' applies; textual
// compares the serialized strings instead.
func runMinimize(p minimizeParams) error {
	if err := conformance.ValidateReset(p.reset); err != nil {
		return err
	}
	name := p.name
	if name == "" {
		name = "<stdin>"
	}

	if p.textual {
		tests, err := readLines(p.stdin)
		if err != nil {
			return err
		}
		kept := conformance.MinimizeStrings(tests, p.reset)
		logger.Info("minimized suite", "rule", "textual", "before", len(tests), "after", len(kept))
		return writeList(p.stdout, kept)
	}

	suite, err := parseSuite(p.stdin, name, p.reset, p.inputs)
	if err != nil {
		return err
	}
	kept := conformance.Minimize(suite)
	logger.Info("minimized suite", "rule", "symbols", "before", len(suite), "after", len(kept))
	return writeList(p.stdout, kept.Strings())
}

// readLines returns the non-blank lines of r that are not # comments.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

func newMinimizeCmd() *cobra.Command {
	var p minimizeParams

	cmd := &cobra.Command{
		Use:   "minimize [file]",
		Short: "Remove tests that are prefixes of other tests",
		Long: `Read serialized tests, one per line, from file or stdin and
write the tests whose input sequence is not a prefix of another test's.
The relative order of the remaining tests is kept, and of repeated tests
the first is kept.

Tests are compared by the inputs they apply after the reset, the same rule
as 'fsm suite --minimize', so piping a suite through this command gives the
same result. With --textual the serialized strings are compared instead,
after collapsing a reset directly followed by a separator. Separators then
take part in the comparison, RB.A is not treated as a prefix of RBA.BA, and
fewer tests are removed (17 rather than 10 of the 33 Wp tests of the
4-state example).

Without --inputs every character is one input symbol.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.stdin = cmd.InOrStdin()
			p.stdout = cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				p.stdin = f
				p.name = args[0]
			}
			return runMinimize(p)
		},
	}

	cmd.Flags().StringVarP(&p.reset, "reset", "r", "R", "reset symbol the tests start with")
	cmd.Flags().StringSliceVar(&p.inputs, "inputs", nil, "input symbols, for symbols longer than one character")
	cmd.Flags().BoolVar(&p.textual, "textual", false, "compare serialized strings instead of input symbols")
	return cmd
}

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
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// readSuite parses a test list written by 'fsm suite --format list'.
func readSuite(path, reset string, inputs []string) (conformance.Suite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseSuite(file, path, reset, inputs)
}

// parseSuite parses one serialized test per line, skipping blank lines and
// # comments. Errors name the source and line.
func parseSuite(r io.Reader, name, reset string, inputs []string) (conformance.Suite, error) {
	var suite conformance.Suite
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tc, err := conformance.ParseTestCase(line, reset, inputs)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, n, err)
		}
		suite = append(suite, tc)
	}
	return suite, sc.Err()
}

// suiteFor derives the configured suite for spec, or reads it from
// testsPath when set.
func suiteFor(spec *fsm.FSM, cfg *config.Config, testsPath string) (*conformance.Analysis, conformance.Suite, error) {
	if testsPath == "" {
		return buildSuite(spec, cfg)
	}
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}
	suite, err := readSuite(testsPath, cfg.Reset, spec.Alphabet)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("read suite", "path", testsPath, "tests", len(suite))
	return nil, suite, nil
}

// checkParams holds the parsed flags for the check command.
type checkParams struct {
	specPath string
	implPath string
	tests    string
	format   string
	cfg      *config.Config
	stdout   io.Writer
}

// runCheck is the extracted, testable body of the check command. It
// returns an error when any test fails.
func runCheck(p checkParams) error {
	if err := checkFormat(p.format, "text", "json"); err != nil {
		return err
	}
	spec, err := loadMachine(p.specPath)
	if err != nil {
		return err
	}
	impl, err := loadMachine(p.implPath)
	if err != nil {
		return err
	}
	_, suite, err := suiteFor(spec, p.cfg, p.tests)
	if err != nil {
		return err
	}

	specTable, err := fsm.Compile(spec)
	if err != nil {
		return err
	}
	ex, err := conformance.Execute(specTable, fsm.NewTable(impl), spec.Initial, impl.Initial, suite)
	if err != nil {
		return err
	}
	logger.Info("executed suite", "passed", ex.Passed, "failed", ex.Failed)

	r := report.New(spec)
	r.SetSuite(p.cfg.MethodValue(), p.cfg.Reset, p.cfg.Minimize, suite)
	r.Execution = ex
	if err := writeReport(p.stdout, p.format, r); err != nil {
		return err
	}
	if ex.Failed > 0 {
		return fmt.Errorf("%d of %d tests failed", ex.Failed, len(ex.Verdicts))
	}
	return nil
}

func newCheckCmd() *cobra.Command {
	var (
		format string
		tests  string
		gen    genFlags
	)

	cmd := &cobra.Command{
		Use:   "check <spec> <impl>",
		Short: "Run a suite derived from spec against impl",
		Long: `Derive a suite from the spec machine (or read one with --tests)
and run every test against the implementation machine. Each failing test
is reported with its expected and actual outputs and the position of the
first difference. Exits non-zero when any test fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gen.resolve(cmd)
			if err != nil {
				return err
			}
			return runCheck(checkParams{
				specPath: args[0],
				implPath: args[1],
				tests:    tests,
				format:   format,
				cfg:      cfg,
				stdout:   os.Stdout,
			})
		},
	}

	gen.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().StringVarP(&tests, "tests", "t", "", "read the suite from a test list instead of deriving it")
	return cmd
}

// mutantsParams holds the parsed flags for the mutants command.
type mutantsParams struct {
	path     string
	tests    string
	format   string
	minScore float64
	cfg      *config.Config
	stdout   io.Writer
	stderr   io.Writer
}

// runMutants scores the suite against every single-fault mutant of the
// machine.
func runMutants(p mutantsParams) error {
	if err := checkFormat(p.format, "text", "json"); err != nil {
		return err
	}
	f, err := loadMachine(p.path)
	if err != nil {
		return err
	}
	_, suite, err := suiteFor(f, p.cfg, p.tests)
	if err != nil {
		return err
	}

	mutants := conformance.Mutants(f)
	logger.Info("scoring mutants", "mutants", len(mutants), "tests", len(suite))
	score, err := conformance.Score(f, suite, mutants)
	if err != nil {
		return err
	}

	r := report.New(f)
	r.SetSuite(p.cfg.MethodValue(), p.cfg.Reset, p.cfg.Minimize, suite)
	r.Mutation = score
	if err := writeReport(p.stdout, p.format, r); err != nil {
		return err
	}

	if p.minScore <= 0 {
		return nil
	}
	status := "PASS"
	if score.Ratio() < p.minScore {
		status = "FAIL"
	}
	fmt.Fprintf(p.stderr, "Mutation score: %.3f/%.3f (%s)\n", score.Ratio(), p.minScore, status)
	if status == "FAIL" {
		return fmt.Errorf("mutation score %.3f is below minimum %.3f", score.Ratio(), p.minScore)
	}
	return nil
}

func newMutantsCmd() *cobra.Command {
	var (
		format   string
		tests    string
		minScore float64
		gen      genFlags
	)

	cmd := &cobra.Command{
		Use:   "mutants <machine>",
		Short: "Measure how many single-fault mutants a suite detects",
		Long: `Seed every single output fault and every single transfer fault
into the machine and run the suite against each mutant. A mutant is
killed when some test observes a different output trace.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gen.resolve(cmd)
			if err != nil {
				return err
			}
			return runMutants(mutantsParams{
				path:     args[0],
				tests:    tests,
				format:   format,
				minScore: minScore,
				cfg:      cfg,
				stdout:   os.Stdout,
				stderr:   os.Stderr,
			})
		},
	}

	gen.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().StringVarP(&tests, "tests", "t", "", "read the suite from a test list instead of deriving it")
	cmd.Flags().Float64Var(&minScore, "min-score", 0,
		"fail if the killed ratio is below this (0 = no limit)")
	return cmd
}

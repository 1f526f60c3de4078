// Command fsm derives and checks conformance test suites for Mealy machines.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-conformance/internal/config"
	applog "github.com/ha1tch/fsm-conformance/internal/log"
	"github.com/ha1tch/fsm-conformance/internal/report"
	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
	"github.com/ha1tch/fsm-conformance/pkg/fsmfile"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = applog.New(applog.FromEnv())

// verbose forces debug logging regardless of configuration.
var verbose bool

// query, when set, replaces report output with the results of a jq
// expression evaluated against the JSON report.
var query string

// Set by build flags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fsm",
		Short: "fsm - conformance test generation for Mealy machines",
		Long: `fsm computes distinguishing sequences, characterizing and
identifying sets and state covers of deterministic Mealy machines, and
derives W-method and Wp-method conformance test suites from them.

Machines are read from .json, .yaml, .hex or .fsm files. Generator
settings come from .fsmconform.yaml, FSM_* environment variables and
flags, in increasing order of precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	root.PersistentFlags().StringVarP(&query, "query", "q", "", "jq expression applied to the JSON report")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newSuiteCmd())
	root.AddCommand(newMinimizeCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newMutantsCmd())
	root.AddCommand(newGenCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newDotCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newSchemaCmd())
	return root
}

// genFlags holds the generator flags shared by the commands that derive a
// suite. Flags left at their defaults do not override the configuration.
type genFlags struct {
	configPath      string
	method          string
	reset           string
	maxLength       int
	coverLength     int
	bound           string
	adaptiveLimit   int
	requireComplete bool
	minimize        bool
}

func (g *genFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&g.configPath, "config", "c", config.FileName, "config file")
	fl.StringVarP(&g.method, "method", "m", "wp", "derivation method: w or wp")
	fl.StringVarP(&g.reset, "reset", "r", "R", "reset symbol prefixed to every test")
	fl.IntVarP(&g.maxLength, "max-length", "k", conformance.DefaultMaxLength,
		"search bound for distinguishing sequences")
	fl.IntVar(&g.coverLength, "cover-length", 0,
		"search bound for the state cover (0 = number of states)")
	fl.StringVar(&g.bound, "bound", "fixed", "bound policy: fixed or adaptive")
	fl.IntVar(&g.adaptiveLimit, "adaptive-limit", 0,
		"upper bound for the adaptive policy (0 = states × inputs)")
	fl.BoolVar(&g.requireComplete, "require-complete", false,
		"fail instead of building a suite from incomplete artifacts")
	fl.BoolVar(&g.minimize, "minimize", false, "drop tests that are prefixes of other tests")
}

// resolve loads the configuration and applies the flags the user set.
func (g *genFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	if fl.Changed("method") {
		cfg.Method = g.method
	}
	if fl.Changed("reset") {
		cfg.Reset = g.reset
	}
	if fl.Changed("max-length") {
		cfg.MaxLength = g.maxLength
	}
	if fl.Changed("cover-length") {
		cfg.CoverLength = g.coverLength
	}
	if fl.Changed("bound") {
		cfg.Bound = g.bound
	}
	if fl.Changed("adaptive-limit") {
		cfg.AdaptiveLimit = g.adaptiveLimit
	}
	if fl.Changed("require-complete") {
		cfg.RequireComplete = g.requireComplete
	}
	if fl.Changed("minimize") {
		cfg.Minimize = g.minimize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	configureLogger(cfg)
	return cfg, nil
}

func configureLogger(cfg *config.Config) {
	lc := &applog.Config{
		Level:  cfg.Log.Level,
		Format: applog.Format(cfg.Log.Format),
		Output: os.Stderr,
	}
	if verbose {
		lc.Level = "debug"
	}
	logger = applog.New(lc)
}

// options returns the search options for cfg, logging through logger.
func options(cfg *config.Config) conformance.Options {
	opts := cfg.Options()
	opts.Logger = logger
	return opts
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %v", format, allowed)
}

func writeReport(w io.Writer, format string, r *report.Report) error {
	if query != "" {
		return report.WriteQuery(context.Background(), w, r, query)
	}
	if format == "json" {
		return report.WriteJSON(w, r)
	}
	return report.WriteText(w, r)
}

// loadMachine reads a machine file and logs what was loaded.
func loadMachine(path string) (*fsm.FSM, error) {
	f, err := fsmfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("loaded machine", "path", path, "states", len(f.States), "inputs", len(f.Alphabet))
	return f, nil
}

// buildSuite analyzes f and derives the suite selected by cfg.
func buildSuite(f *fsm.FSM, cfg *config.Config) (*conformance.Analysis, conformance.Suite, error) {
	a, err := conformance.Analyze(f, options(cfg))
	if err != nil {
		return nil, nil, err
	}
	for _, w := range a.Warnings {
		logger.Warn(w.Message, "state", w.State, "type", w.Type)
	}
	suite, err := a.Suite(cfg.MethodValue(), cfg.Reset)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Minimize {
		before := len(suite)
		suite = conformance.Minimize(suite)
		logger.Info("minimized suite", "before", before, "after", len(suite))
	}
	if !a.Complete() {
		logger.Warn("suite derived from incomplete artifacts; raise --max-length or --cover-length",
			"max_length", cfg.MaxLength)
	}
	return a, suite, nil
}

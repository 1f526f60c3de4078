// Command fsmexplore is a terminal browser for conformance suites. It lists
// the tests derived from a machine and replays a selected test one
// transition at a time, optionally side by side with an implementation.
package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-conformance/internal/config"
	applog "github.com/ha1tch/fsm-conformance/internal/log"
	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
	"github.com/ha1tch/fsm-conformance/pkg/fsmfile"
)

var logger = applog.New(applog.FromEnv())

// exploreParams holds the parsed flags.
type exploreParams struct {
	path       string
	implPath   string
	configPath string
	method     string
	minimize   bool
}

// load builds an explorer without a screen.
func load(p exploreParams) (*Explorer, error) {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return nil, err
	}
	if p.method != "" {
		cfg.Method = p.method
	}
	if p.minimize {
		cfg.Minimize = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = applog.New(&applog.Config{Level: cfg.Log.Level, Format: applog.Format(cfg.Log.Format), Output: os.Stderr})

	f, err := fsmfile.Load(p.path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.path, err)
	}
	opts := cfg.Options()
	opts.Logger = logger
	a, err := conformance.Analyze(f, opts)
	if err != nil {
		return nil, err
	}
	suite, err := a.Suite(cfg.MethodValue(), cfg.Reset)
	if err != nil {
		return nil, err
	}
	if cfg.Minimize {
		suite = conformance.Minimize(suite)
	}

	var impl *fsm.FSM
	if p.implPath != "" {
		if impl, err = fsmfile.Load(p.implPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", p.implPath, err)
		}
	}
	logger.Debug("loaded suite", "tests", len(suite), "impl", p.implPath)

	ex, err := NewExplorer(a, cfg.MethodValue(), suite, impl)
	if err != nil {
		return nil, err
	}
	ex.filename = p.path
	return ex, nil
}

func main() {
	var p exploreParams

	cmd := &cobra.Command{
		Use:   "fsmexplore <machine>",
		Short: "Browse and replay a conformance suite in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.path = args[0]
			ex, err := load(p)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing screen: %w", err)
			}
			defer screen.Fini()
			screen.Clear()

			ex.screen = screen
			ex.run()
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&p.implPath, "impl", "", "implementation machine to replay against")
	cmd.Flags().StringVarP(&p.configPath, "config", "c", config.FileName, "config file")
	cmd.Flags().StringVarP(&p.method, "method", "m", "", "derivation method: w or wp (default from config)")
	cmd.Flags().BoolVar(&p.minimize, "minimize", false, "drop tests that are prefixes of other tests")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

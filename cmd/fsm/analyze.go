package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-conformance/internal/config"
	"github.com/ha1tch/fsm-conformance/internal/report"
	"github.com/ha1tch/fsm-conformance/internal/watch"
	"github.com/ha1tch/fsm-conformance/pkg/conformance"
)

// analyzeParams holds the parsed flags for the analyze command.
type analyzeParams struct {
	path   string
	format string
	cfg    *config.Config
	stdout io.Writer

	// watch re-analyzes whenever the machine file changes until ctx is
	// done.
	watch bool
	ctx   context.Context
}

// runAnalyze is the extracted, testable body of the analyze command.
func runAnalyze(p analyzeParams) error {
	if err := checkFormat(p.format, "text", "json"); err != nil {
		return err
	}
	err := analyzeOnce(p)
	if !p.watch {
		return err
	}
	if err != nil {
		logger.Error("analysis failed", "err", err)
	}

	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Info("watching for changes", "path", p.path)
	return watch.File(ctx, p.path, watch.Config{Logger: logger}, func() error {
		fmt.Fprintln(p.stdout)
		return analyzeOnce(p)
	})
}

func analyzeOnce(p analyzeParams) error {
	f, err := loadMachine(p.path)
	if err != nil {
		return err
	}

	logger.Info("analyzing machine", "path", p.path, "max_length", p.cfg.MaxLength, "bound", p.cfg.Bound)
	a, err := conformance.Analyze(f, options(p.cfg))
	if err != nil {
		return err
	}
	for _, w := range a.Warnings {
		logger.Warn(w.Message, "state", w.State, "type", w.Type)
	}

	r := report.New(f)
	r.Analysis = a
	return writeReport(p.stdout, p.format, r)
}

func newAnalyzeCmd() *cobra.Command {
	var (
		format  string
		watchFS bool
		gen     genFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze <machine>",
		Short: "Compute d, W, the identifying sets and the state cover",
		Long: `Analyze a machine and report its distinguishing sequence,
characterizing set W, identifying set of every state and state cover,
each with its completeness under the configured search bound.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gen.resolve(cmd)
			if err != nil {
				return err
			}
			return runAnalyze(analyzeParams{
				path:   args[0],
				format: format,
				cfg:    cfg,
				stdout: os.Stdout,
				watch:  watchFS,
				ctx:    cmd.Context(),
			})
		},
	}

	gen.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVarP(&watchFS, "watch", "w", false, "re-analyze when the machine file changes")
	return cmd
}

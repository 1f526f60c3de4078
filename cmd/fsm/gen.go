package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-conformance/internal/config"
	"github.com/ha1tch/fsm-conformance/pkg/codegen"
)

// genParams holds the parsed flags for the gen command.
type genParams struct {
	path   string
	kind   string
	pkg    string
	output string
	cfg    *config.Config
	stdout io.Writer
}

// runGen writes generated Go source: the machine itself or a test file
// replaying its suite.
func runGen(p genParams) error {
	f, err := loadMachine(p.path)
	if err != nil {
		return err
	}

	var src string
	switch p.kind {
	case "impl":
		if err := f.Validate(); err != nil {
			return err
		}
		src = codegen.GenerateGo(f, p.pkg)
	case "test":
		_, suite, err := buildSuite(f, p.cfg)
		if err != nil {
			return err
		}
		if src, err = codegen.GenerateGoTests(f, suite, p.pkg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid kind %q: must be 'impl' or 'test'", p.kind)
	}

	if p.output == "" {
		_, err = io.WriteString(p.stdout, src)
		return err
	}
	if err := os.WriteFile(p.output, []byte(src), 0o644); err != nil {
		return err
	}
	logger.Info("wrote generated code", "path", p.output, "kind", p.kind)
	return nil
}

func newGenCmd() *cobra.Command {
	var (
		kind   string
		pkg    string
		output string
		gen    genFlags
	)

	cmd := &cobra.Command{
		Use:   "gen <machine>",
		Short: "Generate Go code for a machine or its conformance tests",
		Long: `Generate Go source. --kind impl emits an enum-based implementation
of the machine; --kind test emits a self-contained _test.go file that
replays the derived suite and compares every output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gen.resolve(cmd)
			if err != nil {
				return err
			}
			return runGen(genParams{
				path:   args[0],
				kind:   kind,
				pkg:    pkg,
				output: output,
				cfg:    cfg,
				stdout: os.Stdout,
			})
		},
	}

	gen.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", "test", "what to generate: impl or test")
	cmd.Flags().StringVarP(&pkg, "package", "p", "fsm", "Go package name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

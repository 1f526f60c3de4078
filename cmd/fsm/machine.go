package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-conformance/internal/report"
	"github.com/ha1tch/fsm-conformance/pkg/conformance"
	"github.com/ha1tch/fsm-conformance/pkg/fsm"
	"github.com/ha1tch/fsm-conformance/pkg/fsmfile"
)

// convertParams holds the parsed flags for the convert command.
type convertParams struct {
	input    string
	output   string
	pretty   bool
	noLabels bool
	stdout   io.Writer
}

// runConvert re-encodes a machine file. The output format follows the
// output extension; without one, .json becomes .fsm and anything else
// becomes .json.
func runConvert(p convertParams) error {
	f, err := loadMachine(p.input)
	if err != nil {
		return err
	}

	output := p.output
	if output == "" {
		ext := filepath.Ext(p.input)
		base := strings.TrimSuffix(p.input, ext)
		if ext == ".json" {
			output = base + ".fsm"
		} else {
			output = base + ".json"
		}
	}

	format, err := fsmfile.FormatFromPath(output)
	if err != nil {
		return err
	}
	switch format {
	case fsmfile.FormatFSM:
		err = fsmfile.WriteFSMFile(output, f, !p.noLabels)
	case fsmfile.FormatJSON:
		var data []byte
		if data, err = fsmfile.ToJSON(f, p.pretty); err == nil {
			err = os.WriteFile(output, data, 0o644)
		}
	default:
		err = fsmfile.Save(output, f)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	fmt.Fprintf(p.stdout, "Written: %s\n", output)
	return nil
}

func newConvertCmd() *cobra.Command {
	var p convertParams

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert between formats (json, yaml, hex, fsm)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.input = args[0]
			p.stdout = cmd.OutOrStdout()
			return runConvert(p)
		},
	}

	cmd.Flags().StringVarP(&p.output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&p.pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&p.noLabels, "no-labels", false, "omit labels.yaml from .fsm archives")
	return cmd
}

// dotParams holds the parsed flags for the dot command.
type dotParams struct {
	path   string
	output string
	title  string
	cover  bool
	stdout io.Writer
}

// runDot writes Graphviz DOT, optionally with the state cover's edges in
// bold.
func runDot(p dotParams) error {
	f, err := loadMachine(p.path)
	if err != nil {
		return err
	}

	opts := fsmfile.DOTOptions{Title: p.title}
	if opts.Title == "" {
		if f.Name != "" {
			opts.Title = f.Name
		} else {
			opts.Title = fmt.Sprintf("MEALY: %d states", len(f.States))
		}
	}
	if p.cover {
		table, err := fsm.Compile(f)
		if err != nil {
			return err
		}
		c, err := conformance.StateCover(table, f.Initial, f.States, f.Alphabet, conformance.DefaultOptions())
		if err != nil {
			return err
		}
		for _, seq := range c.Sequences() {
			opts.Highlight = append(opts.Highlight, seq)
		}
	}

	dot := fsmfile.GenerateDOT(f, opts)
	if p.output == "" {
		_, err = io.WriteString(p.stdout, dot)
		return err
	}
	return os.WriteFile(p.output, []byte(dot), 0o644)
}

func newDotCmd() *cobra.Command {
	var p dotParams

	cmd := &cobra.Command{
		Use:   "dot <machine>",
		Short: "Generate Graphviz DOT output",
		Long: `Generate Graphviz DOT output. With --cover the transitions walked
by the state cover's access sequences are drawn in bold.

  fsm dot machine.yaml --cover | dot -Tsvg -o machine.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.path = args[0]
			p.stdout = cmd.OutOrStdout()
			return runDot(p)
		},
	}

	cmd.Flags().StringVarP(&p.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVarP(&p.title, "title", "t", "", "graph title (default: machine name)")
	cmd.Flags().BoolVar(&p.cover, "cover", false, "highlight the state cover")
	return cmd
}

// runInfo prints a summary of a machine.
func runInfo(path string, w io.Writer) error {
	f, err := loadMachine(path)
	if err != nil {
		return err
	}

	if f.Name != "" {
		fmt.Fprintf(w, "Name:        %s\n", f.Name)
	}
	if f.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", f.Description)
	}
	fmt.Fprintf(w, "States:      %d\n", len(f.States))
	fmt.Fprintf(w, "Inputs:      %d\n", len(f.Alphabet))
	fmt.Fprintf(w, "Outputs:     %d\n", len(f.OutputAlphabet))
	fmt.Fprintf(w, "Transitions: %d\n", len(f.Transitions))
	fmt.Fprintf(w, "Initial:     %s\n", f.Initial)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "States:      %v\n", f.States)
	fmt.Fprintf(w, "Alphabet:    %v\n", f.Alphabet)
	fmt.Fprintf(w, "Outputs:     %v\n", f.OutputAlphabet)

	for _, warn := range f.Analyse() {
		fmt.Fprintf(w, "Warning:     %s: %s\n", warn.State, warn.Message)
	}
	return nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <machine>",
		Short: "Show machine information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0], cmd.OutOrStdout())
		},
	}
}

// runValidate checks that a machine is deterministic and completely
// specified.
// runValidate validates every machine file matching patterns. Patterns
// may use ** to match across directories.
func runValidate(patterns []string, w io.Writer) error {
	paths, err := expandPatterns(patterns)
	if err != nil {
		return err
	}
	failed := 0
	for _, path := range paths {
		if err := validateOne(path, w); err != nil {
			failed++
			fmt.Fprintf(w, "%s: %v\n", path, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation failed: %d of %d machines invalid", failed, len(paths))
	}
	return nil
}

func validateOne(path string, w io.Writer) error {
	f, err := loadMachine(path)
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: valid mealy machine with %d states, %d transitions\n",
		path, len(f.States), len(f.Transitions))
	return nil
}

func expandPatterns(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <machine|pattern>...",
		Short: "Validate machine files",
		Long: `Validate one or more machine files. Arguments may be glob
patterns; ** matches any number of directories, as in
'fsm validate "machines/**/*.yaml"'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args, cmd.OutOrStdout())
		},
	}
}

func newSchemaCmd() *cobra.Command {
	var machine bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for report output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of --format=json output. With --machine, print the schema
JSON machine files are validated against instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := report.Schema
			if machine {
				schema = fsmfile.MachineSchema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}

	cmd.Flags().BoolVar(&machine, "machine", false, "print the machine file schema")
	return cmd
}

// Package codegen emits Go source for a Mealy machine and for its
// conformance test suite.
package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// GenerateGo generates a Go implementation of the machine.
// The generated code is compatible with both standard Go and TinyGo.
func GenerateGo(f *fsm.FSM, packageName string) string {
	var sb strings.Builder
	typeName := toPascalCase(sanitizeName(f.Name))
	if f.Name == "" {
		typeName = "FSM"
	}
	if packageName == "" {
		packageName = "fsm"
	}
	lower := strings.ToLower(typeName)

	stateIDs := identifiers(typeName+"State", f.States)
	inputIDs := identifiers(typeName+"Input", f.Alphabet)
	outputIDs := identifiers(typeName+"Output", f.OutputAlphabet)

	fmt.Fprintf(&sb, `// Code generated from FSM definition. DO NOT EDIT.
// FSM: %s

package %s

`, f.Name, packageName)

	writeEnum(&sb, typeName, "State", lower+"StateNames", f.States, stateIDs)
	writeEnum(&sb, typeName, "Input", lower+"InputNames", f.Alphabet, inputIDs)
	writeEnum(&sb, typeName, "Output", lower+"OutputNames", f.OutputAlphabet, outputIDs)

	fmt.Fprintf(&sb, "// %s is the finite state machine\n", typeName)
	fmt.Fprintf(&sb, "type %s struct {\n", typeName)
	fmt.Fprintf(&sb, "\tstate %sState\n", typeName)
	sb.WriteString("}\n\n")

	fmt.Fprintf(&sb, "// New%s creates a new FSM in its initial state\n", typeName)
	fmt.Fprintf(&sb, "func New%s() *%s {\n", typeName, typeName)
	fmt.Fprintf(&sb, "\treturn &%s{state: %s}\n", typeName, stateIDs[f.Initial])
	sb.WriteString("}\n\n")

	sb.WriteString("// State returns the current state\n")
	fmt.Fprintf(&sb, "func (f *%s) State() %sState {\n", typeName, typeName)
	sb.WriteString("\treturn f.state\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// Step applies an input, moves to the next state and returns the output.\n")
	sb.WriteString("// ok is false when no transition is defined.\n")
	fmt.Fprintf(&sb, "func (f *%s) Step(input %sInput) (out %sOutput, ok bool) {\n", typeName, typeName, typeName)
	sb.WriteString("\tswitch f.state {\n")

	byState := make(map[string][]fsm.Transition)
	for _, t := range f.Transitions {
		byState[t.From] = append(byState[t.From], t)
	}
	for _, state := range f.States {
		trans := byState[state]
		if len(trans) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\tcase %s:\n", stateIDs[state])
		sb.WriteString("\t\tswitch input {\n")
		seen := make(map[string]bool)
		for _, t := range trans {
			if seen[t.Input] {
				continue
			}
			seen[t.Input] = true
			fmt.Fprintf(&sb, "\t\tcase %s:\n", inputIDs[t.Input])
			fmt.Fprintf(&sb, "\t\t\tf.state = %s\n", stateIDs[t.To])
			fmt.Fprintf(&sb, "\t\t\treturn %s, true\n", outputIDs[t.Output])
		}
		sb.WriteString("\t\t}\n")
	}
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn 0, false\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// Reset returns the FSM to its initial state\n")
	fmt.Fprintf(&sb, "func (f *%s) Reset() {\n", typeName)
	fmt.Fprintf(&sb, "\tf.state = %s\n", stateIDs[f.Initial])
	sb.WriteString("}\n")

	return sb.String()
}

func writeEnum(sb *strings.Builder, typeName, kind, namesVar string, values []string, ids map[string]string) {
	enum := typeName + kind
	fmt.Fprintf(sb, "// %s represents FSM %ss\n", enum, strings.ToLower(kind))
	fmt.Fprintf(sb, "type %s uint16\n\n", enum)

	if len(values) > 0 {
		sb.WriteString("const (\n")
		for i, v := range values {
			if i == 0 {
				fmt.Fprintf(sb, "\t%s %s = iota\n", ids[v], enum)
			} else {
				fmt.Fprintf(sb, "\t%s\n", ids[v])
			}
		}
		sb.WriteString(")\n\n")
	}

	fmt.Fprintf(sb, "var %s = [...]string{\n", namesVar)
	for _, v := range values {
		fmt.Fprintf(sb, "\t%q,\n", v)
	}
	sb.WriteString("}\n\n")

	recv := strings.ToLower(kind[:1])
	fmt.Fprintf(sb, "func (%s %s) String() string {\n", recv, enum)
	fmt.Fprintf(sb, "\tif int(%s) < len(%s) {\n", recv, namesVar)
	fmt.Fprintf(sb, "\t\treturn %s[%s]\n", namesVar, recv)
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn \"unknown\"\n")
	sb.WriteString("}\n\n")
}

package fsmfile

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// yamlFSM mirrors jsonFSM with transitions as quadruples, usually
// written in flow style:
//
//	transitions:
//	  - [s0, A, s0, X]
type yamlFSM struct {
	Type           string      `yaml:"type"`
	Name           string      `yaml:"name,omitempty"`
	Description    string      `yaml:"description,omitempty"`
	States         []string    `yaml:"states,flow"`
	Alphabet       []string    `yaml:"alphabet,flow"`
	OutputAlphabet []string    `yaml:"output_alphabet,flow,omitempty"`
	Initial        string      `yaml:"initial"`
	Transitions    [][4]string `yaml:"transitions"`
}

// ParseYAML parses an FSM from YAML. Transitions are [from, input, to,
// output] quadruples.
func ParseYAML(data []byte) (*fsm.FSM, error) {
	var y yamlFSM
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if y.Type != "" && y.Type != string(fsm.TypeMealy) {
		return nil, fmt.Errorf("unsupported machine type %q", y.Type)
	}

	f := fsm.New()
	f.Name = y.Name
	f.Description = y.Description
	for _, s := range y.States {
		f.AddState(s)
	}
	for _, a := range y.Alphabet {
		f.AddInput(a)
	}
	for _, o := range y.OutputAlphabet {
		f.AddOutput(o)
	}
	f.SetInitial(y.Initial)
	for _, t := range y.Transitions {
		f.AddTransition(t[0], t[1], t[2], t[3])
	}
	return f, nil
}

// ToYAML converts an FSM to YAML.
func ToYAML(f *fsm.FSM) ([]byte, error) {
	y := yamlFSM{
		Type:           string(fsm.TypeMealy),
		Name:           f.Name,
		Description:    f.Description,
		States:         f.States,
		Alphabet:       f.Alphabet,
		OutputAlphabet: f.OutputAlphabet,
		Initial:        f.Initial,
		Transitions:    make([][4]string, 0, len(f.Transitions)),
	}
	for _, t := range f.Transitions {
		y.Transitions = append(y.Transitions, [4]string{t.From, t.Input, t.To, t.Output})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(y); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

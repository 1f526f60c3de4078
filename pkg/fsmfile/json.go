package fsmfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// jsonFSM is the JSON representation of an FSM.
type jsonFSM struct {
	Type           string           `json:"type"`
	Name           string           `json:"name,omitempty"`
	Description    string           `json:"description,omitempty"`
	States         []string         `json:"states"`
	Alphabet       []string         `json:"alphabet"`
	OutputAlphabet []string         `json:"output_alphabet,omitempty"`
	Initial        string           `json:"initial"`
	Transitions    []jsonTransition `json:"transitions"`
}

type jsonTransition struct {
	From   string `json:"from"`
	Input  string `json:"input"`
	To     string `json:"to"`
	Output string `json:"output"`
}

// MachineSchema is the JSON Schema (Draft 2020-12) for machine files
// read by ParseJSON and written by ToJSON.
const MachineSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/ha1tch/fsm-conformance/machine.schema.json",
  "title": "Mealy machine",
  "type": "object",
  "required": ["states", "alphabet", "initial", "transitions"],
  "properties": {
    "type": { "const": "mealy" },
    "name": { "type": "string" },
    "description": { "type": "string" },
    "states": {
      "type": "array",
      "minItems": 1,
      "items": { "type": "string", "minLength": 1 }
    },
    "alphabet": {
      "type": "array",
      "minItems": 1,
      "items": { "type": "string", "minLength": 1 }
    },
    "output_alphabet": {
      "type": "array",
      "items": { "type": "string" }
    },
    "initial": { "type": "string", "minLength": 1 },
    "transitions": {
      "type": "array",
      "items": { "$ref": "#/$defs/Transition" }
    }
  },
  "$defs": {
    "Transition": {
      "type": "object",
      "required": ["from", "input", "to", "output"],
      "additionalProperties": false,
      "properties": {
        "from": { "type": "string", "minLength": 1 },
        "input": { "type": "string", "minLength": 1 },
        "to": { "type": "string", "minLength": 1 },
        "output": { "type": "string" }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func machineSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(MachineSchema)))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("machine.schema.json", doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("machine.schema.json")
	})
	return schema, schemaErr
}

// ValidateJSON checks data against MachineSchema.
func ValidateJSON(data []byte) error {
	sch, err := machineSchema()
	if err != nil {
		return fmt.Errorf("compile machine schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("machine does not match schema: %w", err)
	}
	return nil
}

// ParseJSON parses an FSM from JSON. The document is checked against
// MachineSchema first.
func ParseJSON(data []byte) (*fsm.FSM, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	var j jsonFSM
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	f := fsm.New()
	f.Name = j.Name
	f.Description = j.Description
	for _, s := range j.States {
		f.AddState(s)
	}
	for _, a := range j.Alphabet {
		f.AddInput(a)
	}
	for _, o := range j.OutputAlphabet {
		f.AddOutput(o)
	}
	f.SetInitial(j.Initial)

	for _, jt := range j.Transitions {
		f.AddTransition(jt.From, jt.Input, jt.To, jt.Output)
	}
	return f, nil
}

// ToJSON converts an FSM to JSON.
func ToJSON(f *fsm.FSM, pretty bool) ([]byte, error) {
	j := jsonFSM{
		Type:           string(fsm.TypeMealy),
		Name:           f.Name,
		Description:    f.Description,
		States:         f.States,
		Alphabet:       f.Alphabet,
		OutputAlphabet: f.OutputAlphabet,
		Initial:        f.Initial,
		Transitions:    make([]jsonTransition, 0, len(f.Transitions)),
	}
	for _, t := range f.Transitions {
		j.Transitions = append(j.Transitions, jsonTransition(t))
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

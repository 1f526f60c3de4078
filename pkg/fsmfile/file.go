package fsmfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// Labels represents the labels.yaml content of a .fsm archive.
type Labels struct {
	FSM     FSMMeta        `yaml:"fsm"`
	States  map[int]string `yaml:"states,omitempty"`
	Inputs  map[int]string `yaml:"inputs,omitempty"`
	Outputs map[int]string `yaml:"outputs,omitempty"`
}

// FSMMeta contains FSM metadata.
type FSMMeta struct {
	Version     int    `yaml:"version"`
	Type        string `yaml:"type"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// GenerateLabels creates labels.yaml content.
func GenerateLabels(f *fsm.FSM, states, inputs, outputs map[int]string) ([]byte, error) {
	l := Labels{
		FSM: FSMMeta{
			Version:     1,
			Type:        string(fsm.TypeMealy),
			Name:        f.Name,
			Description: f.Description,
		},
		States:  states,
		Inputs:  inputs,
		Outputs: outputs,
	}
	return yaml.Marshal(l)
}

// ParseLabels parses labels.yaml content.
func ParseLabels(data []byte) (*Labels, error) {
	var l Labels
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	if l.FSM.Type != "" && l.FSM.Type != string(fsm.TypeMealy) {
		return nil, fmt.Errorf("unsupported machine type %q", l.FSM.Type)
	}
	return &l, nil
}

// WriteFSMFile writes an FSM to a .fsm file.
func WriteFSMFile(path string, f *fsm.FSM, includeLabels bool) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFSM(file, f, includeLabels); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteFSM writes an FSM to a writer in .fsm format.
func WriteFSM(w io.Writer, f *fsm.FSM, includeLabels bool) error {
	zw := zip.NewWriter(w)

	records, states, inputs, outputs := FSMToRecords(f)

	hw, err := zw.Create("machine.hex")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(hw, FormatHex(records, 4)+"\n"); err != nil {
		return err
	}

	if includeLabels {
		content, err := GenerateLabels(f, states, inputs, outputs)
		if err != nil {
			return err
		}
		lw, err := zw.Create("labels.yaml")
		if err != nil {
			return err
		}
		if _, err := lw.Write(content); err != nil {
			return err
		}
	}

	return zw.Close()
}

// ReadFSMFile reads an FSM from a .fsm file.
func ReadFSMFile(path string) (*fsm.FSM, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	return ReadFSM(file, info.Size())
}

// ReadFSM reads an FSM from a reader containing .fsm format.
func ReadFSM(r io.ReaderAt, size int64) (*fsm.FSM, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	var hexContent, labelsContent []byte
	for _, zf := range zr.File {
		if zf.Name != "machine.hex" && zf.Name != "labels.yaml" {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		if zf.Name == "machine.hex" {
			hexContent = data
		} else {
			labelsContent = data
		}
	}

	if len(hexContent) == 0 {
		return nil, fmt.Errorf("machine.hex not found in archive")
	}

	records, err := ParseHex(string(hexContent))
	if err != nil {
		return nil, err
	}

	var labels *Labels
	if len(labelsContent) > 0 {
		if labels, err = ParseLabels(labelsContent); err != nil {
			return nil, err
		}
	}
	return RecordsToFSM(records, labels)
}

// ReadFSMBytes reads an FSM from bytes in .fsm format.
func ReadFSMBytes(data []byte) (*fsm.FSM, error) {
	return ReadFSM(bytes.NewReader(data), int64(len(data)))
}

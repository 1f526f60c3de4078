package fsmfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/fsm-conformance/pkg/fsm"
)

// Format is a machine file format.
type Format string

const (
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatHexRecords Format = "hex"
	FormatFSM        Format = "fsm"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hex":
		return FormatHexRecords, nil
	case ".fsm":
		return FormatFSM, nil
	}
	return "", fmt.Errorf("unknown machine file extension %q (want .json, .yaml, .yml, .hex or .fsm)", filepath.Ext(path))
}

// Load reads a machine from path, choosing the parser by extension.
func Load(path string) (*fsm.FSM, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatFSM {
		return ReadFSMFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*fsm.FSM, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatHexRecords:
		records, err := ParseHex(string(data))
		if err != nil {
			return nil, err
		}
		return RecordsToFSM(records, nil)
	case FormatFSM:
		return ReadFSMBytes(data)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// Save writes f to path, choosing the encoder by extension. Archives
// include labels.
func Save(path string, f *fsm.FSM) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatFSM:
		return WriteFSMFile(path, f, true)
	case FormatJSON:
		data, err = ToJSON(f, true)
	case FormatYAML:
		data, err = ToYAML(f)
	case FormatHexRecords:
		// Plain hex records carry indices only; names survive in .fsm
		// archives, which add labels.yaml.
		records, _, _, _ := FSMToRecords(f)
		data = []byte(FormatHex(records, 4) + "\n")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

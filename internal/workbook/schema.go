// Package workbook reads and writes the files a planner exchanges with the
// scheduler: the YAML/JSON workbook, block CSV sheets and schedule exports.
package workbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Workbook is the top-level structure of a workbook file.
type Workbook struct {
	Processes      []ProcessEntry `yaml:"processes,omitempty" json:"processes,omitempty"`
	Teams          []TeamEntry    `yaml:"teams,omitempty" json:"teams,omitempty"`
	GlobalHolidays []string       `yaml:"global_holidays,omitempty" json:"global_holidays,omitempty"`
	Projects       []ProjectEntry `yaml:"projects,omitempty" json:"projects,omitempty"`
}

// ProcessEntry defines one pipeline step. When a workbook lists no
// processes the default pipeline applies.
type ProcessEntry struct {
	Name        string `yaml:"name" json:"name"`
	Kind        string `yaml:"kind" json:"kind"`
	Order       int    `yaml:"order" json:"order"`
	Team        string `yaml:"team,omitempty" json:"team,omitempty"`
	DefaultDays *int   `yaml:"default_days,omitempty" json:"default_days,omitempty"`
}

// TeamEntry defines a team calendar. Weekdays are Monday-first indices or
// names; omitted weekdays mean Monday through Saturday.
type TeamEntry struct {
	Code         string   `yaml:"code" json:"code"`
	WorkWeekdays []Scalar `yaml:"work_weekdays,omitempty" json:"work_weekdays,omitempty"`
	Holidays     []string `yaml:"holidays,omitempty" json:"holidays,omitempty"`
}

type ProjectEntry struct {
	ProjectNo string       `yaml:"project_no" json:"project_no"`
	Blocks    []BlockEntry `yaml:"blocks" json:"blocks"`
}

// BlockEntry defines one block. Durations are keyed by process name and
// may be written as numbers or strings; unusable values fall back to the
// process default when scheduling.
type BlockEntry struct {
	BlockNo   string            `yaml:"block_no" json:"block_no"`
	Weight    float64           `yaml:"weight,omitempty" json:"weight,omitempty"`
	Deadline  string            `yaml:"deadline" json:"deadline"`
	Durations map[string]Scalar `yaml:"durations,omitempty" json:"durations,omitempty"`
}

// Scalar holds the literal text of a YAML or JSON scalar, whether it was
// written as a number or a string.
type Scalar string

func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(node.Value)
	return nil
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return fmt.Errorf("expected a scalar value, got %s", data)
	default:
		*s = Scalar(data)
	}
	return nil
}

// Format selects the workbook encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension. Anything other
// than .json is read as YAML, which also accepts JSON documents.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and parses a workbook file.
func Load(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes a workbook. Unknown fields are rejected so typos surface.
func Parse(data []byte, format Format) (*Workbook, error) {
	var wb Workbook
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&wb); err != nil {
			return nil, fmt.Errorf("parsing workbook: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&wb); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing workbook: %w", err)
		}
	}
	return &wb, nil
}

// Marshal encodes wb in the given format.
func Marshal(wb *Workbook, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(wb, "", "  ")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(wb); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SPDX-License-Identifier: Apache-2.0

// Package config loads phase definitions from YAML, TOML or JSON files,
// validates them against an embedded CUE schema and builds pipelines.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

//go:embed schema.cue
var schemaSource string

// Supported file formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Error is a configuration failure tied to the file it came from.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RuleSpec describes an extraction rule.
type RuleSpec struct {
	Kind   string    `json:"kind" yaml:"kind" toml:"kind"`
	Step   int       `json:"step,omitempty" yaml:"step,omitempty" toml:"step,omitempty"`
	Offset int       `json:"offset,omitempty" yaml:"offset,omitempty" toml:"offset,omitempty"`
	Of     *RuleSpec `json:"of,omitempty" yaml:"of,omitempty" toml:"of,omitempty"`
}

// OpSpec describes a transform operation.
type OpSpec struct {
	Kind  string `json:"kind" yaml:"kind" toml:"kind"`
	By    int    `json:"by,omitempty" yaml:"by,omitempty" toml:"by,omitempty"`
	Key   string `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Shift int    `json:"shift,omitempty" yaml:"shift,omitempty" toml:"shift,omitempty"`
	Block int    `json:"block,omitempty" yaml:"block,omitempty" toml:"block,omitempty"`
}

// PhaseSpec describes one pipeline phase.
type PhaseSpec struct {
	Name   string   `json:"name" yaml:"name" toml:"name"`
	Rule   RuleSpec `json:"rule" yaml:"rule" toml:"rule"`
	Ops    []OpSpec `json:"ops,omitempty" yaml:"ops,omitempty" toml:"ops,omitempty"`
	Widths []int    `json:"widths,omitempty" yaml:"widths,omitempty" toml:"widths,omitempty"`
	Layers []string `json:"layers,omitempty" yaml:"layers,omitempty" toml:"layers,omitempty"`
}

// SurveySpec configures the whole-input survey. A palindrome or repeat
// search with only a minimum length gets a default maximum.
type SurveySpec struct {
	Moduli        []int64  `json:"moduli,omitempty" yaml:"moduli,omitempty" toml:"moduli,omitempty"`
	PalindromeMin int      `json:"palindrome_min,omitempty" yaml:"palindrome_min,omitempty" toml:"palindrome_min,omitempty"`
	PalindromeMax int      `json:"palindrome_max,omitempty" yaml:"palindrome_max,omitempty" toml:"palindrome_max,omitempty"`
	RepeatMin     int      `json:"repeat_min,omitempty" yaml:"repeat_min,omitempty" toml:"repeat_min,omitempty"`
	RepeatMax     int      `json:"repeat_max,omitempty" yaml:"repeat_max,omitempty" toml:"repeat_max,omitempty"`
	Transitions   int      `json:"transitions,omitempty" yaml:"transitions,omitempty" toml:"transitions,omitempty"`
	Patterns      []string `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty"`
}

// ThresholdSpec overrides decode grading thresholds. Unset tiers keep
// their defaults.
type ThresholdSpec struct {
	Critical *float64 `json:"critical,omitempty" yaml:"critical,omitempty" toml:"critical,omitempty"`
	High     *float64 `json:"high,omitempty" yaml:"high,omitempty" toml:"high,omitempty"`
	Medium   *float64 `json:"medium,omitempty" yaml:"medium,omitempty" toml:"medium,omitempty"`
}

// TimestampSpec overrides the timestamp scanner. Unset fields keep the
// scanner defaults, so zero is a valid bound.
type TimestampSpec struct {
	Base   *int   `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
	Widths []int  `json:"widths,omitempty" yaml:"widths,omitempty" toml:"widths,omitempty"`
	Min    *int64 `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max    *int64 `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
}

// File is the on-disk configuration. Omitted sections fall back to the
// built-in defaults.
type File struct {
	Input       string         `json:"input,omitempty" yaml:"input,omitempty" toml:"input,omitempty"`
	Survey      *SurveySpec    `json:"survey,omitempty" yaml:"survey,omitempty" toml:"survey,omitempty"`
	Thresholds  *ThresholdSpec `json:"thresholds,omitempty" yaml:"thresholds,omitempty" toml:"thresholds,omitempty"`
	Keywords    []string       `json:"keywords,omitempty" yaml:"keywords,omitempty" toml:"keywords,omitempty"`
	Timestamps  *TimestampSpec `json:"timestamps,omitempty" yaml:"timestamps,omitempty" toml:"timestamps,omitempty"`
	ColorOffset *int           `json:"color_offset,omitempty" yaml:"color_offset,omitempty" toml:"color_offset,omitempty"`
	Phases      []PhaseSpec    `json:"phases,omitempty" yaml:"phases,omitempty" toml:"phases,omitempty"`
}

// Load reads, validates and defaults the file at path. The format is
// chosen from the extension.
func Load(path string) (File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return File{}, &Error{Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, &Error{Path: path, Err: err}
	}
	f, err := Parse(data, format)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
			return File{}, ce
		}
		return File{}, &Error{Path: path, Err: err}
	}
	return f, nil
}

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported config extension %q (want .yaml, .yml, .toml or .json)", filepath.Ext(path))
}

// Parse decodes data in the given format, validates it and applies defaults.
func Parse(data []byte, format string) (File, error) {
	var f File
	var err error
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		err = yaml.Unmarshal(data, &f)
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	case FormatJSON:
		err = json.Unmarshal(data, &f)
	default:
		return File{}, &Error{Err: fmt.Errorf("unsupported config format %q", format)}
	}
	if err != nil {
		return File{}, &Error{Err: fmt.Errorf("failed to decode %s: %w", format, err)}
	}
	if err := Validate(f); err != nil {
		return File{}, err
	}
	return f.withDefaults(), nil
}

// Validate checks f against the embedded CUE schema.
func Validate(f File) error {
	data, err := json.Marshal(f)
	if err != nil {
		return &Error{Err: fmt.Errorf("failed to encode config for validation: %w", err)}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &Error{Err: fmt.Errorf("invalid embedded schema: %w", err)}
	}
	value := ctx.CompileBytes(data, cue.Filename("config.json"))
	if err := value.Err(); err != nil {
		return &Error{Err: fmt.Errorf("failed to load config for validation: %w", err)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &Error{Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func (f File) withDefaults() File {
	def := Default()
	if f.Input == "" {
		f.Input = def.Input
	}
	if f.Survey == nil {
		f.Survey = def.Survey
	} else {
		survey := *f.Survey
		if survey.PalindromeMin > 0 && survey.PalindromeMax == 0 {
			survey.PalindromeMax = max(survey.PalindromeMin, DefaultPalindromeMax)
		}
		if survey.RepeatMin > 0 && survey.RepeatMax == 0 {
			survey.RepeatMax = max(survey.RepeatMin, DefaultRepeatMax)
		}
		f.Survey = &survey
	}
	if f.Timestamps == nil {
		f.Timestamps = def.Timestamps
	}
	if len(f.Keywords) == 0 {
		f.Keywords = def.Keywords
	}
	if len(f.Phases) == 0 {
		f.Phases = def.Phases
	}
	return f
}

// Marshal encodes f in the given format.
func Marshal(f File, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		return yaml.Marshal(f)
	case FormatTOML:
		return toml.Marshal(f)
	case FormatJSON:
		return json.MarshalIndent(f, "", "  ")
	}
	return nil, fmt.Errorf("unsupported config format %q", format)
}

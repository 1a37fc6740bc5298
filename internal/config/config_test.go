// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitscope/digitscope/internal/config"
	"github.com/digitscope/digitscope/internal/digits"
	"github.com/digitscope/digitscope/internal/score"
)

const yamlConfig = `input: "7273"
thresholds:
  critical: 90
keywords: [HI]
phases:
  - name: fifth
    rule:
      kind: stride
      step: 5
      offset: 1
    ops:
      - kind: rotate
        by: 1
      - kind: xor
        key: "739"
    widths: [2, 3]
    layers: [colors]
  - name: rest
    rule:
      kind: complement
      of:
        kind: stride
        step: 5
        offset: 4
    widths: [2]
`

const tomlConfig = `input = "7273"
keywords = ["HI"]

[thresholds]
critical = 90.0

[[phases]]
name = "fifth"
widths = [2, 3]
layers = ["colors"]

[phases.rule]
kind = "stride"
step = 5
offset = 1

[[phases.ops]]
kind = "rotate"
by = 1

[[phases.ops]]
kind = "xor"
key = "739"

[[phases]]
name = "rest"
widths = [2]

[phases.rule]
kind = "complement"

[phases.rule.of]
kind = "stride"
step = 5
offset = 4
`

const jsonConfig = `{
  "input": "7273",
  "thresholds": {"critical": 90},
  "keywords": ["HI"],
  "phases": [
    {
      "name": "fifth",
      "rule": {"kind": "stride", "step": 5, "offset": 1},
      "ops": [{"kind": "rotate", "by": 1}, {"kind": "xor", "key": "739"}],
      "widths": [2, 3],
      "layers": ["colors"]
    },
    {
      "name": "rest",
      "rule": {"kind": "complement", "of": {"kind": "stride", "step": 5, "offset": 4}},
      "widths": [2]
    }
  ]
}`

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

func TestParse_FormatsAgree(t *testing.T) {
	fromYAML, err := config.Parse([]byte(yamlConfig), config.FormatYAML)
	require.NoError(t, err)
	fromTOML, err := config.Parse([]byte(tomlConfig), config.FormatTOML)
	require.NoError(t, err)
	fromJSON, err := config.Parse([]byte(jsonConfig), config.FormatJSON)
	require.NoError(t, err)

	if diff := cmp.Diff(fromYAML, fromTOML); diff != "" {
		t.Errorf("yaml and toml differ (-yaml +toml):\n%s", diff)
	}
	if diff := cmp.Diff(fromYAML, fromJSON); diff != "" {
		t.Errorf("yaml and json differ (-yaml +json):\n%s", diff)
	}

	require.Len(t, fromYAML.Phases, 2)
	assert.Equal(t, "fifth", fromYAML.Phases[0].Name)
	require.NotNil(t, fromYAML.Phases[1].Rule.Of)
	assert.Equal(t, 4, fromYAML.Phases[1].Rule.Of.Offset)
}

func TestParse_AppliesDefaults(t *testing.T) {
	f, err := config.Parse([]byte("keywords: [X]\n"), config.FormatYAML)
	require.NoError(t, err)

	def := config.Default()
	assert.Equal(t, config.DefaultInput, f.Input)
	assert.Equal(t, def.Survey, f.Survey)
	assert.Equal(t, def.Timestamps, f.Timestamps)
	assert.Equal(t, []string{"X"}, f.Keywords)
	assert.Len(t, f.Phases, len(def.Phases))
	assert.Nil(t, f.Thresholds)
}

func TestParse_SchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown rule kind", doc: "phases:\n  - name: a\n    rule: {kind: spiral}\n"},
		{name: "stride without step", doc: "phases:\n  - name: a\n    rule: {kind: stride}\n"},
		{name: "negative offset", doc: "phases:\n  - name: a\n    rule: {kind: stride, step: 2, offset: -1}\n"},
		{name: "complement without rule", doc: "phases:\n  - name: a\n    rule: {kind: complement}\n"},
		{name: "non-digit xor key", doc: "phases:\n  - name: a\n    rule: {kind: primes}\n    ops: [{kind: xor, key: abc}]\n"},
		{name: "transpose without block", doc: "phases:\n  - name: a\n    rule: {kind: primes}\n    ops: [{kind: transpose}]\n"},
		{name: "unknown layer", doc: "phases:\n  - name: a\n    rule: {kind: primes}\n    layers: [sound]\n"},
		{name: "zero width", doc: "phases:\n  - name: a\n    rule: {kind: primes}\n    widths: [0]\n"},
		{name: "empty phase name", doc: "phases:\n  - rule: {kind: primes}\n"},
		{name: "threshold above 100", doc: "thresholds: {critical: 150}\n"},
		{name: "timestamp base", doc: "timestamps: {base: 8}\n"},
		{name: "non-digit input", doc: "input: 12ab\n"},
		{name: "negative color offset", doc: "color_offset: -2\n"},
		{name: "palindrome max below min", doc: "survey: {palindrome_min: 5, palindrome_max: 4}\n"},
		{name: "repeat max below min", doc: "survey: {repeat_min: 4, repeat_max: 3}\n"},
		{name: "critical below high", doc: "thresholds: {critical: 10, high: 90}\n"},
		{name: "medium above high", doc: "thresholds: {high: 50, medium: 70}\n"},
		{name: "critical below medium", doc: "thresholds: {critical: 30, medium: 40}\n"},
		{name: "timestamp max below min", doc: "timestamps: {min: 10, max: 5}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.doc), config.FormatYAML)
			require.Error(t, err)

			var ce *config.Error
			require.True(t, errors.As(err, &ce), "want *config.Error, got %T", err)
			assert.Contains(t, err.Error(), "schema validation failed")
		})
	}
}

func TestParse_OrderedThresholdsAccepted(t *testing.T) {
	for _, doc := range []string{
		"thresholds: {critical: 90, high: 90, medium: 10}\n",
		"thresholds: {critical: 50}\n",
		"thresholds: {high: 0, medium: 0}\n",
	} {
		_, err := config.Parse([]byte(doc), config.FormatYAML)
		assert.NoError(t, err, doc)
	}
}

func TestParse_SurveyMaximumDefaults(t *testing.T) {
	tests := []struct {
		name              string
		doc               string
		wantPalindromeMax int
		wantRepeatMax     int
	}{
		{name: "palindrome min only", doc: "survey:\n  palindrome_min: 3\n", wantPalindromeMax: config.DefaultPalindromeMax},
		{name: "palindrome min above default max", doc: "survey:\n  palindrome_min: 9\n", wantPalindromeMax: 9},
		{name: "repeat min only", doc: "survey:\n  repeat_min: 2\n", wantRepeatMax: config.DefaultRepeatMax},
		{name: "repeat min above default max", doc: "survey:\n  repeat_min: 8\n", wantRepeatMax: 8},
		{name: "explicit max kept", doc: "survey:\n  palindrome_min: 3\n  palindrome_max: 4\n", wantPalindromeMax: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := config.Parse([]byte(tt.doc), config.FormatYAML)
			require.NoError(t, err)
			require.NotNil(t, f.Survey)
			assert.Equal(t, tt.wantPalindromeMax, f.Survey.PalindromeMax)
			assert.Equal(t, tt.wantRepeatMax, f.Survey.RepeatMax)

			seq, err := f.InputSequence()
			require.NoError(t, err)
			p, err := f.Pipeline()
			require.NoError(t, err)
			_, err = p.Run(context.Background(), seq)
			require.NoError(t, err)
		})
	}
}

func TestParse_DecodeErrors(t *testing.T) {
	_, err := config.Parse([]byte("phases: [unterminated"), config.FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode yaml")

	_, err = config.Parse([]byte("{}"), "ini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported config format "ini"`)
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"phases.yaml": yamlConfig,
		"phases.yml":  yamlConfig,
		"phases.toml": tomlConfig,
		"phases.json": jsonConfig,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			f, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, "7273", f.Input)
			assert.Len(t, f.Phases, 2)
		})
	}
}

func TestLoad_ErrorsCarryPath(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("phases:\n  - name: a\n    rule: {kind: spiral}\n"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.yaml")},
		{name: "unknown extension", path: filepath.Join(dir, "phases.ini")},
		{name: "invalid content", path: bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.path)
			require.Error(t, err)

			var ce *config.Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.path, ce.Path)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

// ---------------------------------------------------------------------------
// Defaults and building
// ---------------------------------------------------------------------------

func TestDefault_Validates(t *testing.T) {
	require.NoError(t, config.Validate(config.Default()))
}

func TestDefault_BuildsEveryPhase(t *testing.T) {
	phases, err := config.Default().BuildPhases()
	require.NoError(t, err)

	names := make([]string, len(phases))
	for i, ph := range phases {
		names[i] = ph.Name
	}
	assert.Equal(t, []string{
		"every-5th-shift-1",
		"every-5th-shift-3",
		"fibonacci-xor-7447",
		"xor-739",
		"prime-positions",
		"not-every-5th",
		"every-7th",
		"reversed",
		"no-zeros",
		"caesar-3",
		"transpose-13",
	}, names)
	assert.Equal(t, "not every 5 from 4", phases[5].Rule.Name())
}

func TestDefault_MarshalRoundTrip(t *testing.T) {
	for _, format := range []string{config.FormatYAML, config.FormatTOML, config.FormatJSON} {
		t.Run(format, func(t *testing.T) {
			data, err := config.Marshal(config.Default(), format)
			require.NoError(t, err)

			back, err := config.Parse(data, format)
			require.NoError(t, err)
			if diff := cmp.Diff(config.Default(), back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_UnknownKinds(t *testing.T) {
	_, err := config.RuleSpec{Kind: "spiral"}.Rule()
	assert.ErrorIs(t, err, digits.ErrInvalidArgument)

	_, err = config.RuleSpec{Kind: "complement"}.Rule()
	assert.ErrorIs(t, err, digits.ErrInvalidArgument)

	_, err = config.OpSpec{Kind: "shuffle"}.Op()
	assert.ErrorIs(t, err, digits.ErrInvalidArgument)

	_, err = config.PhaseSpec{Name: "p", Rule: config.RuleSpec{Kind: "primes"}, Ops: []config.OpSpec{{Kind: "shuffle"}}}.Phase()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `phase "p"`)
}

func TestFile_Pipeline(t *testing.T) {
	f, err := config.Parse([]byte(yamlConfig), config.FormatYAML)
	require.NoError(t, err)

	seq, err := f.InputSequence()
	require.NoError(t, err)
	p, err := f.Pipeline()
	require.NoError(t, err)
	assert.Equal(t, []string{"fifth", "rest"}, p.PhaseNames())

	result, err := p.Run(context.Background(), seq)
	require.NoError(t, err)
	require.NotNil(t, result.Stats, "default survey applies")
	assert.Len(t, result.Phases, 2)
}

func TestFile_TimestampScanner(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want score.TimestampScanner
	}{
		{
			name: "zero minimum is kept",
			doc:  "timestamps: {min: 0, max: 100, base: 10}\n",
			want: score.TimestampScanner{Widths: []int{8, 10}, Base: 10, Min: 0, Max: 100},
		},
		{
			name: "unset fields keep defaults",
			doc:  "timestamps: {widths: [4]}\n",
			want: score.TimestampScanner{Widths: []int{4}, Base: 16, Min: score.DefaultTimestampMin, Max: score.DefaultTimestampMax},
		},
		{
			name: "section omitted",
			doc:  "keywords: [X]\n",
			want: score.DefaultTimestamps(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := config.Parse([]byte(tt.doc), config.FormatYAML)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.TimestampScanner())
		})
	}
}

func TestFile_ZeroBoundsReachThePipeline(t *testing.T) {
	// "0512" decodes to bytes 5 and 12, hex "050c". Its base-10 windows
	// are 05 and 50; "0c" does not parse.
	doc := `input: "0512"
timestamps: {min: 0, max: 99, base: 10, widths: [2]}
color_offset: 0
phases:
  - name: plain
    rule: {kind: stride, step: 1}
    widths: [2]
    layers: [timestamps]
`
	f, err := config.Parse([]byte(doc), config.FormatYAML)
	require.NoError(t, err)
	require.NotNil(t, f.ColorOffset)
	assert.Zero(t, *f.ColorOffset)

	seq, err := f.InputSequence()
	require.NoError(t, err)
	p, err := f.Pipeline()
	require.NoError(t, err)
	result, err := p.Run(context.Background(), seq)
	require.NoError(t, err)

	values := make([]int64, 0, len(result.Phases[0].Timestamps))
	for _, ts := range result.Phases[0].Timestamps {
		values = append(values, ts.Value)
	}
	assert.Equal(t, []int64{5, 50}, values)
}

func TestFile_InputSequenceError(t *testing.T) {
	_, err := config.File{Input: "12x"}.InputSequence()
	require.Error(t, err)

	var ce *config.Error
	assert.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, digits.ErrInvalidArgument)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"a.yaml": config.FormatYAML,
		"a.YML":  config.FormatYAML,
		"a.toml": config.FormatTOML,
		"a.json": config.FormatJSON,
	}
	for path, want := range tests {
		got, err := config.FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := config.FormatFromPath("a.txt")
	assert.Error(t, err)
}

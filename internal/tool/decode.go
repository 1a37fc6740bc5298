// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/digitscope/digitscope/internal/config"
	"github.com/digitscope/digitscope/internal/finding"
	"github.com/digitscope/digitscope/internal/pipeline"
	"github.com/digitscope/digitscope/internal/report"
	"github.com/digitscope/digitscope/internal/score"
)

// MetadataDecodeSequence describes the decode_sequence tool.
var MetadataDecodeSequence = &mcp.Tool{
	Name: "decode_sequence",
	Description: "Run the digit-sequence decoding pipeline and return findings, decode candidates " +
		"and a markdown report. Each phase extracts digits by position (stride, prime, fibonacci, " +
		"complement), transforms them (rotate, xor, caesar, reverse, transpose) and scores fixed-width " +
		"chunks as character codes. Validity is the share of chunks that decode to printable or " +
		"control characters. Without a config the built-in phases run over the built-in sequence.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"sequence": map[string]interface{}{
				"type":        "string",
				"description": "Decimal digits to analyse. Overrides the config input.",
			},
			"config": map[string]interface{}{
				"type":        "string",
				"description": "Optional phase configuration document.",
			},
			"config_format": map[string]interface{}{
				"type":        "string",
				"description": "Format of config. One of: yaml, toml, json. Defaults to yaml.",
				"enum":        []string{"yaml", "toml", "json"},
			},
			"phases": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Optional subset of phase names to run, in configured order.",
			},
		},
	},
}

// InputDecodeSequence is the input for the DecodeSequence tool.
type InputDecodeSequence struct {
	Sequence     string   `json:"sequence"`
	Config       string   `json:"config"`
	ConfigFormat string   `json:"config_format"`
	Phases       []string `json:"phases"`
}

// OutputDecodeSequence is the output for the DecodeSequence tool.
type OutputDecodeSequence struct {
	RunID string `json:"run_id"`
	// Findings is every observation in the order it was made.
	Findings []finding.Finding `json:"findings"`
	// Decodes holds one candidate per phase and chunk width.
	Decodes []score.DecodeCandidate `json:"decodes"`
	// Report is the rendered markdown report.
	Report string `json:"report"`
}

// Tools holds the MCP tool handlers.
type Tools struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewTools creates the tool handlers. A nil logger discards output.
func NewTools(logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{logger: logger, now: time.Now}
}

// DecodeSequence runs the configured pipeline over the requested sequence.
func (t *Tools) DecodeSequence(ctx context.Context, _ *mcp.CallToolRequest, input InputDecodeSequence) (*mcp.CallToolResult, OutputDecodeSequence, error) {
	cfg := config.Default()
	if input.Config != "" {
		format := input.ConfigFormat
		if format == "" {
			format = config.FormatYAML
		}
		parsed, err := config.Parse([]byte(input.Config), format)
		if err != nil {
			return nil, OutputDecodeSequence{}, err
		}
		cfg = parsed
	}
	if input.Sequence != "" {
		cfg.Input = input.Sequence
	}
	if len(input.Phases) > 0 {
		selected, err := selectPhases(cfg.Phases, input.Phases)
		if err != nil {
			return nil, OutputDecodeSequence{}, err
		}
		cfg.Phases = selected
	}

	seq, err := cfg.InputSequence()
	if err != nil {
		return nil, OutputDecodeSequence{}, err
	}
	p, err := cfg.Pipeline(pipeline.WithLogger(t.logger))
	if err != nil {
		return nil, OutputDecodeSequence{}, err
	}
	result, err := p.Run(ctx, seq)
	if err != nil {
		return nil, OutputDecodeSequence{}, err
	}

	out := OutputDecodeSequence{
		RunID:    result.ID,
		Findings: result.Findings,
		Decodes:  []score.DecodeCandidate{},
		Report: report.Render(report.Meta{
			Input:       seq.String(),
			GeneratedAt: t.now(),
			MaxPerKind:  10,
		}, result.Findings, result.Candidates()),
	}
	for _, ph := range result.Phases {
		out.Decodes = append(out.Decodes, ph.Decodes...)
	}
	return nil, out, nil
}

func selectPhases(all []config.PhaseSpec, names []string) ([]config.PhaseSpec, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []config.PhaseSpec
	for _, ph := range all {
		if want[ph.Name] {
			out = append(out, ph)
			delete(want, ph.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("unknown phase %q", n)
		}
	}
	return out, nil
}

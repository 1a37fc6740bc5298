// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/digitscope/digitscope/internal/digits"
	"github.com/digitscope/digitscope/internal/score"
)

// MetadataScoreSequence describes the score_sequence tool.
var MetadataScoreSequence = &mcp.Tool{
	Name: "score_sequence",
	Description: "Extract every step-th digit from offset, optionally rotate, xor with a digit key " +
		"and caesar shift, then read the result in fixed-width chunks as character codes. " +
		"Returns the decoded text, the validity percentage and the hex form of the chunk values.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"sequence", "width"},
		"properties": map[string]interface{}{
			"sequence": map[string]interface{}{"type": "string", "description": "Decimal digits"},
			"step":     map[string]interface{}{"type": "integer", "description": "Stride step, default 1"},
			"offset":   map[string]interface{}{"type": "integer", "description": "Stride offset, default 0"},
			"rotate":   map[string]interface{}{"type": "integer", "description": "Left rotation applied after extraction"},
			"xor_key":  map[string]interface{}{"type": "string", "description": "Digit key for per-digit xor"},
			"caesar":   map[string]interface{}{"type": "integer", "description": "Additive shift mod 10"},
			"width":    map[string]interface{}{"type": "integer", "description": "Chunk width in digits"},
		},
	},
}

// InputScoreSequence is the input for the ScoreSequence tool. Step 0 means 1;
// zero Rotate and Caesar and an empty XORKey skip that transform.
type InputScoreSequence struct {
	Sequence string `json:"sequence"`
	Step     int    `json:"step"`
	Offset   int    `json:"offset"`
	Rotate   int    `json:"rotate"`
	XORKey   string `json:"xor_key"`
	Caesar   int    `json:"caesar"`
	Width    int    `json:"width"`
}

// OutputScoreSequence is the output for the ScoreSequence tool.
type OutputScoreSequence struct {
	Transformed string  `json:"transformed"`
	Text        string  `json:"text"`
	Validity    float64 `json:"validity"`
	Hex         string  `json:"hex"`
}

// ScoreSequence runs a single extract, transform and score.
func (t *Tools) ScoreSequence(_ context.Context, _ *mcp.CallToolRequest, input InputScoreSequence) (*mcp.CallToolResult, OutputScoreSequence, error) {
	if input.Sequence == "" {
		return nil, OutputScoreSequence{}, fmt.Errorf("sequence is required")
	}
	seq, err := digits.Parse(input.Sequence)
	if err != nil {
		return nil, OutputScoreSequence{}, err
	}

	step := input.Step
	if step == 0 {
		step = 1
	}
	extracted, err := digits.Extract(seq, digits.Stride{Step: step, Offset: input.Offset})
	if err != nil {
		return nil, OutputScoreSequence{}, err
	}

	var ops []digits.Op
	if input.Rotate != 0 {
		ops = append(ops, digits.Rotate{By: input.Rotate})
	}
	if input.XORKey != "" {
		ops = append(ops, digits.XOR{Key: input.XORKey})
	}
	if input.Caesar != 0 {
		ops = append(ops, digits.Caesar{Shift: input.Caesar})
	}
	transformed, err := digits.Transform(extracted, ops...)
	if err != nil {
		return nil, OutputScoreSequence{}, err
	}

	dc, err := score.Score(transformed, input.Width)
	if err != nil {
		return nil, OutputScoreSequence{}, err
	}
	t.logger.Debug("scored sequence", zap.Int("width", input.Width), zap.Float64("validity", dc.Validity))

	return nil, OutputScoreSequence{
		Transformed: transformed.String(),
		Text:        dc.Text,
		Validity:    dc.Validity,
		Hex:         dc.Hex(),
	}, nil
}

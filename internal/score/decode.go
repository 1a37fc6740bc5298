// SPDX-License-Identifier: Apache-2.0

package score

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/digitscope/digitscope/internal/digits"
)

const placeholder = "?"

// Score splits seq into non-overlapping chunks of width digits and reads
// each as a character code. The trailing partial chunk is dropped.
//
// Codes 32-126 map to their character, 1-31 to a bracketed control tag;
// both count as valid. Anything else, including chunks that hold a
// non-decimal symbol, becomes a placeholder.
func Score(seq digits.Sequence, width int) (DecodeCandidate, error) {
	if width <= 0 {
		return DecodeCandidate{}, fmt.Errorf("%w: chunk width must be positive, got %d", digits.ErrInvalidArgument, width)
	}

	total := seq.Len() / width
	out := DecodeCandidate{
		Source:     seq.String(),
		ChunkWidth: width,
		Chunks:     make([]Chunk, 0, total),
	}

	var text strings.Builder
	valid := 0
	for i := 0; i+width <= seq.Len(); i += width {
		ch := classify(seq.String()[i : i+width])
		switch ch.Class {
		case ClassPrintable:
			text.WriteByte(byte(ch.Value))
		case ClassControl:
			fmt.Fprintf(&text, "[%d]", ch.Value)
		default:
			text.WriteString(placeholder)
		}
		if ch.Class.Valid() {
			valid++
		}
		out.Chunks = append(out.Chunks, ch)
	}

	out.Text = text.String()
	out.Validity = Validity(valid, len(out.Chunks))
	return out, nil
}

// Validity is valid/total as a percentage, 0 when total is 0.
func Validity(valid, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total) * 100
}

func classify(chunk string) Chunk {
	v, err := strconv.ParseUint(chunk, 10, 63)
	if err != nil {
		return Chunk{Digits: chunk, Value: -1, Class: ClassParseFailure}
	}
	n := int(v)
	switch {
	case n >= 32 && n <= 126:
		return Chunk{Digits: chunk, Value: n, Class: ClassPrintable}
	case n >= 1 && n <= 31:
		return Chunk{Digits: chunk, Value: n, Class: ClassControl}
	}
	return Chunk{Digits: chunk, Value: n, Class: ClassOutOfRange}
}

// SPDX-License-Identifier: Apache-2.0

package score

import (
	"strconv"
	"strings"

	"github.com/digitscope/digitscope/internal/digits"
)

// LetterDecode reads 2-digit chunks 10-35 as the letters A-Z.
type LetterDecode struct {
	Text     string  `json:"text" yaml:"text"`
	Matched  int     `json:"matched" yaml:"matched"`
	Total    int     `json:"total" yaml:"total"`
	Validity float64 `json:"validity" yaml:"validity"`
}

// Letters splits seq into 2-digit chunks and keeps those in 10-35 as A-Z.
// Other chunks, including ones holding a non-decimal symbol, are dropped
// from Text but still count towards Total.
func Letters(seq digits.Sequence) LetterDecode {
	var (
		b   strings.Builder
		out LetterDecode
	)
	s := seq.String()
	for i := 0; i+2 <= len(s); i += 2 {
		out.Total++
		v, err := strconv.Atoi(s[i : i+2])
		if err != nil || v < 10 || v > 35 {
			continue
		}
		b.WriteByte(byte('A' + v - 10))
		out.Matched++
	}
	out.Text = b.String()
	out.Validity = Validity(out.Matched, out.Total)
	return out
}

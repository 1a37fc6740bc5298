// SPDX-License-Identifier: Apache-2.0

package score

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/digitscope/digitscope/internal/digits"
)

// ScanColors reads non-overlapping 6-character windows of a hex string,
// starting at offset, as RGB triples. Windows that are not valid hex are
// skipped.
func ScanColors(hex string, offset int) ([]ColorCandidate, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: color offset must not be negative, got %d", digits.ErrInvalidArgument, offset)
	}
	var found []ColorCandidate
	for i := offset; i+6 <= len(hex); i += 6 {
		window := hex[i : i+6]
		v, err := strconv.ParseUint(window, 16, 32)
		if err != nil {
			continue
		}
		r, g, b := int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)
		found = append(found, ColorCandidate{
			Hex:      strings.ToUpper(window),
			R:        r,
			G:        g,
			B:        b,
			Position: i,
			Shade:    Shade(r, g, b),
		})
	}
	return found, nil
}

// Shade names the brightness band of an RGB triple.
func Shade(r, g, b int) string {
	brightness := float64(r+g+b) / 3
	switch {
	case brightness < 64:
		return "Very Dark"
	case brightness < 128:
		return "Dark"
	case brightness < 192:
		return "Medium"
	}
	return "Light"
}

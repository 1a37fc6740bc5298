// SPDX-License-Identifier: Apache-2.0

package digits

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a malformed rule, operation or width parameter.
var ErrInvalidArgument = errors.New("invalid argument")

// Sequence is an immutable run of symbols selected from a digit string.
//
// Input sequences hold decimal digits only. A symbol may carry a value up
// to 15 after an XOR; such values are stored as the hex nibble 'a'-'f' so
// every position stays a single byte.
type Sequence string

// Parse validates that s contains only decimal digits.
func Parse(s string) (Sequence, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("%w: non-digit %q at position %d", ErrInvalidArgument, s[i], i)
		}
	}
	return Sequence(s), nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Sequence {
	seq, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return seq
}

func (s Sequence) Len() int {
	return len(s)
}

func (s Sequence) String() string {
	return string(s)
}

// Value returns the numeric value of the symbol at position i.
func (s Sequence) Value(i int) int {
	return symbolValue(s[i])
}

// IsDecimal reports whether every symbol is a decimal digit.
func (s Sequence) IsDecimal() bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

const nibbles = "0123456789abcdef"

func symbolValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	}
	return -1
}

func symbolFor(v int) byte {
	return nibbles[v&0xf]
}

// SPDX-License-Identifier: Apache-2.0

package digits

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a pure, length-preserving operation on a sequence.
type Op interface {
	Name() string
	Apply(seq Sequence) (Sequence, error)
}

// Transform applies ops to seq in order.
func Transform(seq Sequence, ops ...Op) (Sequence, error) {
	out := seq
	for _, op := range ops {
		next, err := op.Apply(out)
		if err != nil {
			return "", fmt.Errorf("op %q: %w", op.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Rotate moves the first By symbols to the end. Negative values rotate right.
type Rotate struct {
	By int
}

func (o Rotate) Name() string {
	return "rotate " + strconv.Itoa(o.By)
}

func (o Rotate) Apply(seq Sequence) (Sequence, error) {
	n := seq.Len()
	if n == 0 {
		return seq, nil
	}
	k := ((o.By % n) + n) % n
	return seq[k:] + seq[:k], nil
}

// XOR combines each symbol with the key digit at the same position modulo
// the key length. Results keep their raw 0-15 value.
type XOR struct {
	Key string
}

func (o XOR) Name() string {
	return "xor " + o.Key
}

func (o XOR) Apply(seq Sequence) (Sequence, error) {
	if o.Key == "" {
		return "", fmt.Errorf("%w: xor key is empty", ErrInvalidArgument)
	}
	key, err := Parse(o.Key)
	if err != nil {
		return "", fmt.Errorf("xor key: %w", err)
	}
	out := make([]byte, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		v := seq.Value(i)
		if v < 0 {
			out[i] = seq[i]
			continue
		}
		out[i] = symbolFor(v ^ key.Value(i%key.Len()))
	}
	return Sequence(out), nil
}

// Caesar adds Shift to every digit modulo 10.
type Caesar struct {
	Shift int
}

func (o Caesar) Name() string {
	return "caesar " + strconv.Itoa(o.Shift)
}

func (o Caesar) Apply(seq Sequence) (Sequence, error) {
	shift := ((o.Shift % 10) + 10) % 10
	out := make([]byte, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		v := seq.Value(i)
		if v < 0 {
			out[i] = seq[i]
			continue
		}
		out[i] = symbolFor((v%10 + shift) % 10)
	}
	return Sequence(out), nil
}

// Reverse reverses the sequence.
type Reverse struct{}

func (Reverse) Name() string {
	return "reverse"
}

func (Reverse) Apply(seq Sequence) (Sequence, error) {
	out := make([]byte, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		out[seq.Len()-1-i] = seq[i]
	}
	return Sequence(out), nil
}

// Transpose writes the sequence in rows of Block symbols and reads it back
// column by column. The last row may be short.
type Transpose struct {
	Block int
}

func (o Transpose) Name() string {
	return "transpose " + strconv.Itoa(o.Block)
}

func (o Transpose) Apply(seq Sequence) (Sequence, error) {
	if o.Block <= 0 {
		return "", fmt.Errorf("%w: transpose block must be positive, got %d", ErrInvalidArgument, o.Block)
	}
	var b strings.Builder
	b.Grow(seq.Len())
	for col := 0; col < o.Block; col++ {
		for i := col; i < seq.Len(); i += o.Block {
			b.WriteByte(seq[i])
		}
	}
	return Sequence(b.String()), nil
}

// SPDX-License-Identifier: Apache-2.0

package digits

import (
	"fmt"
	"strings"
)

// Rule selects positions from a sequence. Positions are 0-based and must be
// returned in ascending order so extraction keeps left-to-right order.
type Rule interface {
	Name() string
	Positions(seq Sequence) ([]int, error)
}

// Extract returns the symbols of seq at the positions selected by rule.
// A rule that selects nothing yields an empty sequence.
func Extract(seq Sequence, rule Rule) (Sequence, error) {
	positions, err := rule.Positions(seq)
	if err != nil {
		return "", fmt.Errorf("rule %q: %w", rule.Name(), err)
	}
	var b strings.Builder
	b.Grow(len(positions))
	for _, p := range positions {
		b.WriteByte(seq[p])
	}
	return Sequence(b.String()), nil
}

// Stride selects every Step-th symbol starting at Offset.
type Stride struct {
	Step   int
	Offset int
}

func (r Stride) Name() string {
	return fmt.Sprintf("every %d from %d", r.Step, r.Offset)
}

func (r Stride) Positions(seq Sequence) ([]int, error) {
	if r.Step <= 0 {
		return nil, fmt.Errorf("%w: stride step must be positive, got %d", ErrInvalidArgument, r.Step)
	}
	if r.Offset < 0 {
		return nil, fmt.Errorf("%w: stride offset must not be negative, got %d", ErrInvalidArgument, r.Offset)
	}
	var positions []int
	for i := r.Offset; i < seq.Len(); i += r.Step {
		positions = append(positions, i)
	}
	return positions, nil
}

// PositionSet selects the symbols whose 1-based position satisfies Match.
type PositionSet struct {
	Label string
	Match func(position int) bool
}

func (r PositionSet) Name() string {
	return r.Label + " positions"
}

func (r PositionSet) Positions(seq Sequence) ([]int, error) {
	if r.Match == nil {
		return nil, fmt.Errorf("%w: position set %q has no predicate", ErrInvalidArgument, r.Label)
	}
	var positions []int
	for i := 0; i < seq.Len(); i++ {
		if r.Match(i + 1) {
			positions = append(positions, i)
		}
	}
	return positions, nil
}

// Primes selects the digits at prime 1-based positions.
func Primes() PositionSet {
	return PositionSet{Label: "prime", Match: IsPrime}
}

// Fibonacci selects the digits at 1-based positions that are Fibonacci numbers.
func Fibonacci() PositionSet {
	return PositionSet{Label: "fibonacci", Match: IsFibonacci}
}

// Complement selects every position the wrapped rule does not.
type Complement struct {
	Of Rule
}

func (r Complement) Name() string {
	if r.Of == nil {
		return "complement"
	}
	return "not " + r.Of.Name()
}

func (r Complement) Positions(seq Sequence) ([]int, error) {
	if r.Of == nil {
		return nil, fmt.Errorf("%w: complement needs a rule", ErrInvalidArgument)
	}
	taken, err := r.Of.Positions(seq)
	if err != nil {
		return nil, err
	}
	used := make(map[int]bool, len(taken))
	for _, p := range taken {
		used[p] = true
	}
	positions := make([]int, 0, seq.Len()-len(used))
	for i := 0; i < seq.Len(); i++ {
		if !used[i] {
			positions = append(positions, i)
		}
	}
	return positions, nil
}

// NonZero drops every zero symbol.
type NonZero struct{}

func (NonZero) Name() string {
	return "non-zero"
}

func (NonZero) Positions(seq Sequence) ([]int, error) {
	var positions []int
	for i := 0; i < seq.Len(); i++ {
		if seq[i] != '0' {
			positions = append(positions, i)
		}
	}
	return positions, nil
}

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// IsFibonacci reports whether n is a positive Fibonacci number.
func IsFibonacci(n int) bool {
	if n < 1 {
		return false
	}
	a, b := 1, 2
	for a < n {
		a, b = b, a+b
	}
	return a == n
}

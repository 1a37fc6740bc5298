// SPDX-License-Identifier: Apache-2.0

package digits

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Palindrome is a palindromic run found in a sequence.
type Palindrome struct {
	Text     string
	Position int
}

// Stats summarises the numeric shape of a decimal sequence. Median is the
// upper median of the digit values. Mode is the most frequent digit, with
// ties going to the digit seen first.
type Stats struct {
	Length       int
	PrimeLength  bool
	DigitSum     int
	DigitalRoot  int
	Mean         float64
	Median       int
	Mode         int
	Frequency    map[byte]int
	Residues     map[int64]int64
	ResidueOrder []int64
}

// Survey computes Stats for seq. moduli are applied to seq read as one
// base-10 integer.
func Survey(seq Sequence, moduli []int64) (Stats, error) {
	if !seq.IsDecimal() {
		return Stats{}, fmt.Errorf("%w: survey needs a decimal sequence", ErrInvalidArgument)
	}
	st := Stats{
		Length:      seq.Len(),
		PrimeLength: IsPrime(seq.Len()),
		Frequency:   make(map[byte]int, 10),
		Residues:    make(map[int64]int64, len(moduli)),
	}
	for i := 0; i < seq.Len(); i++ {
		st.DigitSum += seq.Value(i)
		st.Frequency[seq[i]]++
	}
	st.DigitalRoot = DigitalRoot(st.DigitSum)
	if seq.Len() > 0 {
		st.Mean = float64(st.DigitSum) / float64(seq.Len())
		st.Median = median(seq)
		st.Mode = mode(seq, st.Frequency)
	}

	if seq.Len() > 0 && len(moduli) > 0 {
		n, ok := new(big.Int).SetString(seq.String(), 10)
		if !ok {
			return Stats{}, fmt.Errorf("%w: cannot read %q as an integer", ErrInvalidArgument, seq)
		}
		for _, m := range moduli {
			if m <= 0 {
				return Stats{}, fmt.Errorf("%w: modulus must be positive, got %d", ErrInvalidArgument, m)
			}
			r := new(big.Int).Mod(n, big.NewInt(m))
			if _, seen := st.Residues[m]; !seen {
				st.ResidueOrder = append(st.ResidueOrder, m)
			}
			st.Residues[m] = r.Int64()
		}
	}
	return st, nil
}

func median(seq Sequence) int {
	values := make([]int, seq.Len())
	for i := range values {
		values[i] = seq.Value(i)
	}
	sort.Ints(values)
	return values[len(values)/2]
}

func mode(seq Sequence, freq map[byte]int) int {
	best := seq[0]
	for i := 1; i < seq.Len(); i++ {
		if freq[seq[i]] > freq[best] {
			best = seq[i]
		}
	}
	return int(best - '0')
}

// DigitalRoot repeatedly sums the decimal digits of n until one remains.
func DigitalRoot(n int) int {
	if n < 0 {
		n = -n
	}
	for n >= 10 {
		sum := 0
		for ; n > 0; n /= 10 {
			sum += n % 10
		}
		n = sum
	}
	return n
}

// Palindromes returns every palindromic substring with a length between
// minLen and maxLen inclusive, shortest first and then by position.
func Palindromes(seq Sequence, minLen, maxLen int) ([]Palindrome, error) {
	if minLen <= 0 || maxLen < minLen {
		return nil, fmt.Errorf("%w: palindrome lengths %d..%d", ErrInvalidArgument, minLen, maxLen)
	}
	var found []Palindrome
	for size := minLen; size <= maxLen; size++ {
		for i := 0; i+size <= seq.Len(); i++ {
			if isPalindrome(seq[i : i+size]) {
				found = append(found, Palindrome{Text: string(seq[i : i+size]), Position: i})
			}
		}
	}
	return found, nil
}

func isPalindrome(s Sequence) bool {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}
	return true
}

// Occurrences returns every start position of pattern in seq, overlaps included.
func Occurrences(seq Sequence, pattern string) []int {
	if pattern == "" {
		return nil
	}
	var positions []int
	s := seq.String()
	for start := 0; start <= len(s)-len(pattern); {
		idx := strings.Index(s[start:], pattern)
		if idx < 0 {
			break
		}
		positions = append(positions, start+idx)
		start += idx + 1
	}
	return positions
}

// SortedFrequency renders a digit frequency map in digit order, e.g. "0:9 1:12".
func SortedFrequency(freq map[byte]int) string {
	keys := make([]byte, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%c:%d", k, freq[k]))
	}
	return strings.Join(parts, " ")
}

// Repeat is a substring that occurs more than once.
type Repeat struct {
	Text      string
	Positions []int
}

// Repeats returns every substring with a length between minLen and maxLen
// that occurs at least twice, overlaps included. Results are ordered by
// length, then by first position.
func Repeats(seq Sequence, minLen, maxLen int) ([]Repeat, error) {
	if minLen <= 0 || maxLen < minLen {
		return nil, fmt.Errorf("%w: repeat lengths %d..%d", ErrInvalidArgument, minLen, maxLen)
	}
	var found []Repeat
	s := seq.String()
	for size := minLen; size <= maxLen; size++ {
		index := make(map[string]int)
		var group []Repeat
		for i := 0; i+size <= len(s); i++ {
			sub := s[i : i+size]
			if at, ok := index[sub]; ok {
				group[at].Positions = append(group[at].Positions, i)
				continue
			}
			index[sub] = len(group)
			group = append(group, Repeat{Text: sub, Positions: []int{i}})
		}
		for _, r := range group {
			if len(r.Positions) > 1 {
				found = append(found, r)
			}
		}
	}
	return found, nil
}

// MostRepeated orders repeats by occurrence count, longest first on ties,
// keeping the original order otherwise.
func MostRepeated(repeats []Repeat) []Repeat {
	out := append([]Repeat(nil), repeats...)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Positions) != len(out[j].Positions) {
			return len(out[i].Positions) > len(out[j].Positions)
		}
		return len(out[i].Text) > len(out[j].Text)
	})
	return out
}

// Transition counts one adjacent digit pair.
type Transition struct {
	Pair  string
	Count int
}

// Transitions counts every adjacent pair in seq, most frequent first and
// then by pair.
func Transitions(seq Sequence) []Transition {
	counts := make(map[string]int)
	for i := 0; i+1 < seq.Len(); i++ {
		counts[string(seq[i:i+2])]++
	}
	out := make([]Transition, 0, len(counts))
	for pair, n := range counts {
		out = append(out, Transition{Pair: pair, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Pair < out[j].Pair
	})
	return out
}

// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/digitscope/digitscope/internal/pipeline"
	"github.com/digitscope/digitscope/internal/score"
)

// DefaultInput is the 131-digit string analysed when no input is given.
const DefaultInput = "10412790658919985359827898739594318956404425106955675643739226952372682423852959081739834390370374475764863415203423499357108713631"

// Survey search lengths used when a file sets only the minimum.
const (
	DefaultPalindromeMax = 7
	DefaultRepeatMax     = 6
)

func ptr[T any](v T) *T {
	return &v
}

func stride(step, offset int) RuleSpec {
	return RuleSpec{Kind: "stride", Step: step, Offset: offset}
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Input: DefaultInput,
		Survey: &SurveySpec{
			Moduli:        []int64{3301, 509, 311, 113, 29, 7},
			PalindromeMin: 4,
			PalindromeMax: DefaultPalindromeMax,
			RepeatMin:     3,
			RepeatMax:     DefaultRepeatMax,
			Transitions:   10,
			Patterns:      []string{"739"},
		},
		Timestamps: &TimestampSpec{
			Base:   ptr(16),
			Widths: []int{8, 10},
			Min:    ptr(score.DefaultTimestampMin),
			Max:    ptr(score.DefaultTimestampMax),
		},
		Keywords: pipeline.DefaultKeywords,
		Phases: []PhaseSpec{
			{
				Name:   "every-5th-shift-1",
				Rule:   stride(5, 0),
				Ops:    []OpSpec{{Kind: "rotate", By: 1}},
				Widths: []int{2, 3},
				Layers: []string{"timestamps", "coordinates", "colors"},
			},
			{
				Name:   "every-5th-shift-3",
				Rule:   stride(5, 0),
				Ops:    []OpSpec{{Kind: "rotate", By: 3}},
				Widths: []int{2},
			},
			{
				Name:   "fibonacci-xor-7447",
				Rule:   RuleSpec{Kind: "fibonacci"},
				Ops:    []OpSpec{{Kind: "xor", Key: "7447"}},
				Widths: []int{2},
				Layers: []string{"digit-coordinates"},
			},
			{
				Name:   "xor-739",
				Rule:   stride(1, 0),
				Ops:    []OpSpec{{Kind: "xor", Key: "739"}},
				Widths: []int{2},
			},
			{
				Name:   "prime-positions",
				Rule:   RuleSpec{Kind: "primes"},
				Widths: []int{2, 3},
			},
			{
				Name:   "not-every-5th",
				Rule:   RuleSpec{Kind: "complement", Of: &RuleSpec{Kind: "stride", Step: 5, Offset: 4}},
				Widths: []int{2, 3},
			},
			{
				Name:   "every-7th",
				Rule:   stride(7, 0),
				Widths: []int{2},
			},
			{
				Name:   "reversed",
				Rule:   stride(1, 0),
				Ops:    []OpSpec{{Kind: "reverse"}},
				Widths: []int{2},
			},
			{
				Name:   "no-zeros",
				Rule:   RuleSpec{Kind: "non-zero"},
				Widths: []int{2},
				Layers: []string{"letters"},
			},
			{
				Name:   "caesar-3",
				Rule:   stride(1, 0),
				Ops:    []OpSpec{{Kind: "caesar", Shift: 3}},
				Widths: []int{2},
			},
			{
				Name:   "transpose-13",
				Rule:   stride(1, 0),
				Ops:    []OpSpec{{Kind: "transpose", Block: 13}},
				Widths: []int{2},
				Layers: []string{"digit-coordinates"},
			},
		},
	}
}

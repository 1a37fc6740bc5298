// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"github.com/digitscope/digitscope/internal/digits"
	"github.com/digitscope/digitscope/internal/finding"
	"github.com/digitscope/digitscope/internal/score"
)

// Layer names a secondary scan run over a phase's output.
type Layer string

const (
	// LayerTimestamps, LayerCoordinates and LayerColors scan the hex form
	// of the phase's first decode candidate.
	LayerTimestamps  Layer = "timestamps"
	LayerCoordinates Layer = "coordinates"
	LayerColors      Layer = "colors"
	// LayerDigitCoordinates and LayerLetters scan the transformed digits
	// directly.
	LayerDigitCoordinates Layer = "digit-coordinates"
	LayerLetters          Layer = "letters"
)

// Layers lists every supported layer.
var Layers = []Layer{LayerTimestamps, LayerCoordinates, LayerColors, LayerDigitCoordinates, LayerLetters}

// Phase is one named pass of extract, transform and score.
type Phase struct {
	Name   string
	Rule   digits.Rule
	Ops    []digits.Op
	Widths []int
	Layers []Layer
}

// SurveyOptions controls the whole-input survey that precedes the phases.
// Palindrome and repeat searches run when their minimum length is set;
// Transitions is how many of the most frequent digit pairs to report.
type SurveyOptions struct {
	Moduli        []int64
	PalindromeMin int
	PalindromeMax int
	RepeatMin     int
	RepeatMax     int
	Transitions   int
	Patterns      []string
}

// Thresholds maps decode validity percentages to confidence tiers.
type Thresholds struct {
	Critical float64
	High     float64
	Medium   float64
}

// DefaultThresholds grades 85% and above as critical, 60% as high and 40%
// as medium.
func DefaultThresholds() Thresholds {
	return Thresholds{Critical: 85, High: 60, Medium: 40}
}

// Grade returns the tier for a validity percentage.
func (t Thresholds) Grade(validity float64) finding.Confidence {
	switch {
	case validity >= t.Critical:
		return finding.Critical
	case validity >= t.High:
		return finding.High
	case validity >= t.Medium:
		return finding.Medium
	}
	return finding.Low
}

// PhaseResult is everything one phase produced.
type PhaseResult struct {
	Name        string
	Extracted   digits.Sequence
	Transformed digits.Sequence
	Decodes     []score.DecodeCandidate
	Hex         string
	Timestamps  []score.TimestampCandidate
	Coordinates []score.CoordinateCandidate
	Colors      []score.ColorCandidate
	Intervals   []score.Interval
	Letters     *score.LetterDecode
}

// Candidates flattens the phase output into the candidate sum type.
func (r PhaseResult) Candidates() []score.Candidate {
	var out []score.Candidate
	for _, c := range r.Decodes {
		out = append(out, c)
	}
	for _, c := range r.Timestamps {
		out = append(out, c)
	}
	for _, c := range r.Coordinates {
		out = append(out, c)
	}
	for _, c := range r.Colors {
		out = append(out, c)
	}
	return out
}

// Result is the output of a pipeline run.
type Result struct {
	ID       string
	Input    digits.Sequence
	Stats    *digits.Stats
	Findings finding.List
	Phases   []PhaseResult
}

// Candidates returns the candidates of every phase in phase order.
func (r Result) Candidates() []score.Candidate {
	var out []score.Candidate
	for _, p := range r.Phases {
		out = append(out, p.Candidates()...)
	}
	return out
}

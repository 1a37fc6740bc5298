// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/digitscope/digitscope/internal/digits"
	"github.com/digitscope/digitscope/internal/pipeline"
	"github.com/digitscope/digitscope/internal/score"
)

// Rule builds the extraction rule r describes.
func (r RuleSpec) Rule() (digits.Rule, error) {
	switch r.Kind {
	case "stride":
		return digits.Stride{Step: r.Step, Offset: r.Offset}, nil
	case "primes":
		return digits.Primes(), nil
	case "fibonacci":
		return digits.Fibonacci(), nil
	case "non-zero":
		return digits.NonZero{}, nil
	case "complement":
		if r.Of == nil {
			return nil, fmt.Errorf("%w: complement rule needs \"of\"", digits.ErrInvalidArgument)
		}
		inner, err := r.Of.Rule()
		if err != nil {
			return nil, err
		}
		return digits.Complement{Of: inner}, nil
	}
	return nil, fmt.Errorf("%w: unknown rule kind %q", digits.ErrInvalidArgument, r.Kind)
}

// Op builds the transform operation o describes.
func (o OpSpec) Op() (digits.Op, error) {
	switch o.Kind {
	case "rotate":
		return digits.Rotate{By: o.By}, nil
	case "xor":
		return digits.XOR{Key: o.Key}, nil
	case "caesar":
		return digits.Caesar{Shift: o.Shift}, nil
	case "reverse":
		return digits.Reverse{}, nil
	case "transpose":
		return digits.Transpose{Block: o.Block}, nil
	}
	return nil, fmt.Errorf("%w: unknown op kind %q", digits.ErrInvalidArgument, o.Kind)
}

// Phase builds a pipeline phase.
func (p PhaseSpec) Phase() (pipeline.Phase, error) {
	rule, err := p.Rule.Rule()
	if err != nil {
		return pipeline.Phase{}, fmt.Errorf("phase %q: %w", p.Name, err)
	}
	ph := pipeline.Phase{Name: p.Name, Rule: rule, Widths: p.Widths}
	for _, spec := range p.Ops {
		op, err := spec.Op()
		if err != nil {
			return pipeline.Phase{}, fmt.Errorf("phase %q: %w", p.Name, err)
		}
		ph.Ops = append(ph.Ops, op)
	}
	for _, l := range p.Layers {
		ph.Layers = append(ph.Layers, pipeline.Layer(l))
	}
	return ph, nil
}

// BuildPhases builds every phase in order.
func (f File) BuildPhases() ([]pipeline.Phase, error) {
	phases := make([]pipeline.Phase, 0, len(f.Phases))
	for _, spec := range f.Phases {
		ph, err := spec.Phase()
		if err != nil {
			return nil, err
		}
		phases = append(phases, ph)
	}
	return phases, nil
}

// Options translates the non-phase settings into pipeline options.
func (f File) Options() []pipeline.Option {
	var opts []pipeline.Option
	if f.Survey != nil {
		opts = append(opts, pipeline.WithSurvey(pipeline.SurveyOptions{
			Moduli:        f.Survey.Moduli,
			PalindromeMin: f.Survey.PalindromeMin,
			PalindromeMax: f.Survey.PalindromeMax,
			RepeatMin:     f.Survey.RepeatMin,
			RepeatMax:     f.Survey.RepeatMax,
			Transitions:   f.Survey.Transitions,
			Patterns:      f.Survey.Patterns,
		}))
	}
	if f.Thresholds != nil {
		t := pipeline.DefaultThresholds()
		if f.Thresholds.Critical != nil {
			t.Critical = *f.Thresholds.Critical
		}
		if f.Thresholds.High != nil {
			t.High = *f.Thresholds.High
		}
		if f.Thresholds.Medium != nil {
			t.Medium = *f.Thresholds.Medium
		}
		opts = append(opts, pipeline.WithThresholds(t))
	}
	if len(f.Keywords) > 0 {
		opts = append(opts, pipeline.WithKeywords(f.Keywords))
	}
	if f.Timestamps != nil {
		opts = append(opts, pipeline.WithTimestampScanner(f.TimestampScanner()))
	}
	if f.ColorOffset != nil {
		opts = append(opts, pipeline.WithColorOffset(*f.ColorOffset))
	}
	return opts
}

// TimestampScanner returns the default scanner with the configured
// overrides applied.
func (f File) TimestampScanner() score.TimestampScanner {
	ts := score.DefaultTimestamps()
	if f.Timestamps == nil {
		return ts
	}
	if f.Timestamps.Base != nil {
		ts.Base = *f.Timestamps.Base
	}
	if len(f.Timestamps.Widths) > 0 {
		ts.Widths = f.Timestamps.Widths
	}
	if f.Timestamps.Min != nil {
		ts.Min = *f.Timestamps.Min
	}
	if f.Timestamps.Max != nil {
		ts.Max = *f.Timestamps.Max
	}
	return ts
}

// InputSequence parses the configured input.
func (f File) InputSequence() (digits.Sequence, error) {
	seq, err := digits.Parse(f.Input)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("input: %w", err)}
	}
	return seq, nil
}

// Pipeline builds the configured pipeline. extra options are applied last.
func (f File) Pipeline(extra ...pipeline.Option) (*pipeline.Pipeline, error) {
	phases, err := f.BuildPhases()
	if err != nil {
		return nil, &Error{Err: err}
	}
	return pipeline.New(phases, append(f.Options(), extra...)...), nil
}

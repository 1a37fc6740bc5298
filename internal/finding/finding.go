// SPDX-License-Identifier: Apache-2.0

// Package finding holds the append-only record of what a run discovered.
package finding

import (
	"fmt"
	"strings"
)

// Confidence is an informational label attached to a Finding.
type Confidence string

const (
	Critical Confidence = "CRITICAL"
	High     Confidence = "HIGH"
	Medium   Confidence = "MEDIUM"
	Low      Confidence = "LOW"
)

// Tiers lists the confidence labels from strongest to weakest.
var Tiers = []Confidence{Critical, High, Medium, Low}

// ParseConfidence accepts a tier name in any case.
func ParseConfidence(s string) (Confidence, error) {
	c := Confidence(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range Tiers {
		if c == t {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown confidence %q", s)
}

// Finding is one observation made during a run.
type Finding struct {
	Category   string     `json:"category" yaml:"category"`
	Method     string     `json:"method" yaml:"method"`
	Result     string     `json:"result" yaml:"result"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// List is an append-only sequence of findings. Add never modifies the
// elements visible through the receiver.
type List []Finding

// Add returns a list with f appended.
func (l List) Add(f Finding) List {
	out := make(List, len(l), len(l)+1)
	copy(out, l)
	return append(out, f)
}

// Addf is shorthand for Add with a formatted result.
func (l List) Addf(category, method string, confidence Confidence, format string, args ...any) List {
	return l.Add(Finding{
		Category:   category,
		Method:     method,
		Result:     fmt.Sprintf(format, args...),
		Confidence: confidence,
	})
}

// Categories returns the distinct categories in first-seen order.
func (l List) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range l {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	return out
}

// Filter returns the findings of category with the given confidence, in order.
func (l List) Filter(category string, confidence Confidence) List {
	var out List
	for _, f := range l {
		if f.Category == category && f.Confidence == confidence {
			out = append(out, f)
		}
	}
	return out
}

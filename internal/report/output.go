// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/goccy/go-yaml"

	"github.com/digitscope/digitscope/internal/finding"
	"github.com/digitscope/digitscope/internal/pipeline"
	"github.com/digitscope/digitscope/internal/score"
)

// FileName returns "<prefix>_<YYYYmmdd_HHMMSS>.md".
func FileName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.md", prefix, t.Format("20060102_150405"))
}

// WriteFile writes text to dir under FileName and returns the full path.
func WriteFile(dir, prefix string, t time.Time, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, FileName(prefix, t))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Terminal renders markdown for a terminal. An empty style picks one from
// the terminal background.
func Terminal(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	return r.Render(markdown)
}

// Document is the structured form of a run for yaml and json export.
type Document struct {
	ID          string            `json:"id" yaml:"id"`
	Input       string            `json:"input" yaml:"input"`
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Findings    []finding.Finding `json:"findings" yaml:"findings"`
	Phases      []PhaseDocument   `json:"phases" yaml:"phases"`
}

// PhaseDocument is one phase of a Document.
type PhaseDocument struct {
	Name        string                      `json:"name" yaml:"name"`
	Extracted   string                      `json:"extracted" yaml:"extracted"`
	Transformed string                      `json:"transformed" yaml:"transformed"`
	Hex         string                      `json:"hex,omitempty" yaml:"hex,omitempty"`
	Decodes     []score.DecodeCandidate     `json:"decodes,omitempty" yaml:"decodes,omitempty"`
	Timestamps  []score.TimestampCandidate  `json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
	Coordinates []score.CoordinateCandidate `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Colors      []score.ColorCandidate      `json:"colors,omitempty" yaml:"colors,omitempty"`
	Intervals   []score.Interval            `json:"intervals,omitempty" yaml:"intervals,omitempty"`
	Letters     *score.LetterDecode         `json:"letters,omitempty" yaml:"letters,omitempty"`
}

// NewDocument converts a pipeline result.
func NewDocument(r pipeline.Result, generatedAt time.Time) Document {
	doc := Document{
		ID:          r.ID,
		Input:       r.Input.String(),
		GeneratedAt: generatedAt.UTC(),
		Findings:    r.Findings,
		Phases:      make([]PhaseDocument, 0, len(r.Phases)),
	}
	for _, p := range r.Phases {
		doc.Phases = append(doc.Phases, PhaseDocument{
			Name:        p.Name,
			Extracted:   p.Extracted.String(),
			Transformed: p.Transformed.String(),
			Hex:         p.Hex,
			Decodes:     p.Decodes,
			Timestamps:  p.Timestamps,
			Coordinates: p.Coordinates,
			Colors:      p.Colors,
			Intervals:   p.Intervals,
			Letters:     p.Letters,
		})
	}
	return doc
}

// Export writes doc as yaml or json.
func Export(w io.Writer, format string, doc Document) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err = yaml.Marshal(doc)
	case "json":
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

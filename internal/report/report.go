// SPDX-License-Identifier: Apache-2.0

// Package report renders pipeline findings and candidates as markdown.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/digitscope/digitscope/internal/finding"
	"github.com/digitscope/digitscope/internal/score"
)

// DefaultTitle heads reports that do not set one.
const DefaultTitle = "Digit Sequence Analysis Report"

// Meta is the report header. GeneratedAt is the only field that varies
// between two renders of the same run.
type Meta struct {
	Title       string
	Input       string
	GeneratedAt time.Time
	// MaxPerKind caps each candidate section; zero means no cap.
	MaxPerKind int
}

var kindSections = []struct {
	kind  score.Kind
	title string
}{
	{score.KindDecode, "Decode candidates"},
	{score.KindTimestamp, "Timestamp candidates"},
	{score.KindCoordinate, "Coordinate candidates"},
	{score.KindColor, "Color candidates"},
}

// Render formats findings grouped by category, in first-seen order, and by
// confidence tier within each category, followed by the candidates.
func Render(meta Meta, findings finding.List, candidates []score.Candidate) string {
	title := meta.Title
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Generated:** %s  \n", meta.GeneratedAt.Format(time.DateTime))
	fmt.Fprintf(&b, "**Input:** `%s`  \n", meta.Input)
	fmt.Fprintf(&b, "**Length:** %d digits\n\n", len(meta.Input))

	writeSummary(&b, findings, candidates)

	b.WriteString("## Findings\n\n")
	if len(findings) == 0 {
		b.WriteString("_No findings._\n\n")
	}
	for _, category := range findings.Categories() {
		fmt.Fprintf(&b, "### %s\n\n", escape(category))
		for _, tier := range finding.Tiers {
			tiered := findings.Filter(category, tier)
			if len(tiered) == 0 {
				continue
			}
			fmt.Fprintf(&b, "#### %s Confidence\n\n", tier)
			for _, f := range tiered {
				fmt.Fprintf(&b, "- **%s**: %s\n", escape(f.Method), escape(f.Result))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("---\n\n")

	b.WriteString("## Candidates\n\n")
	byKind := groupByKind(candidates)
	for _, sec := range kindSections {
		cs := byKind[sec.kind]
		if len(cs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", sec.title)
		writeTable(&b, sec.kind, cs, meta.MaxPerKind)
	}
	if len(candidates) == 0 {
		b.WriteString("_No candidates._\n")
	}
	return b.String()
}

func writeSummary(b *strings.Builder, findings finding.List, candidates []score.Candidate) {
	counts := make(map[finding.Confidence]int)
	for _, f := range findings {
		counts[f.Confidence]++
	}
	parts := make([]string, 0, len(finding.Tiers))
	for _, tier := range finding.Tiers {
		parts = append(parts, fmt.Sprintf("%s %d", tier, counts[tier]))
	}

	byKind := groupByKind(candidates)
	kinds := make([]string, 0, len(kindSections))
	for _, sec := range kindSections {
		kinds = append(kinds, fmt.Sprintf("%s %d", sec.kind, len(byKind[sec.kind])))
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- Findings: %d (%s)\n", len(findings), strings.Join(parts, ", "))
	fmt.Fprintf(b, "- Candidates: %d (%s)\n\n", len(candidates), strings.Join(kinds, ", "))
	b.WriteString("---\n\n")
}

func groupByKind(candidates []score.Candidate) map[score.Kind][]score.Candidate {
	out := make(map[score.Kind][]score.Candidate)
	for _, c := range candidates {
		out[c.Kind()] = append(out[c.Kind()], c)
	}
	return out
}

func writeTable(b *strings.Builder, kind score.Kind, cs []score.Candidate, limit int) {
	switch kind {
	case score.KindDecode:
		b.WriteString("| Source | Width | Text | Validity |\n|---|---|---|---|\n")
	case score.KindTimestamp:
		b.WriteString("| Window | Value | UTC | Position |\n|---|---|---|---|\n")
	case score.KindCoordinate:
		b.WriteString("| Latitude | Longitude | Region | Source | Position | Format |\n|---|---|---|---|---|---|\n")
	case score.KindColor:
		b.WriteString("| Hex | RGB | Shade | Position |\n|---|---|---|---|\n")
	}

	shown := cs
	if limit > 0 && len(cs) > limit {
		shown = cs[:limit]
	}
	for _, c := range shown {
		switch v := c.(type) {
		case score.DecodeCandidate:
			fmt.Fprintf(b, "| %s | %d | %s | %.1f%% |\n", escape(v.Source), v.ChunkWidth, escape(v.Text), v.Validity)
		case score.TimestampCandidate:
			fmt.Fprintf(b, "| %s | %d | %s | %d |\n", v.Window, v.Value, v.Time.UTC().Format(time.DateTime), v.Position)
		case score.CoordinateCandidate:
			fmt.Fprintf(b, "| %.4f | %.4f | %s | %s | %d | %s |\n", v.Lat, v.Lon, v.Region, v.Source, v.Position, v.Format)
		case score.ColorCandidate:
			fmt.Fprintf(b, "| #%s | (%d, %d, %d) | %s | %d |\n", v.Hex, v.R, v.G, v.B, v.Shade, v.Position)
		}
	}
	if len(shown) < len(cs) {
		fmt.Fprintf(b, "\n_and %d more_\n", len(cs)-len(shown))
	}
	b.WriteString("\n")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
	"#", `\#`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

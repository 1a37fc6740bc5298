// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitscope/digitscope/internal/digits"
	"github.com/digitscope/digitscope/internal/finding"
	"github.com/digitscope/digitscope/internal/score"
)

// Finding categories emitted by the pipeline.
const (
	CategorySurvey     = "SURVEY"
	CategoryPattern    = "PATTERN"
	CategoryExtraction = "EXTRACTION"
	CategoryTransform  = "TRANSFORM"
	CategoryDecode     = "ASCII_DECODE"
	CategoryLetters    = "LETTER_DECODE"
	CategoryKeyword    = "KEYWORD_MATCH"
	CategoryTimestamp  = "TIMESTAMP"
	CategoryCoordinate = "COORDINATE"
	CategoryColor      = "COLOR"
)

const (
	maxExamplesPerLayer = 3
	maxRepeatExamples   = 5
)

// DefaultKeywords are matched case-insensitively against decoded text.
var DefaultKeywords = []string{
	"CICADA", "LIBER", "PRIMUS", "WELCOME", "PARABLE", "ILLUMINATI",
	"THELEMA", "DIVINITY", "PATH", "ENLIGHTENMENT", "INSTAR", "EMERGENCE",
}

// Pipeline runs the survey and then every phase over one input.
type Pipeline struct {
	phases      []Phase
	survey      *SurveyOptions
	thresholds  Thresholds
	keywords    []string
	timestamps  score.TimestampScanner
	hexCoords   score.CoordinateScanner
	digitCoords score.CoordinateScanner
	colorOffset int
	logger      *zap.Logger
	newID       func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSurvey enables the whole-input survey.
func WithSurvey(s SurveyOptions) Option {
	return func(p *Pipeline) { p.survey = &s }
}

// WithThresholds replaces the validity thresholds used to grade decodes.
func WithThresholds(t Thresholds) Option {
	return func(p *Pipeline) { p.thresholds = t }
}

// WithKeywords replaces the words searched for in decoded text.
func WithKeywords(words []string) Option {
	return func(p *Pipeline) { p.keywords = words }
}

// WithTimestampScanner replaces the scanner used by LayerTimestamps.
func WithTimestampScanner(s score.TimestampScanner) Option {
	return func(p *Pipeline) { p.timestamps = s }
}

// WithColorOffset sets the hex offset LayerColors starts reading at.
func WithColorOffset(offset int) Option {
	return func(p *Pipeline) { p.colorOffset = offset }
}

// WithIDFunc replaces the run ID generator.
func WithIDFunc(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// New creates a Pipeline for the given phases.
func New(phases []Phase, opts ...Option) *Pipeline {
	p := &Pipeline{
		phases:      phases,
		thresholds:  DefaultThresholds(),
		keywords:    DefaultKeywords,
		timestamps:  score.DefaultTimestamps(),
		hexCoords:   score.HexCoordinates(),
		digitCoords: score.DigitCoordinates(),
		logger:      zap.NewNop(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PhaseNames returns the names of the configured phases in run order.
func (p *Pipeline) PhaseNames() []string {
	names := make([]string, len(p.phases))
	for i, ph := range p.phases {
		names[i] = ph.Name
	}
	return names
}

// Run executes the survey and every phase. The first invalid phase aborts
// the run.
func (p *Pipeline) Run(ctx context.Context, input digits.Sequence) (Result, error) {
	result := Result{ID: p.newID(), Input: input}
	log := p.logger.With(zap.String("run_id", result.ID))
	log.Info("run started", zap.Int("input_length", input.Len()), zap.Int("phases", len(p.phases)))

	var findings finding.List
	if p.survey != nil {
		var (
			stats digits.Stats
			err   error
		)
		findings, stats, err = p.runSurvey(findings, input)
		if err != nil {
			return Result{}, fmt.Errorf("survey failed: %w", err)
		}
		result.Stats = &stats
	}

	for _, ph := range p.phases {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		var (
			pr  PhaseResult
			err error
		)
		findings, pr, err = p.runPhase(findings, ph, input)
		if err != nil {
			return Result{}, fmt.Errorf("phase %q failed: %w", ph.Name, err)
		}
		log.Info("phase finished",
			zap.String("phase", ph.Name),
			zap.Int("decodes", len(pr.Decodes)),
			zap.Int("timestamps", len(pr.Timestamps)),
			zap.Int("coordinates", len(pr.Coordinates)),
			zap.Int("colors", len(pr.Colors)),
		)
		result.Phases = append(result.Phases, pr)
	}

	result.Findings = findings
	log.Info("run finished", zap.Int("findings", len(findings)))
	return result, nil
}

func (p *Pipeline) runSurvey(findings finding.List, input digits.Sequence) (finding.List, digits.Stats, error) {
	opts := p.survey
	stats, err := digits.Survey(input, opts.Moduli)
	if err != nil {
		return findings, digits.Stats{}, err
	}

	kind := "composite"
	if stats.PrimeLength {
		kind = "prime"
	}
	findings = findings.Addf(CategorySurvey, "Length", finding.High, "%d digits (%s)", stats.Length, kind)
	findings = findings.Addf(CategorySurvey, "Digit sum", finding.High, "%d, digital root %d", stats.DigitSum, stats.DigitalRoot)
	findings = findings.Addf(CategorySurvey, "Digit frequency", finding.Medium, "%s", digits.SortedFrequency(stats.Frequency))
	if stats.Length > 0 {
		findings = findings.Addf(CategorySurvey, "Digit statistics", finding.Medium, "mean %.2f, median %d, mode %d",
			stats.Mean, stats.Median, stats.Mode)
	}
	for _, m := range stats.ResidueOrder {
		findings = findings.Addf(CategorySurvey, fmt.Sprintf("Modulo %d", m), finding.Medium, "%d", stats.Residues[m])
	}

	if opts.PalindromeMin > 0 {
		pals, err := digits.Palindromes(input, opts.PalindromeMin, opts.PalindromeMax)
		if err != nil {
			return findings, digits.Stats{}, err
		}
		parts := make([]string, 0, len(pals))
		for _, pal := range pals {
			parts = append(parts, fmt.Sprintf("%s@%d", pal.Text, pal.Position))
		}
		findings = findings.Addf(CategoryPattern, fmt.Sprintf("Palindromes %d-%d", opts.PalindromeMin, opts.PalindromeMax),
			finding.Medium, "%d found: %s", len(pals), strings.Join(parts, ", "))
	}

	if opts.RepeatMin > 0 {
		repeats, err := digits.Repeats(input, opts.RepeatMin, opts.RepeatMax)
		if err != nil {
			return findings, digits.Stats{}, err
		}
		findings = repeatFindings(findings, repeats)
	}

	if opts.Transitions > 0 {
		trs := digits.Transitions(input)
		if len(trs) > opts.Transitions {
			trs = trs[:opts.Transitions]
		}
		parts := make([]string, len(trs))
		for i, tr := range trs {
			parts[i] = fmt.Sprintf("%s:%d", tr.Pair, tr.Count)
		}
		if len(parts) > 0 {
			findings = findings.Addf(CategoryPattern, "Digit transitions", finding.Low, "%s", strings.Join(parts, " "))
		}
	}

	for _, pattern := range opts.Patterns {
		pos := digits.Occurrences(input, pattern)
		if len(pos) == 0 {
			continue
		}
		findings = findings.Addf(CategoryPattern, fmt.Sprintf("Pattern %s", pattern), finding.Medium,
			"%d occurrences at %v", len(pos), pos)
	}

	p.logger.Debug("survey finished", zap.Int("length", stats.Length), zap.Int("digital_root", stats.DigitalRoot))
	return findings, stats, nil
}

// repeatFindings adds one finding per repeat length, listing the most
// frequent repeats first.
func repeatFindings(findings finding.List, repeats []digits.Repeat) finding.List {
	var byLen [][]digits.Repeat
	for _, r := range repeats {
		if n := len(byLen); n == 0 || len(byLen[n-1][0].Text) != len(r.Text) {
			byLen = append(byLen, nil)
		}
		byLen[len(byLen)-1] = append(byLen[len(byLen)-1], r)
	}
	for _, group := range byLen {
		top := digits.MostRepeated(group)
		if len(top) > maxRepeatExamples {
			top = top[:maxRepeatExamples]
		}
		parts := make([]string, len(top))
		for i, r := range top {
			parts[i] = fmt.Sprintf("%s at %v", r.Text, r.Positions)
		}
		findings = findings.Addf(CategoryPattern, fmt.Sprintf("Repeats of length %d", len(group[0].Text)), finding.Medium,
			"%d found: %s", len(group), strings.Join(parts, ", "))
	}
	return findings
}

func (p *Pipeline) runPhase(findings finding.List, ph Phase, input digits.Sequence) (finding.List, PhaseResult, error) {
	pr := PhaseResult{Name: ph.Name}
	if ph.Rule == nil {
		return findings, pr, fmt.Errorf("%w: phase has no rule", digits.ErrInvalidArgument)
	}

	extracted, err := digits.Extract(input, ph.Rule)
	if err != nil {
		return findings, pr, err
	}
	pr.Extracted = extracted
	findings = findings.Addf(CategoryExtraction, ph.Name+": "+ph.Rule.Name(), finding.High, "%s", extracted)

	transformed, err := digits.Transform(extracted, ph.Ops...)
	if err != nil {
		return findings, pr, err
	}
	pr.Transformed = transformed
	if len(ph.Ops) > 0 {
		findings = findings.Addf(CategoryTransform, ph.Name+": "+opNames(ph.Ops), finding.High, "%s", transformed)
	}

	for _, width := range ph.Widths {
		dc, err := score.Score(transformed, width)
		if err != nil {
			return findings, pr, err
		}
		dc.Source = ph.Name
		pr.Decodes = append(pr.Decodes, dc)
		findings = findings.Addf(CategoryDecode, fmt.Sprintf("%s: %d-digit chunks", ph.Name, width),
			p.thresholds.Grade(dc.Validity), "%q (validity %.1f%%)", dc.Text, dc.Validity)
		findings = p.matchKeywords(findings, ph.Name, dc)
	}

	return p.runLayers(findings, ph, pr)
}

func (p *Pipeline) matchKeywords(findings finding.List, phase string, dc score.DecodeCandidate) finding.List {
	upper := strings.ToUpper(dc.Text)
	var hits []string
	for _, kw := range p.keywords {
		if kw != "" && strings.Contains(upper, strings.ToUpper(kw)) {
			hits = append(hits, kw)
		}
	}
	if len(hits) == 0 {
		return findings
	}
	return findings.Addf(CategoryKeyword, fmt.Sprintf("%s: %d-digit chunks", phase, dc.ChunkWidth), finding.Critical,
		"contains %s", strings.Join(hits, ", "))
}

func (p *Pipeline) runLayers(findings finding.List, ph Phase, pr PhaseResult) (finding.List, PhaseResult, error) {
	if len(pr.Decodes) > 0 {
		pr.Hex = pr.Decodes[0].Hex()
	}
	for _, layer := range ph.Layers {
		switch layer {
		case LayerTimestamps, LayerCoordinates, LayerColors:
			if pr.Hex == "" {
				p.logger.Debug("skipping hex layer without decode output",
					zap.String("phase", ph.Name), zap.String("layer", string(layer)))
				continue
			}
		}

		switch layer {
		case LayerTimestamps:
			ts, err := p.timestamps.Scan(pr.Hex)
			if err != nil {
				return findings, pr, err
			}
			pr.Timestamps = ts
			pr.Intervals = score.Intervals(ts)
			findings = layerFindings(findings, CategoryTimestamp, ph.Name, finding.Medium, ts)
			findings = intervalFindings(findings, ph.Name, pr.Intervals)
		case LayerCoordinates:
			cs, err := p.hexCoords.Scan(pr.Hex)
			if err != nil {
				return findings, pr, err
			}
			pr.Coordinates = append(pr.Coordinates, cs...)
			findings = layerFindings(findings, CategoryCoordinate, ph.Name+" (hex)", finding.Medium, cs)
			findings = geometryFindings(findings, ph.Name+" (hex)", cs)
		case LayerDigitCoordinates:
			cs, err := p.digitCoords.Scan(pr.Transformed.String())
			if err != nil {
				return findings, pr, err
			}
			pr.Coordinates = append(pr.Coordinates, cs...)
			findings = layerFindings(findings, CategoryCoordinate, ph.Name+" (digits)", finding.Low, cs)
			findings = geometryFindings(findings, ph.Name+" (digits)", cs)
		case LayerColors:
			cs, err := score.ScanColors(pr.Hex, p.colorOffset)
			if err != nil {
				return findings, pr, err
			}
			pr.Colors = cs
			findings = layerFindings(findings, CategoryColor, ph.Name, finding.Low, cs)
		case LayerLetters:
			ld := score.Letters(pr.Transformed)
			pr.Letters = &ld
			findings = findings.Addf(CategoryLetters, ph.Name+": 2-digit letters", p.thresholds.Grade(ld.Validity),
				"%q (validity %.1f%%)", ld.Text, ld.Validity)
		default:
			return findings, pr, fmt.Errorf("%w: unknown layer %q", digits.ErrInvalidArgument, layer)
		}
	}
	return findings, pr, nil
}

// layerFindings records the candidate count and the first few examples.
func layerFindings[C score.Candidate](findings finding.List, category, method string, confidence finding.Confidence, cs []C) finding.List {
	if len(cs) == 0 {
		return findings
	}
	findings = findings.Addf(category, method, confidence, "%d candidates", len(cs))
	for i, c := range cs {
		if i == maxExamplesPerLayer {
			break
		}
		findings = findings.Addf(category, method+" example", confidence, "%s", c.Summary())
	}
	return findings
}

func intervalFindings(findings finding.List, method string, ivs []score.Interval) finding.List {
	if len(ivs) == 0 {
		return findings
	}
	var total int64
	parts := make([]string, len(ivs))
	for i, iv := range ivs {
		total += iv.Seconds
		parts[i] = iv.String()
	}
	return findings.Addf(CategoryTimestamp, method+" intervals", finding.Low, "mean %ds: %s",
		total/int64(len(ivs)), strings.Join(parts, ", "))
}

func geometryFindings(findings finding.List, method string, cs []score.CoordinateCandidate) finding.List {
	if len(cs) < 2 {
		return findings
	}
	g, _ := score.Measure(cs)
	return findings.Addf(CategoryCoordinate, method+" geometry", finding.Low,
		"centroid %.4f, %.4f; box lat %.4f..%.4f lon %.4f..%.4f; widest %.1f km (#%d to #%d, bearing %.1f)",
		g.Centroid.Lat, g.Centroid.Lon, g.Box.MinLat, g.Box.MaxLat, g.Box.MinLon, g.Box.MaxLon,
		g.MaxDistanceKm, g.From+1, g.To+1, g.BearingDeg)
}

func opNames(ops []digits.Op) string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name()
	}
	return strings.Join(names, ", ")
}

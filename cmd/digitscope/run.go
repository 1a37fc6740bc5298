// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/digitscope/digitscope/internal/config"
	"github.com/digitscope/digitscope/internal/pipeline"
	"github.com/digitscope/digitscope/internal/report"
)

type runOptions struct {
	configPath string
	input      string
	outDir     string
	prefix     string
	format     string
	title      string
	style      string
	width      int
	maxPerKind int
	render     bool
	noFile     bool
}

func defaultRunOptions() runOptions {
	return runOptions{
		outDir:     ".",
		prefix:     "digitscope",
		format:     "markdown",
		width:      100,
		maxPerKind: 20,
	}
}

func newRunCmd() *cobra.Command {
	opts := defaultRunOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the analysis pipeline",
		Long: `Runs every configured phase over the input and reports the findings.

The markdown report is written to <out>/<prefix>_<YYYYmmdd_HHMMSS>.md.
With --format yaml or json the structured result is printed instead.

Example:
  digitscope run --config phases.yaml --render`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Phase configuration (.yaml, .toml or .json)")
	f.StringVarP(&opts.input, "input", "i", "", "Digit sequence to analyse (default: built-in)")
	f.StringVarP(&opts.outDir, "out", "o", opts.outDir, "Directory for the markdown report")
	f.StringVar(&opts.prefix, "prefix", opts.prefix, "Report file name prefix")
	f.StringVarP(&opts.format, "format", "f", opts.format, "Output format: markdown, yaml or json")
	f.StringVar(&opts.title, "title", "", "Report title")
	f.StringVar(&opts.style, "style", "", "Glamour style for --render (default: auto)")
	f.IntVar(&opts.width, "width", opts.width, "Word wrap width for --render")
	f.IntVar(&opts.maxPerKind, "max-candidates", opts.maxPerKind, "Candidates listed per kind, 0 for all")
	f.BoolVar(&opts.render, "render", false, "Print the report styled for the terminal")
	f.BoolVar(&opts.noFile, "no-file", false, "Do not write the markdown report file")
	return cmd
}

func loadConfig(path string) (config.File, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runAnalysis(cmd *cobra.Command, opts runOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.input != "" {
		cfg.Input = opts.input
	}
	seq, err := cfg.InputSequence()
	if err != nil {
		return err
	}
	p, err := cfg.Pipeline(pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx, seq)
	if err != nil {
		return err
	}
	now := time.Now()
	out := cmd.OutOrStdout()

	switch opts.format {
	case "markdown", "md", "":
	case "yaml", "yml", "json":
		return report.Export(out, opts.format, report.NewDocument(result, now))
	default:
		return fmt.Errorf("unsupported output format %q", opts.format)
	}

	text := report.Render(report.Meta{
		Title:       opts.title,
		Input:       seq.String(),
		GeneratedAt: now,
		MaxPerKind:  opts.maxPerKind,
	}, result.Findings, result.Candidates())

	if !opts.noFile {
		path, err := report.WriteFile(opts.outDir, opts.prefix, now, text)
		if err != nil {
			return err
		}
		logger.Info("report written", zap.String("run_id", result.ID), zap.String("path", path))
		fmt.Fprintf(out, "Report written to %s\n", path)
	}

	switch {
	case opts.render:
		styled, err := report.Terminal(text, opts.style, opts.width)
		if err != nil {
			return err
		}
		fmt.Fprint(out, styled)
	case opts.noFile:
		fmt.Fprint(out, text)
	default:
		fmt.Fprintf(out, "%d findings across %d phases\n", len(result.Findings), len(result.Phases))
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("os/signal.signal_recv"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Structure(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "digitscope", root.Use)
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "phases", "score", "mcp"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	mcpCmd, _, err := root.Find([]string{"mcp", "serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", mcpCmd.Name())
}

func TestRootCommand_NoArgsWritesReport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	matches, err := filepath.Glob(filepath.Join(dir, "digitscope_*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Digit Sequence Analysis Report")
	assert.Contains(t, string(data), "every-5th-shift-1")
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  string
		validate func(t *testing.T, out, dir string)
	}{
		{
			name: "custom prefix and title",
			args: []string{"run", "--prefix", "cicada", "--title", "Puzzle"},
			validate: func(t *testing.T, out, dir string) {
				matches, _ := filepath.Glob(filepath.Join(dir, "cicada_*.md"))
				require.Len(t, matches, 1)
				data, err := os.ReadFile(matches[0])
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(string(data), "# Puzzle\n"))
				assert.Contains(t, out, "findings across 11 phases")
			},
		},
		{
			name: "no file prints markdown",
			args: []string{"run", "--no-file", "--input", "7273"},
			validate: func(t *testing.T, out, dir string) {
				assert.Contains(t, out, "**Input:** `7273`")
				matches, _ := filepath.Glob(filepath.Join(dir, "*.md"))
				assert.Empty(t, matches)
			},
		},
		{
			name: "json export",
			args: []string{"run", "--format", "json"},
			validate: func(t *testing.T, out, dir string) {
				var doc map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &doc))
				assert.Len(t, doc["phases"], 11)
			},
		},
		{
			name: "yaml export",
			args: []string{"run", "--format", "yaml", "--input", "7273"},
			validate: func(t *testing.T, out, dir string) {
				assert.Contains(t, out, "input: \"7273\"")
			},
		},
		{
			name:    "unsupported format",
			args:    []string{"run", "--format", "xml"},
			wantErr: `unsupported output format "xml"`,
		},
		{
			name:    "invalid input",
			args:    []string{"run", "--input", "12ab"},
			wantErr: "invalid argument",
		},
		{
			name:    "unknown config extension",
			args:    []string{"run", "--config", "phases.ini"},
			wantErr: "unsupported config extension",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			out, err := execute(t, append(tt.args, "--out", dir)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, out, dir)
			}
		})
	}
}

func TestRunCommand_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phases.toml")
	require.NoError(t, os.WriteFile(path, []byte(`input = "80658472"

[[phases]]
name = "plain"
widths = [2]

[phases.rule]
kind = "stride"
step = 1
`), 0o600))

	out, err := execute(t, "run", "--config", path, "--no-file", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "### KEYWORD\\_MATCH")
	assert.Contains(t, out, "contains PATH")
}

func TestPhasesCommand(t *testing.T) {
	out, err := execute(t, "phases")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 12)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "every-5th-shift-1")
	assert.Contains(t, lines[1], "rotate 1")
	assert.Contains(t, lines[1], "timestamps, coordinates, colors")
	assert.Contains(t, lines[11], "transpose 13")
}

func TestScoreCommand(t *testing.T) {
	seq := "1041279065891998535982789873959431895640442510695567564373922695237268242385295908173983439037037447576486341520342349935710871363"

	out, err := execute(t, "score", seq, "--step", "5", "--rotate", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `Text:        "NXY^[6]  2c#>#G"`)
	assert.Contains(t, out, "Validity:    100.0%")
	assert.Contains(t, out, "Hex:         4e58595e0620203263233e2347")

	_, err = execute(t, "score", seq, "--width", "0")
	assert.Error(t, err)

	_, err = execute(t, "score")
	assert.Error(t, err)
}

// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitscope/digitscope/internal/tool"
)

func newScoreCmd() *cobra.Command {
	var in tool.InputScoreSequence
	cmd := &cobra.Command{
		Use:   "score [sequence]",
		Short: "Extract, transform and score one sequence",
		Long: `Selects every step-th digit from offset, applies the requested
transforms in order (rotate, xor, caesar) and decodes the result in chunks
of the given width.

Example:
  digitscope score 1041279065891998535982789873959431 --step 5 --rotate 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Sequence = args[0]
			_, out, err := tool.NewTools(logger).ScoreSequence(commandContext(cmd), nil, in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Transformed: %s\n", out.Transformed)
			fmt.Fprintf(w, "Text:        %q\n", out.Text)
			fmt.Fprintf(w, "Validity:    %.1f%%\n", out.Validity)
			fmt.Fprintf(w, "Hex:         %s\n", out.Hex)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&in.Step, "step", 1, "Take every step-th digit")
	f.IntVar(&in.Offset, "offset", 0, "Index of the first digit taken")
	f.IntVar(&in.Rotate, "rotate", 0, "Rotate left by n after extraction")
	f.StringVar(&in.XORKey, "xor", "", "Digit key for per-digit xor")
	f.IntVar(&in.Caesar, "caesar", 0, "Add n mod 10 to every digit")
	f.IntVar(&in.Width, "width", 2, "Chunk width in digits")
	return cmd
}

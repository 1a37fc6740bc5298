// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPhasesCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "phases",
		Short: "List the configured analysis phases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			phases, err := cfg.BuildPhases()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRULE\tOPS\tWIDTHS\tLAYERS")
			for _, ph := range phases {
				ops := make([]string, len(ph.Ops))
				for i, op := range ph.Ops {
					ops[i] = op.Name()
				}
				layers := make([]string, len(ph.Layers))
				for i, l := range ph.Layers {
					layers[i] = string(l)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					ph.Name, ph.Rule.Name(), orDash(strings.Join(ops, ", ")),
					strings.Trim(fmt.Sprint(ph.Widths), "[]"), orDash(strings.Join(layers, ", ")))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Phase configuration (.yaml, .toml or .json)")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/digitscope/digitscope/internal/tool"
)

func newMCPCmd() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	mcpCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the decode_sequence and score_sequence tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Info("starting MCP server", zap.String("version", version))
			return tool.Serve(commandContext(cmd), version, logger)
		},
	})
	return mcpCmd
}

// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// NewServer returns an MCP server with every tool registered.
func NewServer(version string, logger *zap.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "digitscope",
		Version: version,
	}, nil)

	tools := NewTools(logger)
	mcp.AddTool(server, MetadataDecodeSequence, tools.DecodeSequence)
	mcp.AddTool(server, MetadataScoreSequence, tools.ScoreSequence)
	return server
}

// Serve runs the server over stdio until ctx is cancelled or the client
// disconnects.
func Serve(ctx context.Context, version string, logger *zap.Logger) error {
	return NewServer(version, logger).Run(ctx, &mcp.StdioTransport{})
}

// Package mcpserver exposes a tool registry as an MCP server.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hubenschmidt/go-sectormatch/core"
	"github.com/hubenschmidt/go-sectormatch/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
)

// New creates an MCP server with every tool in the registry.
func New(name, version string, registry *tools.Registry, logger arbor.ILogger) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	for _, toolName := range registry.List() {
		t, ok := registry.Get(toolName)
		if !ok {
			continue
		}
		s.AddTool(toMCPTool(t), Handler(t, logger))
		logger.Debug().Str("tool", toolName).Msg("Registered MCP tool")
	}

	return s
}

func toMCPTool(t tools.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name(), t.Description(), t.Parameters())
}

// Handler forwards an MCP tool call to t. Tool failures are reported as MCP
// error results rather than protocol errors.
func Handler(t tools.Tool, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: invalid arguments: %v", err)), nil
		}

		out, err := t.Execute(ctx, args)
		if err != nil {
			logger.Error().Str("tool", t.Name()).Err(err).Msg("Tool call failed")
			return mcp.NewToolResultError(errorText(err)), nil
		}

		return mcp.NewToolResultText(out), nil
	}
}

func errorText(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return fmt.Sprintf("Error: %v", err)
	case errors.Is(err, core.ErrNoReferenceData):
		return fmt.Sprintf("No sector data available for the index fund: %v", err)
	default:
		return fmt.Sprintf("Tool error: %v", err)
	}
}

package agent

import (
	"context"
	"encoding/json"

	"todo_backend/internal/logger"
	"todo_backend/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer exposes the tool table over the Model Context Protocol. Tool
// failures are returned as error results carrying the JSON error payload.
func NewMCPServer(a *Agent, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"todo-tasks",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(`Task CRUD tools. Every call must carry the tenant_id whose tasks it operates on.`),
	)

	for _, t := range tools {
		s.AddTool(mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters), a.handler(t.Name))
	}
	return s
}

func (a *Agent) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError("arguments must be a JSON object"), nil
		}

		out, err := a.Call(ctx, name, args)
		if err != nil {
			payload, _ := json.Marshal(service.DescribeError(err))
			logger.WithContext(ctx).Debug("mcp tool failed", "tool", name, "error", err)
			return mcp.NewToolResultError(string(payload)), nil
		}

		body, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

package main

import (
	"todo_backend/internal/agent"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeStore, err := openAgent(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			return server.ServeStdio(agent.NewMCPServer(a, Version))
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"todo_backend/internal/service"

	"github.com/spf13/cobra"
)

func callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Run one tool against the configured store",
		Example: `  STORAGE_DRIVER=postgres todoctl call add_task '{"tenant_id":"alice","title":"Buy milk"}'
  todoctl call list_tasks '{"tenant_id":"alice","status":"pending"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeStore, err := openAgent(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
			}

			out, err := a.Call(cmd.Context(), args[0], raw)
			if err != nil {
				_ = writeJSON(os.Stderr, service.DescribeError(err))
				return fmt.Errorf("%s failed: %w", args[0], err)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

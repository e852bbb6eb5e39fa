package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todo_backend/internal/agent"
	"todo_backend/internal/app"
	"todo_backend/internal/config"
	"todo_backend/internal/logger"
	"todo_backend/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "todoctl",
		Short:         "Operator tooling for the todo backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			// stdout is reserved for command output (and the MCP stream)
			logger.InitWithWriter(os.Stderr, envOr("LOG_LEVEL", "warn"), false)
		},
	}

	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(toolsCmd())
	rootCmd.AddCommand(callCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(consoleCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// openAgent builds an agent over the store selected by the environment.
func openAgent(ctx context.Context) (*agent.Agent, func(), error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	a, err := agent.New(service.NewTaskService(store))
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return a, closeStore, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

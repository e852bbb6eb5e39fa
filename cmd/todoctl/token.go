package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"todo_backend/internal/service"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		sub    string
		ttl    time.Duration
		secret string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a tenant",
		Long: `Sign an HS256 token whose sub claim is the tenant id. The secret
defaults to JWT_SECRET.`,
		Example: "  todoctl token --sub alice --ttl 1h",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("JWT_SECRET is not set (or pass --secret)")
			}

			token, err := service.NewTokenManager(secret, ttl).Generate(sub)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "Tenant id to embed as the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (default $JWT_SECRET)")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}

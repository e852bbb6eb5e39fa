package main

import (
	"encoding/json"
	"fmt"
	"io"

	"todo_backend/internal/agent"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type yamlTool struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`
}

func toolsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeTools(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml, openai)")
	return cmd
}

func writeTools(w io.Writer, format string) error {
	switch format {
	case "json":
		return writeJSON(w, agent.Tools())
	case "openai":
		return writeJSON(w, agent.OpenAITools())
	case "yaml":
		var out []yamlTool
		for _, t := range agent.Tools() {
			var params map[string]any
			if err := json.Unmarshal(t.Parameters, &params); err != nil {
				return fmt.Errorf("decode %s parameters: %w", t.Name, err)
			}
			out = append(out, yamlTool{Name: t.Name, Description: t.Description, Parameters: params})
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or openai)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cmd

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/timvw/leaneval/internal/evaluator"
	"github.com/timvw/leaneval/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server on stdio",
	Long: `Run a Model Context Protocol server over stdin/stdout.

Tools:
  evaluate_idea    generate a lean evaluation (needs an API key)
  list_clarifiers  list the clarifying questions
  compute_score    compute the weighted composite score

stdout carries the protocol; diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		metrics, shutdown := startTelemetry(cmd.Context(), cfg)
		defer shutdown()

		var gen server.Generator
		client, err := getClient(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: evaluate_idea disabled: %v\n", err)
		} else {
			gen = &evaluator.Evaluator{
				Client:  client,
				Log:     os.Stderr,
				Metrics: metrics,
			}
		}

		s := server.New(Version, gen)
		if err := mcpserver.ServeStdio(s); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/leaneval/internal/evaluator"
)

var evaluateInput inputFlags

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Generate a lean evaluation for an idea",
	Long: `Generate a structured lean evaluation for a startup idea.

The idea comes from --idea plus the clarifier flags, or from an
EvaluationInput JSON document via --input:

  {"idea": {"description": "..."},
   "clarifiers": [{"questionId": "target-user", "answer": "..."}]}

Outputs the EvaluationResult as JSON on stdout. Diagnostics go to stderr.`,
	Example: `  leaneval evaluate --idea "A meal-planning app" --target-user "Busy parents"
  leaneval evaluate --input idea.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := evaluateInput.read(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := getClient(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		metrics, shutdown := startTelemetry(ctx, cfg)
		defer shutdown()

		if cfg.TimeoutDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.TimeoutDuration)
			defer cancel()
		}

		ev := &evaluator.Evaluator{
			Client:  client,
			Log:     cmd.ErrOrStderr(),
			Metrics: metrics,
		}
		result, err := ev.Generate(ctx, input)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	evaluateInput.register(evaluateCmd)
	rootCmd.AddCommand(evaluateCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/leaneval/internal/prompt"
)

var promptInput inputFlags

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the evaluation prompt without calling a model",
	Long: `Build the exact prompt that evaluate would send and print it.

Takes the same input flags as evaluate. Useful for inspecting or
replaying the prompt against another model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := promptInput.read(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), prompt.Build(input))
		return nil
	},
}

func init() {
	promptInput.register(promptCmd)
	rootCmd.AddCommand(promptCmd)
}

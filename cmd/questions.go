package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/leaneval/internal/model"
)

var flagQuestionsJSON bool

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the clarifying questions asked about an idea",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if flagQuestionsJSON {
			out, err := json.MarshalIndent(model.Clarifiers, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal questions: %w", err)
			}
			fmt.Fprintln(w, string(out))
			return nil
		}

		st := newStyles(ThemeByName(flagTheme))
		for _, q := range model.Clarifiers {
			req := ""
			if q.Required {
				req = " (required)"
			}
			fmt.Fprintf(w, "%s%s\n  %s\n  %s\n",
				st.label.Render(q.ID), st.dim.Render(req),
				st.text.Render(q.Label),
				st.dim.Render(q.Placeholder))
		}
		return nil
	},
}

func init() {
	questionsCmd.Flags().BoolVar(&flagQuestionsJSON, "json", false, "output JSON")
	rootCmd.AddCommand(questionsCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/timvw/leaneval/internal/model"
	"github.com/timvw/leaneval/internal/score"
)

var (
	flagFeasibility   float64
	flagMarketPull    float64
	flagSpeedToSignal float64
	flagNovelty       float64
	flagScoreJSON     bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the composite score for four dimension scores",
	Long: `Compute the weighted composite score:

  feasibility 35% + market pull 35% + speed to signal 20% + novelty 10%

rounded to two decimals. Each dimension must be between 0 and 100.`,
	Example: `  leaneval score --feasibility 80 --market-pull 70 --speed-to-signal 60 --novelty 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := model.Scoring{
			Feasibility:   flagFeasibility,
			MarketPull:    flagMarketPull,
			SpeedToSignal: flagSpeedToSignal,
			Novelty:       flagNovelty,
		}
		if err := score.CheckRange(s); err != nil {
			return err
		}

		if flagScoreJSON {
			return writeScoreJSON(cmd.OutOrStdout(), s)
		}
		writeScoreTable(cmd.OutOrStdout(), s, newStyles(ThemeByName(flagTheme)))
		return nil
	},
}

func init() {
	scoreCmd.Flags().Float64Var(&flagFeasibility, "feasibility", 0, "feasibility score (0-100)")
	scoreCmd.Flags().Float64Var(&flagMarketPull, "market-pull", 0, "market pull score (0-100)")
	scoreCmd.Flags().Float64Var(&flagSpeedToSignal, "speed-to-signal", 0, "speed to signal score (0-100)")
	scoreCmd.Flags().Float64Var(&flagNovelty, "novelty", 0, "novelty score (0-100)")
	scoreCmd.Flags().BoolVar(&flagScoreJSON, "json", false, "output JSON instead of a table")
	rootCmd.AddCommand(scoreCmd)
}

type scoreOutput struct {
	CompositeScore float64           `json:"compositeScore"`
	Dimensions     []score.Dimension `json:"dimensions"`
}

func writeScoreJSON(w io.Writer, s model.Scoring) error {
	out, err := json.MarshalIndent(scoreOutput{
		CompositeScore: score.Composite(s),
		Dimensions:     score.Breakdown(s),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func writeScoreTable(w io.Writer, s model.Scoring, st styles) {
	const labelWidth = 16

	for _, d := range score.Breakdown(s) {
		fmt.Fprintf(w, "%s %s %s %s\n",
			st.label.Render(lipgloss.NewStyle().Width(labelWidth).Render(d.Label)),
			st.scoreStyle(d.Score).Render(fmt.Sprintf("%6.2f", d.Score)),
			st.dim.Render(fmt.Sprintf("× %2.0f%% = %5.2f", d.Weight*100, d.Contribution)),
			st.dim.Render(bar(d.Score, 20)),
		)
	}
	composite := score.Composite(s)
	fmt.Fprintf(w, "\n%s %s\n",
		st.title.Render(lipgloss.NewStyle().Width(labelWidth).Render("Composite")),
		st.scoreStyle(composite).Render(fmt.Sprintf("%6.2f", composite)),
	)
}

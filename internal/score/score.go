// Package score computes the composite score of an evaluation.
package score

import (
	"fmt"
	"math"

	"github.com/timvw/leaneval/internal/model"
)

// Dimension weights in percent. They sum to exactly 100.
const (
	FeasibilityWeight   = 35
	MarketPullWeight    = 35
	SpeedToSignalWeight = 20
	NoveltyWeight       = 10
)

// Dimension is one scored axis with its weight.
type Dimension struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
	// Contribution is Score × Weight, unrounded.
	Contribution float64 `json:"contribution"`
}

// Composite returns Σ(dimension × weight) rounded half away from zero to
// two decimals.
func Composite(s model.Scoring) float64 {
	// scaled is the composite in hundredths; exact for integer scores.
	scaled := s.Feasibility*FeasibilityWeight +
		s.MarketPull*MarketPullWeight +
		s.SpeedToSignal*SpeedToSignalWeight +
		s.Novelty*NoveltyWeight
	return math.Round(scaled) / 100
}

// Breakdown lists the four dimensions in weight order.
func Breakdown(s model.Scoring) []Dimension {
	dims := []Dimension{
		{Key: "feasibility", Label: "Feasibility", Weight: FeasibilityWeight / 100.0, Score: s.Feasibility},
		{Key: "marketPull", Label: "Market Pull", Weight: MarketPullWeight / 100.0, Score: s.MarketPull},
		{Key: "speedToSignal", Label: "Speed to Signal", Weight: SpeedToSignalWeight / 100.0, Score: s.SpeedToSignal},
		{Key: "novelty", Label: "Novelty", Weight: NoveltyWeight / 100.0, Score: s.Novelty},
	}
	for i := range dims {
		dims[i].Contribution = dims[i].Score * dims[i].Weight
	}
	return dims
}

// CheckRange returns an error naming the first dimension that is not a
// number between 0 and 100.
func CheckRange(s model.Scoring) error {
	for _, d := range Breakdown(s) {
		if math.IsNaN(d.Score) || d.Score < 0 || d.Score > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %g", d.Label, d.Score)
		}
	}
	return nil
}

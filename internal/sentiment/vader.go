package sentiment

import (
	"context"

	"github.com/jonreiter/govader"
)

// VaderScorer scores text with the VADER rule set. The compound score
// already accounts for negation, intensifiers, capitals and punctuation.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader loads the VADER lexicon once for every Score call
func NewVader() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score implements Scorer
func (v *VaderScorer) Score(_ context.Context, text string) (float64, error) {
	scores := v.analyzer.PolarityScores(normalizeQuotes(text))
	return clamp(scores.Compound), nil
}

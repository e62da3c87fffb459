package classifier

import "github.com/jonreiter/govader"

// Vader scores polarity with the VADER rule-based analyzer, the compound score is already in [-1, 1].
// The analyzer only reads its lexicon after construction and is safe for concurrent use.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader makes scorer backed by the VADER lexicon
func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns compound polarity of the text
func (v *Vader) Score(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

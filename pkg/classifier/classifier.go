// Package classifier derives a risk signal from text. It combines a lexical sentiment polarity with
// a fixed urgency vocabulary. Classification is deterministic and has no I/O or shared mutable state.
package classifier

import (
	"math"
	"strings"

	"github.com/umputun/sentinel/pkg/domain"
)

// sentiment thresholds, compared with strict less-than
const (
	criticalThreshold = -0.5
	mediumThreshold   = -0.1
)

// DefaultUrgencyTerms forces critical risk when any of them appears in text
var DefaultUrgencyTerms = []string{"breach", "attack", "critical", "exploit", "zero-day", "ransomware"}

// Scorer computes sentiment polarity of a text in [-1, 1]
type Scorer interface {
	Score(text string) float64
}

// ScorerFunc is an adapter to allow the use of ordinary functions as Scorer
type ScorerFunc func(text string) float64

// Score calls f(text)
func (f ScorerFunc) Score(text string) float64 { return f(text) }

// Classifier assigns sentiment and risk level to text
type Classifier struct {
	scorer  Scorer
	urgency []string
}

// New makes classifier with the VADER scorer and default urgency vocabulary
func New() *Classifier {
	return NewWithScorer(NewVader())
}

// NewWithScorer makes classifier with a custom scorer and default urgency vocabulary
func NewWithScorer(scorer Scorer) *Classifier {
	urgency := make([]string, len(DefaultUrgencyTerms))
	copy(urgency, DefaultUrgencyTerms)
	return &Classifier{scorer: scorer, urgency: urgency}
}

// Classify returns sentiment and risk level of the text. Empty text is neutral and low risk.
// Urgency terms are checked after thresholds and always win.
func (c *Classifier) Classify(text string) domain.Assessment {
	if strings.TrimSpace(text) == "" {
		return domain.Assessment{Sentiment: 0, RiskLevel: domain.RiskLow}
	}

	sentiment := clamp(c.scorer.Score(text))
	res := domain.Assessment{Sentiment: sentiment, RiskLevel: RiskFromSentiment(sentiment)}
	if c.hasUrgency(text) {
		res.RiskLevel = domain.RiskCritical
	}
	return res
}

// RiskFromSentiment maps sentiment polarity to the baseline risk level
func RiskFromSentiment(sentiment float64) domain.RiskLevel {
	switch {
	case sentiment < criticalThreshold:
		return domain.RiskCritical
	case sentiment < mediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func (c *Classifier) hasUrgency(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range c.urgency {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

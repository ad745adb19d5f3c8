package sentiment

import (
	"strings"
	"unicode"

	"market-analyst/internal/types"
)

// Scorer assigns lexical polarity to headlines. It holds no mutable state
// after construction and is safe for concurrent use.
type Scorer struct {
	positive   map[string]float64
	negative   map[string]float64
	saturation int
}

// NewScorer builds a scorer whose confidence saturates at the given
// article count. Saturation below 1 falls back to 10.
func NewScorer(saturation int) *Scorer {
	if saturation < 1 {
		saturation = 10
	}
	return &Scorer{
		positive:   loadPositiveWords(),
		negative:   loadNegativeWords(),
		saturation: saturation,
	}
}

// ScoreHeadline returns the polarity of one title in [-1, 1]. A title
// with no lexicon hits is neutral.
func (s *Scorer) ScoreHeadline(title string) float64 {
	pos, neg := 0.0, 0.0
	for _, w := range tokenize(strings.ToLower(title)) {
		pos += s.positive[w]
		neg += s.negative[w]
	}
	if pos+neg == 0 {
		return 0
	}
	return clamp((pos-neg)/(pos+neg), -1, 1)
}

// Score aggregates a headline set into one signal. An empty set is a
// neutral signal with zero confidence, not an error.
func (s *Scorer) Score(headlines []types.Headline) *types.SentimentSignal {
	sig := &types.SentimentSignal{}
	if len(headlines) == 0 {
		return sig
	}
	sum := 0.0
	for _, h := range headlines {
		p := s.ScoreHeadline(h.Title)
		sum += p
		switch {
		case p > 0:
			sig.Positive++
		case p < 0:
			sig.Negative++
		}
	}
	sig.Articles = len(headlines)
	sig.Polarity = clamp(sum/float64(sig.Articles), -1, 1)
	sig.Confidence = min(1.0, float64(sig.Articles)/float64(s.saturation))
	return sig
}

func tokenize(text string) []string {
	var words []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

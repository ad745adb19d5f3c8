package sentiment

// Weighted headline lexicons in the spirit of the Loughran-McDonald
// financial word lists, extended with the verb forms news titles actually
// use. Words that mark violent single-day moves carry extra weight.

func loadPositiveWords() map[string]float64 {
	base := []string{
		"accelerate", "accelerates", "achieve", "beat", "beats", "benefit",
		"boost", "boosts", "bullish", "buy", "buyback", "climb", "climbed",
		"climbs", "deliver", "delivers", "exceeded", "exceeds", "expand",
		"expands", "favorable", "gain", "gained", "gains", "grew", "grow",
		"grows", "growth", "high", "improve", "improved", "improvement",
		"jump", "jumped", "jumps", "leader", "leading", "opportunity",
		"optimistic", "outperform", "outperforms", "positive", "profit",
		"profitable", "profits", "progress", "rallies", "rally", "rebound",
		"record", "rise", "rises", "robust", "rose", "solid", "strength",
		"strong", "succeed", "success", "successful", "top", "tops",
		"upbeat", "upgrade", "upgraded", "win", "wins",
	}
	strong := []string{
		"blowout", "breakout", "skyrocket", "skyrocketed", "skyrockets",
		"soar", "soared", "soars", "surge", "surged", "surges",
	}
	return weighted(base, strong)
}

func loadNegativeWords() map[string]float64 {
	base := []string{
		"bearish", "concern", "concerns", "cut", "cuts", "decline",
		"declined", "declines", "decrease", "deficit", "disappoint",
		"disappointing", "disappoints", "downgrade", "downgraded",
		"downturn", "drop", "dropped", "drops", "fail", "fails", "failure",
		"fall", "falling", "falls", "fear", "fears", "fell", "headwind",
		"headwinds", "lawsuit", "layoff", "layoffs", "loss", "losses",
		"low", "miss", "missed", "misses", "negative", "poor", "pressure",
		"probe", "problem", "problems", "recall", "recession", "risk",
		"risks", "sell", "selloff", "slide", "slides", "slip", "slips",
		"slow", "slowdown", "slump", "slumps", "struggle", "struggles",
		"underperform", "unfavorable", "volatile", "volatility", "warn",
		"warning", "warns", "weak", "weakness", "worse", "worst",
	}
	strong := []string{
		"collapse", "collapsed", "collapses", "crash", "crashed",
		"crashes", "plummet", "plummeted", "plummets", "plunge",
		"plunged", "plunges", "tumble", "tumbled", "tumbles",
	}
	return weighted(base, strong)
}

func weighted(base, strong []string) map[string]float64 {
	m := make(map[string]float64, len(base)+len(strong))
	for _, w := range base {
		m[w] = 1.0
	}
	for _, w := range strong {
		m[w] = 1.5
	}
	return m
}

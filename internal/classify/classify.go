// Package classify implements the deterministic lexical classifier for
// news text. It assigns a sentiment label and score, a confidence value,
// a market-impact score and tier, a category, and (for API-sourced items)
// a region — all from fixed keyword tables, with no I/O and no failure
// mode.
package classify

import (
	"math"
	"strings"

	"github.com/newsense-in/newsense/pkg/models"
)

// Result is the full sentiment classification of one piece of text.
type Result struct {
	Sentiment   string
	Score       float64 // in [-0.9, 0.9]
	Confidence  int     // in [60, 95]; 50 for empty input
	ImpactScore float64 // |Score| * 10, one decimal
	Impact      string
}

// positiveWords and negativeWords are matched by substring containment,
// so "up" also matches "upbeat". That looseness is intentional: the
// classifier trades precision for being fully deterministic and cheap.
var positiveWords = []string{
	"gain", "rise", "up", "positive", "growth", "profit", "bullish", "buy", "strong", "good",
	"surge", "rally", "boom", "increase", "advance", "recovery", "outperform", "beat",
	"upgraded", "optimistic", "expansion", "milestone", "breakthrough", "success",
}

var negativeWords = []string{
	"fall", "drop", "down", "negative", "loss", "bearish", "sell", "weak", "decline", "bad",
	"crash", "plunge", "slump", "recession", "crisis", "concern", "worry", "risk",
	"downgrade", "disappointing", "miss", "struggle", "challenge", "volatility",
}

// highImpactWords amplify the sentiment score when any of them appears.
// The multiplier is binary, so only the first hit matters.
var highImpactWords = []string{
	"rbi", "federal", "interest rate", "policy", "gdp", "inflation", "election",
	"war", "oil", "gold", "dollar", "rupee", "sensex", "nifty", "bankruptcy",
}

// categoryRules are evaluated in order against the lower-cased title;
// the first matching rule wins, and no rule matching falls through to
// Market News.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{models.CategoryMonetaryPolicy, []string{"rbi", "interest", "policy", "inflation"}},
	{models.CategoryIPO, []string{"ipo", "listing", "debut"}},
	{models.CategoryCommodities, []string{"oil", "gold", "commodity"}},
	{models.CategoryBanking, []string{"bank", "financial"}},
}

// indiaKeywords tag an API-sourced title as India-region news.
var indiaKeywords = []string{"india", "indian", "mumbai", "nse", "bse", "rupee", "rbi"}

// Score classifies the given text. Empty or whitespace-only input is a
// defined early exit: Neutral, score 0.0, confidence 50, impact Low.
func Score(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{
			Sentiment:  models.SentimentNeutral,
			Confidence: 50,
			Impact:     models.ImpactLow,
		}
	}

	lower := strings.ToLower(text)
	pos := countMatches(lower, positiveWords)
	neg := countMatches(lower, negativeWords)

	multiplier := 1.0
	for _, w := range highImpactWords {
		if strings.Contains(lower, w) {
			multiplier = 1.5
			break
		}
	}

	var sentiment string
	var score float64
	switch {
	case pos > neg:
		sentiment = models.SentimentPositive
		score = math.Min(0.9, float64(pos-neg)*0.3*multiplier)
	case neg > pos:
		sentiment = models.SentimentNegative
		score = -math.Min(0.9, float64(neg-pos)*0.3*multiplier)
	default:
		sentiment = models.SentimentNeutral
	}

	// Confidence depends only on how many sentiment terms matched in
	// total, not on which side dominates.
	confidence := (pos+neg)*15 + 50
	if confidence < 60 {
		confidence = 60
	}
	if confidence > 95 {
		confidence = 95
	}

	impactScore := math.Round(math.Abs(score)*10*10) / 10
	impact := models.ImpactLow
	switch {
	case impactScore >= 7:
		impact = models.ImpactHigh
	case impactScore >= 4:
		impact = models.ImpactMedium
	}

	return Result{
		Sentiment:   sentiment,
		Score:       score,
		Confidence:  confidence,
		ImpactScore: impactScore,
		Impact:      impact,
	}
}

// Categorize assigns a category from the title. Rules are checked in a
// fixed order; a title matching none of them is Market News.
func Categorize(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return models.CategoryMarketNews
}

// RegionFromTitle derives a region from the title for API-sourced items.
// Feed-sourced items carry their source's static region instead.
func RegionFromTitle(title string) string {
	lower := strings.ToLower(title)
	for _, kw := range indiaKeywords {
		if strings.Contains(lower, kw) {
			return models.RegionIndia
		}
	}
	return models.RegionGlobal
}

// countMatches counts how many of the given terms appear in text.
// Each term counts at most once regardless of how often it repeats.
func countMatches(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

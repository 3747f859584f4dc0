package ingest

import (
	"strings"

	"github.com/newsense-in/newsense/pkg/models"
)

// SourceKind distinguishes RSS feed sources from the JSON API source.
type SourceKind string

const (
	KindFeed SourceKind = "rss"
	KindAPI  SourceKind = "api"
)

// Source describes one configured news origin. The set is loaded once at
// process start and never mutated.
type Source struct {
	Name   string
	Kind   SourceKind
	URL    string
	Region string
	Params map[string]string // API sources only
}

// DefaultSources lists the configured news origins: three market RSS
// feeds and the Marketaux news API.
var DefaultSources = []Source{
	{
		Name:   "economic_times",
		Kind:   KindFeed,
		URL:    "https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms",
		Region: models.RegionIndia,
	},
	{
		Name:   "business_standard",
		Kind:   KindFeed,
		URL:    "https://www.business-standard.com/rss/markets-106.rss",
		Region: models.RegionIndia,
	},
	{
		Name:   "reuters_business",
		Kind:   KindFeed,
		URL:    "https://feeds.reuters.com/reuters/businessNews",
		Region: models.RegionGlobal,
	},
	{
		Name:   "marketaux",
		Kind:   KindAPI,
		URL:    "https://api.marketaux.com/v1/news/all",
		Region: models.RegionMixed,
		Params: map[string]string{
			"api_token": "DEMO",
			"symbols":   "NIFTY,SENSEX,RELIANCE.BSE,INFY.BSE",
			"limit":     "20",
			"language":  "en",
		},
	},
}

// DisplayName converts a source identifier into the display form used as
// the article's source: underscores become spaces and each word is
// capitalised, so "economic_times" becomes "Economic Times".
func DisplayName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

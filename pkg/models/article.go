// Package models defines the shared data types persisted and served by
// NewSense.
package models

import "time"

// Sentiment labels assigned by the classifier.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Market impact tiers derived from the sentiment score magnitude.
const (
	ImpactLow    = "Low"
	ImpactMedium = "Medium"
	ImpactHigh   = "High"
)

// Article categories (closed set).
const (
	CategoryMarketNews     = "Market News"
	CategoryMonetaryPolicy = "Monetary Policy"
	CategoryIPO            = "IPO"
	CategoryCommodities    = "Commodities"
	CategoryBanking        = "Banking"
)

// Regions an article can be tagged with.
const (
	RegionIndia   = "India"
	RegionGlobal  = "Global"
	RegionMixed   = "Mixed"
	RegionUnknown = "Unknown"
)

// Article is one classified news item. The (Title, Source) pair is unique
// in the store; a repeated insert is silently skipped, so articles are
// effectively append-only and read-only once persisted.
type Article struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"not null;uniqueIndex:idx_articles_title_source" json:"title"`
	Summary        string    `json:"summary"`
	Source         string    `gorm:"uniqueIndex:idx_articles_title_source" json:"source"`
	Category       string    `json:"category"`
	Region         string    `json:"region"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	Confidence     int       `json:"confidence"`
	MarketImpact   string    `json:"market_impact"`
	ImpactScore    float64   `json:"impact_score"`
	Timestamp      time.Time `json:"timestamp"` // ingestion time, stored as UTC
	URL            string    `json:"url"`
	Content        string    `json:"content"`
}

// TableName fixes the table name used by the store.
func (Article) TableName() string { return "news_articles" }

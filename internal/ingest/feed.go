package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/newsense-in/newsense/internal/classify"
	"github.com/newsense-in/newsense/pkg/models"
)

// FeedFetcher retrieves and canonicalizes RSS feed sources.
type FeedFetcher struct {
	parser *gofeed.Parser
	limit  int
	clock  func() time.Time
	log    *slog.Logger
}

// NewFeedFetcher creates a feed fetcher that keeps at most limit entries
// per source. The clock supplies the ingestion timestamp.
func NewFeedFetcher(client *http.Client, limit int, clock func() time.Time, log *slog.Logger) *FeedFetcher {
	p := gofeed.NewParser()
	p.Client = client
	p.UserAgent = userAgent
	if limit <= 0 {
		limit = 10
	}
	return &FeedFetcher{
		parser: p,
		limit:  limit,
		clock:  clock,
		log:    log,
	}
}

// Fetch parses one feed source and returns up to the per-source cap of
// classified articles. A retrieval or parse failure is returned as an
// error; the sweep absorbs it so other sources still run. Entries with
// an empty title are kept — the classifier tolerates empty text.
func (f *FeedFetcher) Fetch(ctx context.Context, src Source) ([]models.Article, error) {
	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.Name, err)
	}

	items := feed.Items
	if len(items) > f.limit {
		items = items[:f.limit]
	}

	articles := make([]models.Article, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		summary = truncate(stripTags(summary))

		res := classify.Score(title + " " + summary)
		articles = append(articles, models.Article{
			Title:          title,
			Summary:        summary,
			Source:         DisplayName(src.Name),
			Category:       classify.Categorize(title),
			Region:         src.Region,
			Sentiment:      res.Sentiment,
			SentimentScore: res.Score,
			Confidence:     res.Confidence,
			MarketImpact:   res.Impact,
			ImpactScore:    res.ImpactScore,
			Timestamp:      f.clock().UTC(),
			URL:            item.Link,
			Content:        summary,
		})
	}

	f.log.Debug("feed fetched", "source", src.Name, "articles", len(articles))
	return articles, nil
}

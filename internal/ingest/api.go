package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newsense-in/newsense/internal/classify"
	"github.com/newsense-in/newsense/pkg/models"
)

// APIFetcher retrieves news from the Marketaux-style JSON API source.
// The API token and result cap from the source descriptor can be
// overridden at construction time from runtime configuration.
type APIFetcher struct {
	client *http.Client
	token  string
	limit  int
	clock  func() time.Time
	log    *slog.Logger
}

// NewAPIFetcher creates an API fetcher. Empty token or non-positive
// limit fall back to the source descriptor's own params.
func NewAPIFetcher(client *http.Client, token string, limit int, clock func() time.Time, log *slog.Logger) *APIFetcher {
	return &APIFetcher{
		client: client,
		token:  token,
		limit:  limit,
		clock:  clock,
		log:    log,
	}
}

// apiEnvelope is the expected payload shape: a top-level "data" list.
type apiEnvelope struct {
	Data []apiItem `json:"data"`
}

type apiItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	URL         string `json:"url"`
}

// Fetch issues one GET against the API source and returns up to the
// configured cap of classified articles. Items with an empty title are
// skipped. Non-200 responses, malformed JSON, and a missing "data" list
// are returned as errors; the sweep absorbs them.
func (f *APIFetcher) Fetch(ctx context.Context, src Source) ([]models.Article, error) {
	limit := f.limit
	if limit <= 0 {
		limit = 20
		if v, err := strconv.Atoi(src.Params["limit"]); err == nil && v > 0 {
			limit = v
		}
	}

	q := url.Values{}
	for k, v := range src.Params {
		q.Set(k, v)
	}
	if f.token != "" {
		q.Set("api_token", f.token)
	}
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", src.Name, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", src.Name, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%s returned unexpected payload: no data list", src.Name)
	}

	items := envelope.Data
	if len(items) > limit {
		items = items[:limit]
	}

	articles := make([]models.Article, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		// The classifier sees the full description; the stored summary
		// is the truncated form.
		res := classify.Score(title + " " + item.Description)
		source := item.Source
		if source == "" {
			source = "MarketAux"
		}
		articles = append(articles, models.Article{
			Title:          title,
			Summary:        truncate(item.Description),
			Source:         source,
			Category:       classify.Categorize(title),
			Region:         classify.RegionFromTitle(title),
			Sentiment:      res.Sentiment,
			SentimentScore: res.Score,
			Confidence:     res.Confidence,
			MarketImpact:   res.Impact,
			ImpactScore:    res.ImpactScore,
			Timestamp:      f.clock().UTC(),
			URL:            item.URL,
			Content:        item.Description,
		})
	}

	f.log.Debug("api fetched", "source", src.Name, "articles", len(articles))
	return articles, nil
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/newsense-in/newsense/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testArticle(title, source, region, category string, ts time.Time) models.Article {
	return models.Article{
		Title:        title,
		Summary:      "summary of " + title,
		Source:       source,
		Category:     category,
		Region:       region,
		Sentiment:    models.SentimentNeutral,
		Confidence:   60,
		MarketImpact: models.ImpactLow,
		Timestamp:    ts,
	}
}

func TestPutManyIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	a := testArticle("RBI holds rates", "Economic Times", models.RegionIndia, models.CategoryMonetaryPolicy, ts)

	inserted, skipped, err := s.PutMany(ctx, []models.Article{a})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
	require.Equal(t, 0, skipped)

	inserted, skipped, err = s.PutMany(ctx, []models.Article{a})
	require.NoError(t, err)
	require.Equal(t, 0, inserted)
	require.Equal(t, 1, skipped)

	got, err := s.Query(ctx, 10, "", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestPutManySameTitleDifferentSource(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	inserted, _, err := s.PutMany(ctx, []models.Article{
		testArticle("Markets rally", "Economic Times", models.RegionIndia, models.CategoryMarketNews, ts),
		testArticle("Markets rally", "Reuters Business", models.RegionGlobal, models.CategoryMarketNews, ts),
	})
	require.NoError(t, err)
	require.Equal(t, 2, inserted) // dedup key is (title, source), not title alone
}

func TestPutManyEmpty(t *testing.T) {
	s := openTestStore(t)
	inserted, skipped, err := s.PutMany(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, inserted)
	require.Zero(t, skipped)
}

func TestQueryFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_, _, err := s.PutMany(ctx, []models.Article{
		testArticle("india one", "A", models.RegionIndia, models.CategoryMarketNews, base),
		testArticle("global one", "A", models.RegionGlobal, models.CategoryBanking, base.Add(time.Hour)),
		testArticle("india two", "A", models.RegionIndia, models.CategoryBanking, base.Add(2*time.Hour)),
	})
	require.NoError(t, err)

	india, err := s.Query(ctx, 10, models.RegionIndia, "")
	require.NoError(t, err)
	require.Len(t, india, 2)
	require.Equal(t, "india two", india[0].Title) // newest first
	require.Equal(t, "india one", india[1].Title)

	banking, err := s.Query(ctx, 10, "", models.CategoryBanking)
	require.NoError(t, err)
	require.Len(t, banking, 2)

	both, err := s.Query(ctx, 10, models.RegionIndia, models.CategoryBanking)
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, "india two", both[0].Title)

	// "all" is a sentinel for no filter.
	all, err := s.Query(ctx, 10, FilterAll, FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestQueryLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	var batch []models.Article
	for i := 0; i < 5; i++ {
		batch = append(batch, testArticle(
			"article "+string(rune('a'+i)), "A",
			models.RegionIndia, models.CategoryMarketNews,
			base.Add(time.Duration(i)*time.Minute),
		))
	}
	_, _, err := s.PutMany(ctx, batch)
	require.NoError(t, err)

	one, err := s.Query(ctx, 1, "", "")
	require.NoError(t, err)
	require.Len(t, one, 1)
	require.Equal(t, "article e", one[0].Title) // the most recent

	// Limits below 1 clamp to 1 instead of erroring.
	clamped, err := s.Query(ctx, 0, "", "")
	require.NoError(t, err)
	require.Len(t, clamped, 1)

	clamped, err = s.Query(ctx, -5, "", "")
	require.NoError(t, err)
	require.Len(t, clamped, 1)
}

func TestQueryTieBreakByInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_, _, err := s.PutMany(ctx, []models.Article{
		testArticle("first inserted", "A", models.RegionIndia, models.CategoryMarketNews, ts),
		testArticle("second inserted", "A", models.RegionIndia, models.CategoryMarketNews, ts),
	})
	require.NoError(t, err)

	got, err := s.Query(ctx, 10, "", "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "second inserted", got[0].Title) // newest insert wins the tie
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, _, err = s.PutMany(ctx, []models.Article{
		testArticle("durable", "A", models.RegionIndia, models.CategoryMarketNews, time.Now().UTC()),
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

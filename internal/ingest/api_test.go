package ingest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newsense-in/newsense/pkg/models"
)

func apiSource(url string) Source {
	return Source{
		Name:   "marketaux",
		Kind:   KindAPI,
		URL:    url,
		Region: models.RegionMixed,
		Params: map[string]string{
			"api_token": "DEMO",
			"symbols":   "NIFTY,SENSEX",
			"limit":     "20",
			"language":  "en",
		},
	}
}

func TestAPIFetch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data": [
			{"title": "India GDP growth beats estimates", "description": "Strong expansion reported.", "source": "Wire Desk", "url": "https://example.com/a"},
			{"title": "   ", "description": "no title, should be skipped", "url": "https://example.com/b"},
			{"title": "Oil prices slump on demand worry", "description": "", "url": "https://example.com/c"}
		]}`)
	}))
	defer srv.Close()

	f := NewAPIFetcher(srv.Client(), "real-token", 10, testClock, testLogger())
	articles, err := f.Fetch(context.Background(), apiSource(srv.URL))
	require.NoError(t, err)

	// Configured token and limit override the descriptor's params.
	require.Equal(t, "real-token", gotQuery["api_token"])
	require.Equal(t, "10", gotQuery["limit"])
	require.Equal(t, "en", gotQuery["language"])

	// The empty-title item is dropped.
	require.Len(t, articles, 2)

	first := articles[0]
	require.Equal(t, "India GDP growth beats estimates", first.Title)
	require.Equal(t, "Wire Desk", first.Source)
	require.Equal(t, models.RegionIndia, first.Region) // derived from title
	require.Equal(t, models.SentimentPositive, first.Sentiment)
	require.Equal(t, testClock(), first.Timestamp)

	second := articles[1]
	require.Equal(t, "MarketAux", second.Source) // fallback source name
	require.Equal(t, models.RegionGlobal, second.Region)
	require.Equal(t, models.CategoryCommodities, second.Category)
	require.Equal(t, models.SentimentNegative, second.Sentiment)
}

func TestAPIFetchCapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": [
			{"title": "one", "description": ""},
			{"title": "two", "description": ""},
			{"title": "three", "description": ""}
		]}`)
	}))
	defer srv.Close()

	f := NewAPIFetcher(srv.Client(), "", 2, testClock, testLogger())
	articles, err := f.Fetch(context.Background(), apiSource(srv.URL))
	require.NoError(t, err)
	require.Len(t, articles, 2)
}

func TestAPIFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewAPIFetcher(srv.Client(), "", 0, testClock, testLogger())
	_, err := f.Fetch(context.Background(), apiSource(srv.URL))
	require.Error(t, err)

	var httpErr *ErrHTTP
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestAPIFetchBadPayload(t *testing.T) {
	for _, body := range []string{"not json", `{"meta": {}}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		}))

		f := NewAPIFetcher(srv.Client(), "", 0, testClock, testLogger())
		_, err := f.Fetch(context.Background(), apiSource(srv.URL))
		require.Error(t, err, "body: %s", body)
		srv.Close()
	}
}

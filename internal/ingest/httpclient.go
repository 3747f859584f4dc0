package ingest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrHTTP wraps a non-success HTTP response from an upstream source.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// retryTransport retries GET requests with exponential backoff. Other
// methods pass through untouched; the fetchers only issue GETs, so this
// keeps the retry policy restricted to idempotent requests.
type retryTransport struct {
	base     http.RoundTripper
	attempts uint64
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}

	op := func() (*http.Response, error) {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("upstream %s: %s", req.URL.Host, resp.Status)
		}
		return resp, nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), t.attempts-1),
		req.Context(),
	)
	return backoff.RetryWithData(op, bo)
}

// NewHTTPClient returns the shared client used by both fetchers: a 30s
// request timeout and up to 3 attempts with exponential backoff on
// transport errors and 5xx responses. The timeout covers all attempts,
// so one flaky upstream cannot stall a sweep past it.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &retryTransport{
			base:     http.DefaultTransport,
			attempts: 3,
		},
	}
}

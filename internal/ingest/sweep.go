package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/newsense-in/newsense/pkg/models"
)

// ArticleStore is the write interface the sweep needs from the store.
type ArticleStore interface {
	PutMany(ctx context.Context, articles []models.Article) (inserted, skipped int, err error)
}

// Sweeper runs one full pass over all configured sources and persists
// whatever they yield.
type Sweeper struct {
	sources  []Source
	feeds    *FeedFetcher
	api      *APIFetcher
	store    ArticleStore
	limiter  *RateLimiter
	parallel int
	log      *slog.Logger
}

// NewSweeper wires the fetchers and store into a Sweeper. parallel
// bounds concurrent feed fetches; values below 1 mean sequential.
func NewSweeper(sources []Source, feeds *FeedFetcher, api *APIFetcher, store ArticleStore, parallel int, log *slog.Logger) *Sweeper {
	if parallel < 1 {
		parallel = 1
	}
	return &Sweeper{
		sources:  sources,
		feeds:    feeds,
		api:      api,
		store:    store,
		limiter:  NewRateLimiter(2, time.Second), // polite to upstreams
		parallel: parallel,
		log:      log,
	}
}

// Run performs one full sweep. Per-source fetch failures are logged and
// absorbed so one broken upstream never blocks the rest; a store failure
// ends the sweep with an error. Returns the number of newly inserted
// articles.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	var (
		mu  sync.Mutex
		all []models.Article
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for _, src := range s.sources {
		if src.Kind != KindFeed {
			continue
		}
		src := src
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			articles, err := s.feeds.Fetch(gctx, src)
			if err != nil {
				s.log.Warn("feed fetch failed", "source", src.Name, "error", err)
				return nil
			}
			mu.Lock()
			all = append(all, articles...)
			mu.Unlock()
			return nil
		})
	}
	// Only context cancellation surfaces here; fetch errors are absorbed
	// per source above.
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, src := range s.sources {
		if src.Kind != KindAPI {
			continue
		}
		articles, err := s.api.Fetch(ctx, src)
		if err != nil {
			s.log.Warn("api fetch failed", "source", src.Name, "error", err)
			continue
		}
		all = append(all, articles...)
	}

	if len(all) == 0 {
		s.log.Warn("sweep produced no articles")
		return 0, nil
	}

	inserted, skipped, err := s.store.PutMany(ctx, all)
	if err != nil {
		return 0, fmt.Errorf("persist articles: %w", err)
	}

	s.log.Info("sweep complete", "fetched", len(all), "inserted", inserted, "skipped", skipped)
	return inserted, nil
}

// Package sched runs the recurring ingestion sweep. It owns the single
// invariant that matters here: at most one sweep is in flight at any
// time, across both the timer and manual triggers.
package sched

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSweepInFlight is returned when a sweep is requested while one is
// already running.
var ErrSweepInFlight = errors.New("sweep already in flight")

// SweepFunc performs one full ingestion sweep and returns the number of
// newly inserted articles.
type SweepFunc func(ctx context.Context) (int, error)

// Stats reports the outcome of the most recent sweep.
type Stats struct {
	LastRun      time.Time
	LastInserted int
	LastErr      error
}

// Scheduler triggers sweeps on a fixed cadence. A failed or panicking
// sweep is logged and contained; the loop always continues to the next
// scheduled run.
type Scheduler struct {
	sweep    SweepFunc
	interval time.Duration
	log      *slog.Logger

	running  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu    sync.Mutex
	stats Stats
}

// New creates a scheduler that runs sweep every interval.
func New(sweep SweepFunc, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		sweep:    sweep,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the scheduling loop in the background. The first sweep
// runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	s.runLogged(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *Scheduler) runLogged(ctx context.Context) {
	n, err := s.Trigger(ctx)
	switch {
	case errors.Is(err, ErrSweepInFlight):
		s.log.Info("scheduled sweep skipped, one already running")
	case err != nil:
		s.log.Error("sweep failed", "error", err)
	default:
		s.log.Info("scheduled sweep done", "inserted", n)
	}
}

// Trigger runs one sweep if none is in flight, returning the number of
// newly inserted articles. A concurrent request yields ErrSweepInFlight
// instead of a second sweep.
func (s *Scheduler) Trigger(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, ErrSweepInFlight
	}
	defer s.running.Store(false)

	n, err := s.runOnce(ctx)

	s.mu.Lock()
	s.stats = Stats{LastRun: time.Now().UTC(), LastInserted: n, LastErr: err}
	s.mu.Unlock()

	return n, err
}

// runOnce is the sweep panic boundary.
func (s *Scheduler) runOnce(ctx context.Context) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panic: %v", r)
		}
	}()
	return s.sweep(ctx)
}

// LastSweep reports the most recent sweep outcome. The zero Stats value
// means no sweep has completed yet.
func (s *Scheduler) LastSweep() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Stop ends the scheduling loop and waits for it to exit. A sweep in
// flight is not interrupted. Only valid after Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

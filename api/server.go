// Package api provides the HTTP API server for NewSense.
//
// It exposes the stored articles as JSON, a manual sweep trigger, and a
// health endpoint reporting the last sweep outcome.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata" // IST rendering must not depend on the host tz database

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/newsense-in/newsense/internal/config"
	"github.com/newsense-in/newsense/internal/sched"
	"github.com/newsense-in/newsense/pkg/models"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 200
)

// Querier is the read interface the server needs from the store.
type Querier interface {
	Query(ctx context.Context, limit int, region, category string) ([]models.Article, error)
}

// Trigger starts a sweep on demand and reports the last sweep outcome.
// The scheduler's single-flight gate applies to manual triggers too.
type Trigger interface {
	Trigger(ctx context.Context) (int, error)
	LastSweep() sched.Stats
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	store  Querier
	sched  Trigger
	log    *slog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, store Querier, trigger Trigger, log *slog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		sched: trigger,
		log:   log,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown on
// SIGINT/SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}

	s.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/news", s.handleNews)
	r.Get("/manual-fetch", s.handleManualFetch)
	r.Post("/manual-fetch", s.handleManualFetch)

	return r
}

// --- Timestamp display ---

// istZone is the display zone for article timestamps. Falls back to UTC
// when the timezone database is unavailable.
var istZone = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// articleJSON renders an Article with the timestamp formatted in IST,
// shadowing the embedded time field.
type articleJSON struct {
	models.Article
	Timestamp string `json:"timestamp"`
}

func toArticleJSON(articles []models.Article) []articleJSON {
	out := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleJSON{
			Article:   a,
			Timestamp: a.Timestamp.In(istZone).Format("2006-01-02 15:04:05 -0700"),
		})
	}
	return out
}

// --- Handlers ---

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	region := r.URL.Query().Get("region")
	category := r.URL.Query().Get("category")

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	articles, err := s.store.Query(ctx, limit, region, category)
	if err != nil {
		s.log.Error("news query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, toArticleJSON(articles))
}

func (s *Server) handleManualFetch(w http.ResponseWriter, r *http.Request) {
	n, err := s.sched.Trigger(r.Context())
	switch {
	case errors.Is(err, sched.ErrSweepInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{
			"message": "a fetch is already running",
			"status":  "busy",
		})
	case err != nil:
		s.log.Error("manual fetch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  err.Error(),
			"status": "failed",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Fetched %d new articles", n),
			"status":  "success",
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
	}
	stats := s.sched.LastSweep()
	if !stats.LastRun.IsZero() {
		resp["last_sweep_at"] = stats.LastRun.UTC().Format(time.RFC3339)
		resp["last_inserted"] = stats.LastInserted
		if stats.LastErr != nil {
			resp["last_error"] = stats.LastErr.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

// parseLimit parses the limit query param, defaulting to 50 and capping
// at 200. Garbage and non-positive values fall back to the default.
func parseLimit(raw string) int {
	if raw == "" {
		return defaultQueryLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultQueryLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

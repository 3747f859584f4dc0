// NewSense — Indian financial market news sentiment tracker.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/newsense-in/newsense/api"
	"github.com/newsense-in/newsense/internal/config"
	"github.com/newsense-in/newsense/internal/ingest"
	"github.com/newsense-in/newsense/internal/logging"
	"github.com/newsense-in/newsense/internal/sched"
	"github.com/newsense-in/newsense/internal/store"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newsense",
	Short: "NewSense — financial news sentiment tracker",
	Long: `NewSense ingests Indian and global financial news from RSS feeds and
the Marketaux API, classifies each article with a deterministic lexical
sentiment model, and serves the deduplicated results over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("NewSense %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ingestion scheduler and HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(cfg.Logging)

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		sweeper := newSweeper(cfg, st, log)
		scheduler := sched.New(sweeper.Run, cfg.Sweep.Interval, log.With("component", "sched"))

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		scheduler.Start(ctx)
		defer scheduler.Stop()

		srv := api.NewServer(cfg, st, scheduler, log.With("component", "api"))
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		log.Info("starting server", "addr", addr, "db", cfg.Store.Path, "interval", cfg.Sweep.Interval)
		return srv.ListenAndServe(addr)
	},
}

// --- Sweep Command ---

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single ingestion sweep and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(cfg.Logging)

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := newSweeper(cfg, st, log).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Inserted %d new articles\n", n)
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.Count(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Store:    %s (%d articles)\n", cfg.Store.Path, n)
		fmt.Printf("Sweep:    every %s\n", cfg.Sweep.Interval)
		for _, key := range config.CheckAPIKeys(cfg) {
			state := "not set (demo token in use)"
			if key.IsSet {
				state = fmt.Sprintf("%s (from %s)", key.Masked, key.Source)
			}
			fmt.Printf("%s: %s\n", key.Name, state)
		}
		return nil
	},
}

// newSweeper wires the fetchers and store into a Sweeper from config.
func newSweeper(cfg *config.Config, st *store.Store, log *slog.Logger) *ingest.Sweeper {
	client := ingest.NewHTTPClient()
	feeds := ingest.NewFeedFetcher(client, cfg.Sweep.FeedLimit, time.Now, log.With("component", "feeds"))
	apiFetcher := ingest.NewAPIFetcher(client, cfg.Marketaux.Token, cfg.Marketaux.Limit, time.Now, log.With("component", "marketaux"))
	return ingest.NewSweeper(ingest.DefaultSources, feeds, apiFetcher, st, cfg.Sweep.SourceParallel, log.With("component", "sweep"))
}

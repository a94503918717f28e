package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumetv/lume/internal/cache"
	"github.com/lumetv/lume/internal/catalog"
	"github.com/lumetv/lume/internal/cdn"
	"github.com/lumetv/lume/internal/config"
	"github.com/lumetv/lume/internal/domain"
	"github.com/lumetv/lume/internal/log"
	"github.com/lumetv/lume/internal/player"
	"github.com/lumetv/lume/internal/remote"
	"github.com/lumetv/lume/internal/retry"
	"github.com/lumetv/lume/internal/search"
	"github.com/lumetv/lume/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("lume %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting lume", "version", Version)

	client := remote.NewClient(cfg.Catalog.URL, logger)

	var collectionCache *cache.CollectionCache
	if cfg.Cache.Enabled {
		collectionCache = cache.New(cache.Options{
			MaxItems:        cfg.Cache.MaxItems,
			TTL:             cfg.Cache.TTL(),
			AutoCleanup:     cfg.Cache.AutoCleanup,
			CleanupInterval: cfg.Cache.CleanupInterval(),
		}, logger)
		defer collectionCache.Destroy()
	}

	backoff := retry.BackoffConfig{
		MaxRetries:        cfg.Retry.MaxRetries,
		InitialDelay:      cfg.Retry.InitialDelay(),
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
	}

	orch := catalog.New(client, collectionCache, backoff, logger)
	session := catalog.NewSession(orch, logger)

	// Warm the cache for every base category before the UI asks.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		queries := make([]domain.CollectionQuery, 0, len(domain.BaseCategories()))
		for _, category := range domain.BaseCategories() {
			queries = append(queries, domain.CollectionQuery{
				Tags:  []string{category},
				Limit: cfg.Catalog.PageSize,
			})
		}
		orch.Prefetch(ctx, queries)
	}()

	launcher := player.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)
	searchSvc := search.NewService(logger)

	cdnURL := cfg.Catalog.CDNURL
	if cdnURL == "" {
		cdnURL = cdn.DefaultBaseURL
	}

	model := tui.New(session, client, searchSvc, launcher, cdnURL, cfg.Catalog.PageSize, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

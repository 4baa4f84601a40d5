package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"MarketLens/internal/api"
	"MarketLens/internal/catalog"
	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/logger"
	"MarketLens/internal/markethours"
	"MarketLens/internal/metrics"
	"MarketLens/internal/recorder"
	"MarketLens/internal/scheduler"
	"MarketLens/internal/watchlist"
)

func main() {
	// .env is optional
	_ = godotenv.Load(".env")

	// Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	logger.Init("marketlens", cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Msg("MarketLens starting...")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	clock := markethours.NewClock(cfg.Markets)

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.Provider.Name {
	case "mock":
		fetcher = &collector.MockFetcher{Price: cfg.Provider.MockPrice}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Provider.BaseURL, cfg.Provider.UserAgent, cfg.Provider.Proxy)
	}
	log.Info().Str("provider", fetcher.Name()).Dur("timeout", cfg.Provider.Timeout).Msg("data source ready")

	// Init collector
	col := collector.NewCollector(fetcher, clock, collector.Options{
		Timeout:         cfg.Provider.Timeout,
		HistoryDays:     cfg.Analysis.HistoryDays,
		Indices:         cfg.IndexInstruments(),
		TrendingSymbols: cfg.Trending.Symbols,
		TrendingLimit:   cfg.Trending.Limit,
		Metrics:         m,
	})
	ranker := catalog.NewRanker(catalog.SearchUniverse(), col, cfg.Search.MaxResults)

	// Init watchlist store
	store, err := openWatchlist(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Watchlist.Backend).Msg("init watchlist store")
	}
	defer store.Close()

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Recorder.SQLitePath != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.Recorder.SQLitePath), 0o755)
		sr, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	// Init scheduler
	sched := scheduler.NewScheduler(clock, rec, m)
	if err := sched.RegisterAll(cfg.Schedule.SessionCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	srv := api.NewServer(col, ranker, clock, store, api.Options{
		Companies:      catalog.Companies,
		IndexFile:      cfg.Server.IndexFile,
		StreamInterval: cfg.Stream.Interval,
		Metrics:        m,
	})
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("MarketLens is listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server failed")
	}

	srv.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("MarketLens stopped")
}

func openWatchlist(ctx context.Context, cfg *config.Config) (watchlist.Store, error) {
	switch cfg.Watchlist.Backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Watchlist.SQLitePath), 0o755); err != nil {
			return nil, err
		}
		return watchlist.NewSQLiteStore(cfg.Watchlist.SQLitePath)
	case "redis":
		return watchlist.NewRedisStore(ctx, cfg.Watchlist.RedisAddr, cfg.Watchlist.RedisPassword, cfg.Watchlist.RedisDB)
	default:
		return watchlist.NewMemoryStore(), nil
	}
}

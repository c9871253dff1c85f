package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	pkgconfig "github.com/courtsidedata/nba-odds-scraper/internal/pkg/config"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/health"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/logging"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/notify"
	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/storage"
	"github.com/courtsidedata/nba-odds-scraper/internal/scraper"
)

const (
	defaultConfigPath = "configs/production.yaml"
)

type config struct {
	configPath string
	runFor     time.Duration
	seasons    string // Override scraper.seasons from config (comma-separated labels)
	noResume   bool
	maxPages   int
}

func main() {
	if err := run(); err != nil {
		slog.Error("Scraper failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.Info("Starting scraper...")

	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetupLogger(&appConfig.Logging, "scraper")
	slog.Info("Config loaded successfully")

	applyOverrides(appConfig, cfg)

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	if appConfig.Health.Port > 0 {
		health.Run(ctx, health.AddrFor(appConfig.Health.Port), "scraper", appConfig.Health.ReadHeaderTimeout)
	}

	sinks, pg, err := buildSinks(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		for _, sink := range sinks {
			if err := sink.Close(); err != nil {
				slog.Warn("Failed to close sink", "sink", sink.Name(), "error", err)
			}
		}
	}()

	var notifier *notify.TelegramNotifier
	if appConfig.Telegram.Enabled {
		notifier = notify.NewTelegramNotifier(appConfig.Telegram.Token, appConfig.Telegram.ChatID)
	}

	fetcher := scraper.NewFetcher(&appConfig.Scraper)
	defer fetcher.Close()

	s, err := scraper.New(scraper.Options{
		Config:   &appConfig.Scraper,
		Fetcher:  fetcher,
		Sinks:    sinks,
		Postgres: pg,
		Notifier: notifier,
	})
	if err != nil {
		return err
	}

	_, err = s.Run(ctx)
	if err != nil {
		return err
	}

	if pg != nil {
		countCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if total, err := pg.GameCount(countCtx, ""); err == nil {
			slog.Info("Games stored", "total", total)
		}
	}

	slog.Info("Scraper stopped gracefully")
	return nil
}

func parseFlags() config {
	var cfg config

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10m, 2h). 0 = run until completion or SIGINT/SIGTERM")
	flag.StringVar(&cfg.seasons, "seasons", "", "Override scraper.seasons: comma-separated season labels (e.g. '2023-2024,2024-2025'). Empty = use config")
	flag.BoolVar(&cfg.noResume, "no-resume", false, "Ignore checkpoints and stored results, scrape from scratch")
	flag.IntVar(&cfg.maxPages, "max-pages", 0, "Override scraper.max_pages: stop each season after N pages. 0 = use config")
	flag.Parse()
	return cfg
}

func applyOverrides(appConfig *pkgconfig.Config, cfg config) {
	if cfg.noResume {
		appConfig.Scraper.Resume = false
	}
	if cfg.maxPages > 0 {
		appConfig.Scraper.MaxPages = cfg.maxPages
	}
	if cfg.seasons == "" {
		return
	}

	wanted := make(map[string]bool)
	for _, label := range strings.Split(cfg.seasons, ",") {
		if l := strings.TrimSpace(label); l != "" {
			wanted[l] = true
		}
	}

	var selected []pkgconfig.SeasonConfig
	for _, season := range appConfig.Scraper.Seasons {
		if wanted[season.Label] {
			selected = append(selected, season)
			delete(wanted, season.Label)
		}
	}
	if len(wanted) > 0 {
		for label := range wanted {
			slog.Warn("Requested season not present in config, skipping", "season", label)
		}
	}
	if len(selected) > 0 {
		appConfig.Scraper.Seasons = selected
	}
}

func buildSinks(appConfig *pkgconfig.Config) ([]storage.Store, *storage.PostgresStore, error) {
	var sinks []storage.Store
	var pg *storage.PostgresStore

	if appConfig.Scraper.Output == pkgconfig.OutputCSV || appConfig.Scraper.Output == pkgconfig.OutputBoth {
		csv, err := storage.NewCSVStore(appConfig.Scraper.CSVDir, "nba_games")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create csv store: %w", err)
		}
		slog.Info("CSV output enabled", "path", csv.Path())
		sinks = append(sinks, csv)
	}

	if appConfig.Scraper.Output == pkgconfig.OutputPostgres || appConfig.Scraper.Output == pkgconfig.OutputBoth {
		var err error
		pg, err = storage.NewPostgresStore(appConfig.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		slog.Info("Postgres output enabled")
		sinks = append(sinks, pg)
	}

	return sinks, pg, nil
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping scraper...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}

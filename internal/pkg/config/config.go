package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Postgres PostgresConfig `yaml:"postgres"`
	Health   HealthConfig   `yaml:"health"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Output modes for scraped batches.
const (
	OutputCSV      = "csv"
	OutputPostgres = "postgres"
	OutputBoth     = "both"
)

type ScraperConfig struct {
	Name            string         `yaml:"name"`     // scraper name recorded in scrape_runs
	BaseURL         string         `yaml:"base_url"` // season URLs are relative to this
	Seasons         []SeasonConfig `yaml:"seasons"`
	Output          string         `yaml:"output"` // csv, postgres, or both
	CSVDir          string         `yaml:"csv_dir"`
	CheckpointDir   string         `yaml:"checkpoint_dir"`
	Resume          bool           `yaml:"resume"`
	MaxPages        int            `yaml:"max_pages"` // 0 = no ceiling
	ParallelSeasons bool           `yaml:"parallel_seasons"`

	Browser      bool   `yaml:"browser"`       // use headless Chrome instead of plain HTTP
	WaitSelector string `yaml:"wait_selector"` // browser mode: element that signals render completion
	UserAgent    string `yaml:"user_agent"`

	Timeout        time.Duration `yaml:"timeout"`
	RetryCount     int           `yaml:"retry_count"`
	MinPageDelay   time.Duration `yaml:"min_page_delay"`
	MaxPageDelay   time.Duration `yaml:"max_page_delay"`
	MinSeasonDelay time.Duration `yaml:"min_season_delay"`
	MaxSeasonDelay time.Duration `yaml:"max_season_delay"`

	// PersistFailThreshold marks the run failed when a single persist
	// call reports at least this many per-record failures.
	PersistFailThreshold int `yaml:"persist_fail_threshold"`
}

type SeasonConfig struct {
	Label string `yaml:"label"` // e.g. "2024-2025"
	URL   string `yaml:"url"`   // results listing path or absolute URL
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Scraper.Name == "" {
		c.Scraper.Name = "oddsportal_nba"
	}
	if c.Scraper.Output == "" {
		c.Scraper.Output = OutputCSV
	}
	if c.Scraper.CSVDir == "" {
		c.Scraper.CSVDir = "data/output"
	}
	if c.Scraper.CheckpointDir == "" {
		c.Scraper.CheckpointDir = "checkpoints"
	}
	if c.Scraper.Timeout <= 0 {
		c.Scraper.Timeout = 10 * time.Second
	}
	if c.Scraper.RetryCount <= 0 {
		c.Scraper.RetryCount = 5
	}
	if c.Scraper.MinPageDelay <= 0 {
		c.Scraper.MinPageDelay = 2 * time.Second
	}
	if c.Scraper.MaxPageDelay <= 0 {
		c.Scraper.MaxPageDelay = 4 * time.Second
	}
	if c.Scraper.MinSeasonDelay <= 0 {
		c.Scraper.MinSeasonDelay = 10 * time.Second
	}
	if c.Scraper.MaxSeasonDelay <= 0 {
		c.Scraper.MaxSeasonDelay = 15 * time.Second
	}
	if c.Scraper.PersistFailThreshold <= 0 {
		c.Scraper.PersistFailThreshold = 25
	}
	if c.Scraper.WaitSelector == "" {
		c.Scraper.WaitSelector = "div.eventRow"
	}
}

func (c *Config) validate() error {
	switch c.Scraper.Output {
	case OutputCSV, OutputPostgres, OutputBoth:
	default:
		return fmt.Errorf("invalid scraper.output %q: must be csv, postgres or both", c.Scraper.Output)
	}
	if c.Scraper.Output != OutputCSV && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required for output mode %q", c.Scraper.Output)
	}
	if len(c.Scraper.Seasons) == 0 {
		return fmt.Errorf("scraper.seasons must list at least one season")
	}
	for _, s := range c.Scraper.Seasons {
		if s.Label == "" || s.URL == "" {
			return fmt.Errorf("each season needs a label and url")
		}
	}
	return nil
}

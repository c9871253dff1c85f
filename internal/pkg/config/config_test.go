package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
scraper:
  base_url: https://example.com
  seasons:
    - label: "2023-2024"
      url: /nba-2023-2024/results/
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := cfg.Scraper
	if s.Name != "oddsportal_nba" {
		t.Errorf("default name = %q", s.Name)
	}
	if s.Output != OutputCSV {
		t.Errorf("default output = %q", s.Output)
	}
	if s.Timeout != 10*time.Second || s.RetryCount != 5 {
		t.Errorf("default timeout/retries = %v/%d", s.Timeout, s.RetryCount)
	}
	if s.MinPageDelay != 2*time.Second || s.MaxPageDelay != 4*time.Second {
		t.Errorf("default page delays = %v..%v", s.MinPageDelay, s.MaxPageDelay)
	}
	if s.MinSeasonDelay != 10*time.Second || s.MaxSeasonDelay != 15*time.Second {
		t.Errorf("default season delays = %v..%v", s.MinSeasonDelay, s.MaxSeasonDelay)
	}
	if s.PersistFailThreshold != 25 {
		t.Errorf("default persist threshold = %d", s.PersistFailThreshold)
	}
	if s.WaitSelector == "" {
		t.Error("default wait selector empty")
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
logging:
  level: debug
scraper:
  name: custom
  base_url: https://example.com
  output: both
  resume: true
  browser: true
  timeout: 30s
  max_pages: 10
  seasons:
    - label: "2022-2023"
      url: /a/
    - label: "2023-2024"
      url: /b/
postgres:
  dsn: postgres://u:p@localhost/db
health:
  port: 8090
telegram:
  enabled: true
  token: abc
  chat_id: 42
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
	if cfg.Scraper.Name != "custom" || !cfg.Scraper.Resume || !cfg.Scraper.Browser {
		t.Errorf("scraper = %+v", cfg.Scraper)
	}
	if cfg.Scraper.Timeout != 30*time.Second || cfg.Scraper.MaxPages != 10 {
		t.Errorf("timeout/max_pages = %v/%d", cfg.Scraper.Timeout, cfg.Scraper.MaxPages)
	}
	if len(cfg.Scraper.Seasons) != 2 || cfg.Scraper.Seasons[1].Label != "2023-2024" {
		t.Errorf("seasons = %+v", cfg.Scraper.Seasons)
	}
	if cfg.Postgres.DSN == "" || cfg.Health.Port != 8090 {
		t.Errorf("postgres/health = %+v / %+v", cfg.Postgres, cfg.Health)
	}
	if !cfg.Telegram.Enabled || cfg.Telegram.ChatID != 42 {
		t.Errorf("telegram = %+v", cfg.Telegram)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"bad output mode",
			strings.Replace(minimalConfig, "scraper:", "scraper:\n  output: xml", 1),
			"invalid scraper.output",
		},
		{
			"postgres output without dsn",
			strings.Replace(minimalConfig, "scraper:", "scraper:\n  output: postgres", 1),
			"postgres.dsn is required",
		},
		{
			"no seasons",
			"scraper:\n  base_url: https://example.com\n",
			"at least one season",
		},
		{
			"season without url",
			"scraper:\n  seasons:\n    - label: \"2023-2024\"\n",
			"label and url",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load accepted invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

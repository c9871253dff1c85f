// Package checkpoint persists per-season scraping progress so an
// interrupted run resumes instead of re-scraping from page one.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// Checkpoint is the JSON snapshot written after every scraped page.
type Checkpoint struct {
	Season     string              `json:"season"`
	Page       int                 `json:"page"`
	GamesCount int                 `json:"games_count"`
	LastGameID string              `json:"last_game_id"`
	Timestamp  time.Time           `json:"timestamp"`
	Games      []models.GameRecord `json:"games"`
}

// Store reads and writes season checkpoints under one directory.
type Store struct {
	dir string
}

// NewStore creates the checkpoint directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "checkpoints"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(season string) string {
	return filepath.Join(s.dir, "checkpoint_"+season+".json")
}

// Save writes the season's progress. The write goes through a temp file
// and rename so a crash mid-write cannot corrupt the previous checkpoint.
func (s *Store) Save(season string, page int, games []models.GameRecord) error {
	cp := Checkpoint{
		Season:     season,
		Page:       page,
		GamesCount: len(games),
		Timestamp:  time.Now().UTC(),
		Games:      games,
	}
	if len(games) > 0 {
		cp.LastGameID = games[len(games)-1].GameID
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmp := s.path(season) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, s.path(season)); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}

	slog.Debug("Checkpoint saved", "season", season, "page", page, "games", len(games))
	return nil
}

// Load returns the season's checkpoint, or nil when none exists. A
// corrupted file is reported and ignored so the season restarts cleanly.
func (s *Store) Load(season string) (*Checkpoint, error) {
	data, err := os.ReadFile(s.path(season))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		slog.Warn("Corrupted checkpoint file, starting season fresh", "season", season, "error", err)
		return nil, nil
	}
	return &cp, nil
}

// Clear removes the season's checkpoint after a successful persist.
func (s *Store) Clear(season string) error {
	err := os.Remove(s.path(season))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

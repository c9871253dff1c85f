package scraper

import (
	"log/slog"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// Dedupe collapses a batch to one record per game_id. Policy is
// latest-wins: a later occurrence replaces an earlier one's data while
// keeping its position, because later pages of a re-scrape carry the more
// complete snapshot (final scores replacing pre-game placeholders).
// Running Dedupe on its own output is a no-op.
func Dedupe(games []models.GameRecord) []models.GameRecord {
	if len(games) <= 1 {
		return games
	}

	out := make([]models.GameRecord, 0, len(games))
	index := make(map[string]int, len(games))
	dropped := 0

	for _, g := range games {
		if i, seen := index[g.GameID]; seen {
			out[i] = g
			dropped++
			continue
		}
		index[g.GameID] = len(out)
		out = append(out, g)
	}

	if dropped > 0 {
		slog.Info("Removed duplicate games", "duplicates", dropped, "remaining", len(out))
	}
	return out
}

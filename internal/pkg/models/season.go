package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SeasonFromDate derives the NBA season label from a game date in
// YYYY-MM-DD form. The season runs October through June: Oct-Dec games
// belong to the season starting that year, Jan-Jun games to the season
// started the year before.
func SeasonFromDate(gameDate string) (string, error) {
	d, err := time.Parse("2006-01-02", gameDate)
	if err != nil {
		return "", fmt.Errorf("invalid game date %q: %w", gameDate, err)
	}
	year := d.Year()
	if d.Month() >= time.October {
		return fmt.Sprintf("%d-%d", year, year+1), nil
	}
	return fmt.Sprintf("%d-%d", year-1, year), nil
}

// SeasonStartYear returns the year a season starts in (its October),
// used as the reference year when a scraped date omits the year.
func SeasonStartYear(season string) (int, error) {
	s := season
	if i := strings.Index(s, "-"); i >= 0 {
		s = s[:i]
	}
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid season label %q: %w", season, err)
	}
	return year, nil
}

// Package page extracts raw game rows from one rendered results page.
package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/courtsidedata/nba-odds-scraper/internal/pkg/models"
)

// Selectors for the results listing markup. Game rows are div.eventRow;
// a row may open with a date header that applies to it and every
// following row until the next header.
const (
	selEventRow    = "div.eventRow"
	selDateHeader  = "div.bg-gray-light"
	selParticipant = "p.participant-name"
	selScore       = "div.font-bold"
	selOddsCell    = "p.default-odds-bg-bgcolor"
	selNextPage    = "a.pagination-link.pagination-next"
)

// ParseError means the page's structure was not the expected results
// listing (block page, CAPTCHA, redesign). The page is skipped; the
// season continues.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse page: %s", e.Reason)
}

// Parse extracts the page's game rows in source order and reports whether
// a further page exists. Rows missing odds cells yield RawGames with empty
// odds text (future games); only a page that has no recognizable results
// structure at all is an error.
func Parse(content string) ([]models.RawGame, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, false, &ParseError{Reason: fmt.Sprintf("invalid HTML: %v", err)}
	}

	rows := doc.Find(selEventRow)
	pagination := doc.Find(selNextPage)
	if rows.Length() == 0 && pagination.Length() == 0 {
		return nil, false, &ParseError{Reason: "no game rows or pagination control found"}
	}

	var games []models.RawGame
	currentDate := ""

	rows.Each(func(_ int, row *goquery.Selection) {
		if header := row.Find(selDateHeader).First(); header.Length() > 0 {
			if text := clean(header.Text()); text != "" {
				currentDate = text
			}
		}

		raw, ok := parseRow(row, currentDate)
		if ok {
			games = append(games, raw)
		}
	})

	return games, hasNextPage(pagination), nil
}

// parseRow pulls one game's raw cells out of its event row. Away team
// renders first, home team second. ok is false for rows without two
// participants (ad rows, header-only rows).
func parseRow(row *goquery.Selection, currentDate string) (models.RawGame, bool) {
	participants := row.Find(selParticipant)
	if participants.Length() < 2 {
		return models.RawGame{}, false
	}

	raw := models.RawGame{
		DateText:     currentDate,
		AwayTeamText: clean(participants.Eq(0).Text()),
		HomeTeamText: clean(participants.Eq(1).Text()),
	}

	awayScore := teamScore(participants.Eq(0))
	homeScore := teamScore(participants.Eq(1))
	if awayScore != "" && homeScore != "" {
		raw.ScoreText = awayScore + ":" + homeScore
	}

	// Odds cells render in fixed order: away moneyline, home moneyline,
	// spread, total. Unposted lines are simply missing; take what exists.
	cells := row.Find(selOddsCell)
	if cells.Length() > 0 {
		raw.MoneylineAwayText = clean(cells.Eq(0).Text())
	}
	if cells.Length() > 1 {
		raw.MoneylineHomeText = clean(cells.Eq(1).Text())
	}
	if cells.Length() > 2 {
		raw.SpreadText = clean(cells.Eq(2).Text())
	}
	if cells.Length() > 3 {
		raw.OverUnderText = clean(cells.Eq(3).Text())
	}

	return raw, true
}

// teamScore finds the score rendered next to a participant name: the
// first all-digit bold cell inside the same anchor.
func teamScore(participant *goquery.Selection) string {
	anchor := participant.Closest("a")
	if anchor.Length() == 0 {
		return ""
	}
	score := ""
	anchor.Find(selScore).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := clean(cell.Text())
		if isDigits(text) {
			score = text
			return false
		}
		return true
	})
	return score
}

// hasNextPage reads the pagination control: absent or disabled ends the
// season's pagination loop.
func hasNextPage(next *goquery.Selection) bool {
	if next.Length() == 0 {
		return false
	}
	if next.HasClass("disabled") {
		return false
	}
	if v, ok := next.Attr("aria-disabled"); ok && v == "true" {
		return false
	}
	return true
}

func clean(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

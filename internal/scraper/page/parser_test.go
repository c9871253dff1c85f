package page

import (
	"errors"
	"strings"
	"testing"
)

// resultsPage mimics the rendered results listing: a dated header row
// with a finished game, a second game under the same date, and an
// undated future game without scores or odds.
const resultsPage = `
<html><body>
<div class="eventRow">
  <div class="bg-gray-light">14 Jan 2024</div>
  <a href="/game/1">
    <p class="participant-name">Boston Celtics</p>
    <div class="font-bold">105</div>
  </a>
  <a href="/game/1">
    <p class="participant-name">Los Angeles Lakers</p>
    <div class="font-bold">110</div>
  </a>
  <p class="default-odds-bg-bgcolor">+130</p>
  <p class="default-odds-bg-bgcolor">-150</p>
  <p class="default-odds-bg-bgcolor">-3.5</p>
  <p class="default-odds-bg-bgcolor">224.5</p>
</div>
<div class="eventRow">
  <a href="/game/2">
    <p class="participant-name">Golden State Warriors</p>
    <div class="font-bold">98</div>
  </a>
  <a href="/game/2">
    <p class="participant-name">Brooklyn Nets</p>
    <div class="font-bold">104</div>
  </a>
  <p class="default-odds-bg-bgcolor">-120</p>
  <p class="default-odds-bg-bgcolor">+100</p>
</div>
<div class="eventRow">
  <div class="bg-gray-light">20 Jan 2024</div>
  <a href="/game/3">
    <p class="participant-name">Miami Heat</p>
  </a>
  <a href="/game/3">
    <p class="participant-name">New York Knicks</p>
  </a>
</div>
<a class="pagination-link pagination-next" href="#/page/2/">Next</a>
</body></html>`

func TestParse(t *testing.T) {
	games, hasNext, err := Parse(resultsPage)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !hasNext {
		t.Error("hasNext = false, want true")
	}
	if len(games) != 3 {
		t.Fatalf("game count = %d, want 3", len(games))
	}

	first := games[0]
	if first.DateText != "14 Jan 2024" {
		t.Errorf("DateText = %q", first.DateText)
	}
	if first.AwayTeamText != "Boston Celtics" || first.HomeTeamText != "Los Angeles Lakers" {
		t.Errorf("teams = %q / %q", first.AwayTeamText, first.HomeTeamText)
	}
	if first.ScoreText != "105:110" {
		t.Errorf("ScoreText = %q", first.ScoreText)
	}
	if first.MoneylineAwayText != "+130" || first.MoneylineHomeText != "-150" {
		t.Errorf("moneylines = %q / %q", first.MoneylineAwayText, first.MoneylineHomeText)
	}
	if first.SpreadText != "-3.5" || first.OverUnderText != "224.5" {
		t.Errorf("spread/total = %q / %q", first.SpreadText, first.OverUnderText)
	}

	// No header on the second row: the date carries forward.
	second := games[1]
	if second.DateText != "14 Jan 2024" {
		t.Errorf("carried DateText = %q", second.DateText)
	}
	if second.ScoreText != "98:104" {
		t.Errorf("ScoreText = %q", second.ScoreText)
	}
	if second.SpreadText != "" || second.OverUnderText != "" {
		t.Errorf("missing odds cells must stay empty: %q / %q", second.SpreadText, second.OverUnderText)
	}

	// Future game: new date header, no score, no odds.
	third := games[2]
	if third.DateText != "20 Jan 2024" {
		t.Errorf("DateText = %q", third.DateText)
	}
	if third.ScoreText != "" || third.MoneylineAwayText != "" {
		t.Errorf("future game carries values: %+v", third)
	}
}

func TestParseSkipsRowsWithoutParticipants(t *testing.T) {
	html := `<html><body>
	<div class="eventRow"><div class="bg-gray-light">14 Jan 2024</div></div>
	<div class="eventRow">
	  <p class="participant-name">Boston Celtics</p>
	  <p class="participant-name">Los Angeles Lakers</p>
	</div>
	</body></html>`

	games, hasNext, err := Parse(html)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if hasNext {
		t.Error("hasNext = true without pagination control")
	}
	if len(games) != 1 {
		t.Fatalf("game count = %d, want 1", len(games))
	}
	// The header-only row still sets the date for the game that follows.
	if games[0].DateText != "14 Jan 2024" {
		t.Errorf("DateText = %q", games[0].DateText)
	}
}

func TestParseLastPage(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no pagination control", strings.Replace(resultsPage,
			`<a class="pagination-link pagination-next" href="#/page/2/">Next</a>`, "", 1)},
		{"disabled class", strings.Replace(resultsPage,
			`class="pagination-link pagination-next"`,
			`class="pagination-link pagination-next disabled"`, 1)},
		{"aria-disabled", strings.Replace(resultsPage,
			`class="pagination-link pagination-next"`,
			`class="pagination-link pagination-next" aria-disabled="true"`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games, hasNext, err := Parse(tt.html)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if hasNext {
				t.Error("hasNext = true, want false")
			}
			if len(games) != 3 {
				t.Errorf("game count = %d", len(games))
			}
		})
	}
}

func TestParseUnrecognizedPage(t *testing.T) {
	_, _, err := Parse(`<html><body><h1>Access denied</h1></body></html>`)
	if err == nil {
		t.Fatal("block page parsed without error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("error type = %T", err)
	}
}

func TestParseEmptyResultsWithPagination(t *testing.T) {
	// A page with a pagination control but no rows is valid: the season's
	// tail can render empty pages.
	html := `<html><body><a class="pagination-link pagination-next disabled">Next</a></body></html>`
	games, hasNext, err := Parse(html)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(games) != 0 || hasNext {
		t.Errorf("games=%d hasNext=%v", len(games), hasNext)
	}
}

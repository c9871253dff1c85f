package normalize

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		text    string
		refYear int
		want    string
	}{
		{"15 Jan 2024", 0, "2024-01-15"},
		{"15 January 2024", 0, "2024-01-15"},
		{"Jan 15, 2024", 0, "2024-01-15"},
		{"January 15 2024", 0, "2024-01-15"},
		{"2024-01-15", 0, "2024-01-15"},
		{"01/15/2024", 0, "2024-01-15"},
		{"01-15-2024", 0, "2024-01-15"},
		{"01/15/24", 0, "2024-01-15"},
		{"01/15/99", 0, "1999-01-15"},
		{"5 Oct 2023", 0, "2023-10-05"},
		// Yearless dates resolve against the season start year: games from
		// October on belong to the start year, January through June to the
		// following calendar year.
		{"24 Oct", 2023, "2023-10-24"},
		{"15 Jan", 2023, "2024-01-15"},
		{"17 Jun", 2023, "2024-06-17"},
		{"31 Dec", 2023, "2023-12-31"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.text, tt.refYear)
		if err != nil {
			t.Errorf("ParseDate(%q, %d) error: %v", tt.text, tt.refYear, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q, %d) = %q, want %q", tt.text, tt.refYear, got, tt.want)
		}
	}
}

func TestParseDateRelative(t *testing.T) {
	now := time.Now()

	got, err := ParseDate("Today, 15 Jan", 2024)
	if err != nil {
		t.Fatalf("ParseDate(today) error: %v", err)
	}
	if want := now.Format("2006-01-02"); got != want {
		t.Errorf("ParseDate(today) = %q, want %q", got, want)
	}

	got, err = ParseDate("Yesterday", 2024)
	if err != nil {
		t.Fatalf("ParseDate(yesterday) error: %v", err)
	}
	if want := now.AddDate(0, 0, -1).Format("2006-01-02"); got != want {
		t.Errorf("ParseDate(yesterday) = %q, want %q", got, want)
	}
}

func TestParseDateErrors(t *testing.T) {
	tests := []string{
		"",
		"soon",
		"32 Jan 2024",
		"31 Feb 2024",
		"15 Xyz 2024",
	}
	for _, text := range tests {
		if got, err := ParseDate(text, 2024); err == nil {
			t.Errorf("ParseDate(%q) = %q, want error", text, got)
		}
	}
}

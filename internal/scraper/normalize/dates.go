package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNums = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var (
	reDayMonthYear  = regexp.MustCompile(`(\d{1,2})\s+([a-z]{3})\w*\s+(\d{4})`)
	reMonthDayYear  = regexp.MustCompile(`([a-z]{3})\w*\s+(\d{1,2}),?\s+(\d{4})`)
	reDayMonth      = regexp.MustCompile(`(\d{1,2})\s+([a-z]{3})`)
	reNumericDate   = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	reNumericDate2Y = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2})\b`)
	reISODate       = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// ParseDate converts a scraped date string to YYYY-MM-DD. Known formats are
// tried in order and the first match wins: "15 Jan 2024", "Jan 15, 2024",
// "15 Jan" (year taken from referenceYear), "01/15/2024", "01/15/24",
// "2024-01-15", plus the relative "Today"/"Yesterday" labels result pages
// use for recent games.
func ParseDate(dateText string, referenceYear int) (string, error) {
	s := strings.ToLower(strings.TrimSpace(dateText))
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	now := time.Now()
	if strings.Contains(s, "today") {
		return now.Format("2006-01-02"), nil
	}
	if strings.Contains(s, "yesterday") {
		return now.AddDate(0, 0, -1).Format("2006-01-02"), nil
	}

	if m := reDayMonthYear.FindStringSubmatch(s); m != nil {
		if month, ok := monthNums[m[2]]; ok {
			return formatDate(m[3], month, m[1])
		}
	}
	if m := reMonthDayYear.FindStringSubmatch(s); m != nil {
		if month, ok := monthNums[m[1]]; ok {
			return formatDate(m[3], month, m[2])
		}
	}
	if m := reISODate.FindStringSubmatch(s); m != nil {
		return validateDate(m[0])
	}
	if m := reNumericDate.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		return formatDate(m[3], month, m[2])
	}
	if m := reNumericDate2Y.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		yy, _ := strconv.Atoi(m[3])
		year := 1900 + yy
		if yy < 50 {
			year = 2000 + yy
		}
		return formatDate(strconv.Itoa(year), month, m[2])
	}
	if m := reDayMonth.FindStringSubmatch(s); m != nil {
		if month, ok := monthNums[m[2]]; ok {
			year := referenceYear
			if year <= 0 {
				year = now.Year()
			}
			// Day-month dates carry no year: Oct-Dec belongs to the
			// season's start year, Jan-Jun to the following one.
			if month < 7 {
				year++
			}
			return formatDate(strconv.Itoa(year), month, m[1])
		}
	}

	return "", fmt.Errorf("unrecognized date format: %q", dateText)
}

func formatDate(year string, month int, day string) (string, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", fmt.Errorf("invalid year %q", year)
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", fmt.Errorf("invalid day %q", day)
	}
	return validateDate(fmt.Sprintf("%04d-%02d-%02d", y, month, d))
}

// validateDate rejects impossible calendar dates like 2024-02-31 that the
// regexes alone would let through.
func validateDate(iso string) (string, error) {
	if _, err := time.Parse("2006-01-02", iso); err != nil {
		return "", fmt.Errorf("invalid calendar date %q: %w", iso, err)
	}
	return iso, nil
}

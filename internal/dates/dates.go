// Package dates parses the loosely formatted date strings family records
// carry. Birth dates come from free-text input and show up as a bare year
// ("1987"), month/year ("8/1987"), or a full day-first date ("21/08/1987")
// with /, -, . or spaces as separators. Parsing is display-only; the
// relationship engine never interprets dates.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const minYear = 1900

var separators = regexp.MustCompile(`[\s/\-.]+`)
var nonDate = regexp.MustCompile(`[^\d\s/\-.]`)

// Parse interprets a flexible date string. Two-part values are read as
// month/year, three-part values prefer day/month/year and fall back to
// month/day/year when the first number cannot be a day.
func Parse(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}

	currentYear := time.Now().Year()
	cleaned := nonDate.ReplaceAllString(trimmed, "")

	parts := splitParts(cleaned)
	switch len(parts) {
	case 1:
		// Bare year.
		if len(parts[0]) == 4 {
			y, err := strconv.Atoi(parts[0])
			if err == nil && validYear(y, currentYear) {
				return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
			}
		}
	case 2:
		a, errA := strconv.Atoi(parts[0])
		b, errB := strconv.Atoi(parts[1])
		if errA == nil && errB == nil {
			if validMonth(a) && validYear(b, currentYear) {
				return time.Date(b, time.Month(a), 1, 0, 0, 0, 0, time.UTC), true
			}
			if validMonth(b) && validYear(a, currentYear) {
				return time.Date(a, time.Month(b), 1, 0, 0, 0, 0, time.UTC), true
			}
		}
	case 3:
		d, errD := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		y, errY := strconv.Atoi(parts[2])
		if errD == nil && errM == nil && errY == nil && validYear(y, currentYear) {
			// Day-first is the preferred reading; swap only when the first
			// number cannot be a day-of-month companion to a valid month.
			if d >= 1 && d <= 31 && validMonth(m) {
				return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
			}
			if m >= 1 && m <= 31 && validMonth(d) {
				return time.Date(y, time.Month(d), m, 0, 0, 0, 0, time.UTC), true
			}
		}
	}

	// Standard layouts as a last resort.
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Age computes full years since the birth date, or false when the date is
// absent or unparseable.
func Age(birthDate *string) (int, bool) {
	if birthDate == nil {
		return 0, false
	}
	born, ok := Parse(*birthDate)
	if !ok {
		return 0, false
	}

	now := time.Now()
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

func splitParts(s string) []string {
	var parts []string
	for _, p := range separators.Split(s, -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func validMonth(m int) bool {
	return m >= 1 && m <= 12
}

func validYear(y, currentYear int) bool {
	return y >= minYear && y <= currentYear
}

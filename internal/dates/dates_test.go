package dates

import (
	"strconv"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1987", time.Date(1987, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"8/1987", time.Date(1987, time.August, 1, 0, 0, 0, 0, time.UTC)},
		{"1987/8", time.Date(1987, time.August, 1, 0, 0, 0, 0, time.UTC)},
		{"21/08/1987", time.Date(1987, time.August, 21, 0, 0, 0, 0, time.UTC)},
		{"21-08-1987", time.Date(1987, time.August, 21, 0, 0, 0, 0, time.UTC)},
		{"21.08.1987", time.Date(1987, time.August, 21, 0, 0, 0, 0, time.UTC)},
		{"21 08 1987", time.Date(1987, time.August, 21, 0, 0, 0, 0, time.UTC)},
		// Month-first fallback when the first number cannot pair with a month.
		{"08/21/1987", time.Date(1987, time.August, 21, 0, 0, 0, 0, time.UTC)},
		// Ambiguous dates read day-first.
		{"05/06/1987", time.Date(1987, time.June, 5, 0, 0, 0, 0, time.UTC)},
		// ISO layout fallback.
		{"1987-08-21", time.Date(1987, time.August, 21, 0, 0, 0, 0, time.UTC)},
		// Stray non-date characters are stripped.
		{"approx 1987", time.Date(1987, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if !ok {
			t.Errorf("Parse(%q) failed, want %v", tt.in, tt.want)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"unknown",
		"87",     // two-digit year
		"1850",   // before the minimum year
		"3000",   // future year
		"13/1987", // not a valid month
	}
	for _, in := range tests {
		if got, ok := Parse(in); ok {
			t.Errorf("Parse(%q) = %v, want failure", in, got)
		}
	}
}

func TestAge(t *testing.T) {
	if _, ok := Age(nil); ok {
		t.Fatal("Age(nil) succeeded")
	}

	bad := "not a date"
	if _, ok := Age(&bad); ok {
		t.Fatal("Age(unparseable) succeeded")
	}

	birthYear := time.Now().Year() - 30
	in := "15/06/" + strconv.Itoa(birthYear)
	got, ok := Age(&in)
	if !ok {
		t.Fatalf("Age(%q) failed", in)
	}
	// Exact value depends on today's date relative to June 15.
	if got != 29 && got != 30 {
		t.Fatalf("Age(%q) = %d, want 29 or 30", in, got)
	}
}

package csvparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// canonicalDate is the only shape a validated transaction date may take.
var canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateLayouts are tried in order. Numeric dates with a trailing year are read
// month first (M/D/YYYY), the same resolution a browser date parser applies.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"1/2/2006",
	"1-2-2006",
	"2-Jan-2006",
	"Jan-2-2006",
	"2006-Jan-2",
}

// NormalizeDate returns raw as YYYY-MM-DD when it can be read as a calendar
// date. Anything after the first space (a time of day) is dropped. When the
// date cannot be resolved the date part is returned unchanged, so callers
// must still check the result against the canonical shape.
func NormalizeDate(raw string) string {
	if raw == "" {
		return ""
	}

	datePart := strings.TrimSpace(strings.SplitN(raw, " ", 2)[0])

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, datePart); err == nil {
			y, m, d := t.Date()
			return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
		}
	}

	// Only a four-digit trailing year is considered. With a four-digit first
	// part too, the token is reassembled as is; D/M/YYYY versus M/D/YYYY stays
	// ambiguous and is left for the caller to reject.
	parts := strings.Split(strings.ReplaceAll(datePart, "/", "-"), "-")
	if len(parts) == 3 && isYear(parts[2]) && isYear(parts[0]) {
		return parts[0] + "-" + padTwo(parts[1]) + "-" + padTwo(parts[2])
	}
	return datePart
}

// IsCanonicalDate reports whether s is shaped YYYY-MM-DD.
func IsCanonicalDate(s string) bool {
	return canonicalDate.MatchString(s)
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func padTwo(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

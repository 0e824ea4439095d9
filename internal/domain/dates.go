package domain

import (
	"strings"
	"time"
)

// Bangkok is the fund's local time zone. Falls back to a fixed +07:00 zone
// when tzdata is unavailable.
var Bangkok = loadBangkok()

func loadBangkok() *time.Location {
	if loc, err := time.LoadLocation("Asia/Bangkok"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*60*60)
}

var apiDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseAPIDate parses the date formats the fund API emits. Dates without a
// zone are interpreted in Bangkok time.
func ParseAPIDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range apiDateLayouts {
		if t, err := time.ParseInLocation(layout, s, Bangkok); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartOfDay truncates t to local midnight in Bangkok.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Bangkok)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Bangkok)
}

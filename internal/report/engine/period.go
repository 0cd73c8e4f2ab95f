package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/propfolio/propfolio/internal/report/domain"
)

// Layouts accepted for invoice dates. Upstream systems deliver plain dates;
// the rest cover records imported from older exports.
var timestampLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an invoice date string. A failure is reported as
// ErrMalformedTimestamp so callers can drop the record instead of failing
// the whole report.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.ErrMalformedTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ErrMalformedTimestamp
}

// PeriodKey maps a timestamp to its canonical period label. Labels are
// zero-padded and year-first so lexicographic order is chronological order.
//
// Week numbering is the dashboard's own convention, not ISO-8601:
// ceil((daysSinceJan1 + weekdayOfJan1 + 1) / 7), with Sunday as weekday 0.
// Downstream period-label continuity depends on it, so it must not be
// "corrected".
func PeriodKey(t time.Time, g domain.Granularity) (string, error) {
	switch g {
	case domain.GranularityYear:
		return fmt.Sprintf("%04d", t.Year()), nil
	case domain.GranularityMonth:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())), nil
	case domain.GranularityWeek:
		jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		daysSinceJan1 := int(t.Sub(jan1).Hours() / 24)
		weekdayOfJan1 := int(jan1.Weekday())
		week := ceilDiv(daysSinceJan1+weekdayOfJan1+1, 7)
		return fmt.Sprintf("%04d-W%02d", t.Year(), week), nil
	}
	return "", domain.ErrInvalidGranularity
}

// EnumeratePeriods returns up to count period labels ending at now, newest
// first. Month and year steps are anchored to the first of the period so a
// short month never skips a label.
func EnumeratePeriods(now time.Time, g domain.Granularity, count int) []string {
	keys := make([]string, 0, count)
	seen := make(map[string]struct{}, count)

	var anchor time.Time
	switch g {
	case domain.GranularityWeek:
		anchor = now
	case domain.GranularityMonth:
		anchor = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case domain.GranularityYear:
		anchor = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return keys
	}

	for i := 0; i < count; i++ {
		var t time.Time
		switch g {
		case domain.GranularityWeek:
			t = anchor.AddDate(0, 0, -7*i)
		case domain.GranularityMonth:
			t = anchor.AddDate(0, -i, 0)
		case domain.GranularityYear:
			t = anchor.AddDate(-i, 0, 0)
		}
		key, err := PeriodKey(t, g)
		if err != nil {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

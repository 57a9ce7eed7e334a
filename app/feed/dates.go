package feed

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var ErrNoTimestamp = errors.New("no parseable timestamp")

// timestampStrategy extracts a publish time from an entry, reporting whether
// it succeeded. loc applies to raw strings that carry no zone.
type timestampStrategy func(e Entry, loc *time.Location) (time.Time, bool)

// Strategies are tried in order; the first success wins.
var timestampStrategies = []timestampStrategy{
	structuredTimestamp,
	func(e Entry, _ *time.Location) (time.Time, bool) { return parseRFC2822(e.PublishedRaw) },
	func(e Entry, loc *time.Location) (time.Time, bool) { return parseLayouts(e.PublishedRaw, loc) },
	func(e Entry, loc *time.Location) (time.Time, bool) { return parseFuzzy(e.PublishedRaw, loc) },
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// EntryTime returns the best-effort publish time of an entry in UTC, reading
// zone-less raw strings as local time. ErrNoTimestamp means no strategy could
// extract one.
func EntryTime(e Entry) (time.Time, error) {
	return EntryTimeIn(e, time.Local)
}

// EntryTimeIn is EntryTime with zone-less raw strings read in loc.
func EntryTimeIn(e Entry, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, strategy := range timestampStrategies {
		if ts, ok := strategy(e, loc); ok {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, ErrNoTimestamp
}

// ParseTimestamp parses a raw date string with the same fallback chain used
// for entries, minus the structured step.
func ParseTimestamp(raw string) (time.Time, bool) {
	ts, err := EntryTimeIn(Entry{PublishedRaw: raw}, time.Local)
	return ts, err == nil
}

func structuredTimestamp(e Entry, _ *time.Location) (time.Time, bool) {
	if e.PublishedParsed != nil && !e.PublishedParsed.IsZero() {
		return *e.PublishedParsed, true
	}
	if e.UpdatedParsed != nil && !e.UpdatedParsed.IsZero() {
		return *e.UpdatedParsed, true
	}
	return time.Time{}, false
}

func parseRFC2822(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := mail.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// parseLayouts reads layouts without a zone in loc.
func parseLayouts(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseFuzzy(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

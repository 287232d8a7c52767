package notepad

import (
	"time"
)

const displayLayout = "01/02/06 3:04pm"

// Layouts accepted by FormatTimestamp, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02",
}

// FormatDate renders t as MM/DD/YY H:MMam|pm in loc. A zero time renders as
// the empty string; a nil loc means time.Local.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(displayLayout)
}

// FormatTimestamp is the string-input form of FormatDate, for timestamps
// still in their ISO-8601 wire form. Empty and unparseable input both render
// as the empty string, in both view variants.
func FormatTimestamp(raw string, loc *time.Location) string {
	if raw == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return FormatDate(t, loc)
		}
	}
	return ""
}

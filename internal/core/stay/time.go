package stay

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used by the ledger.
const (
	// StoredLayout is how timestamps are persisted. The date is the first ten bytes.
	StoredLayout = "2006-01-02 15:04"

	// DateLayout is the stored date portion.
	DateLayout = "2006-01-02"

	// DisplayLayout is how the front desk reads timestamps.
	DisplayLayout = "02-01-2006 15:04"

	// DisplayDateLayout is the day-first date staff type.
	DisplayDateLayout = "02-01-2006"

	archiveDateLayout = "02012006"
)

// Minute truncates t to minute precision in loc.
func Minute(t time.Time, loc *time.Location) time.Time {
	return t.In(loc).Truncate(time.Minute)
}

// FormatStored renders t for persistence in loc.
func FormatStored(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(StoredLayout)
}

// ParseStored reads a persisted timestamp as a wall-clock time in loc.
func ParseStored(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(StoredLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// DateKey returns the stored date portion for the calendar day of date.
// The day is taken from date's own calendar fields, without converting zones,
// so midnight of a picked day always means that day.
func DateKey(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseDate accepts either ISO (2024-05-10) or day-first (10-05-2024) dates
// and returns midnight of that day in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{DateLayout, DisplayDateLayout} {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or DD-MM-YYYY", raw)
}

// ArchiveFileName returns the artifact name for the calendar day of t in loc.
// One name per day: a second archive on the same day replaces the first.
func ArchiveFileName(t time.Time, loc *time.Location) string {
	return fmt.Sprintf("ledger_export_%s.sql", t.In(loc).Format(archiveDateLayout))
}

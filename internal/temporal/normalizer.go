// Package temporal converts between the form's date/time strings and
// absolute instants.
package temporal

import (
	"fmt"
	"time"
)

const (
	// DateLayout matches the dialog's locale short date (no leading zeros
	// required on parse).
	DateLayout = "1/2/2006"
	// TimeLayout is the dialog's 24h clock.
	TimeLayout = "15:04"
)

// DefaultRange returns the initial range for a new event: start = now,
// end = start + 1h. When the local hour is 23 the end *date* is the next
// calendar day; combined with the +1h clock this keeps the end after the
// start across midnight.
func DefaultRange(now time.Time) (start, end time.Time) {
	start = now
	oneHourLater := now.Add(time.Hour)

	endDate := now
	if now.Hour() >= 23 {
		endDate = now.AddDate(0, 0, 1)
	}

	end = time.Date(
		endDate.Year(), endDate.Month(), endDate.Day(),
		oneHourLater.Hour(), oneHourLater.Minute(), 0, 0,
		now.Location(),
	)
	return start, end
}

// ToCanonical parses the form's date and time strings in loc and returns the
// canonical instant. For all-day events the parsed wall-clock fields are
// reinterpreted as UTC (offset zeroed, fields unchanged) so that date-only
// ranges are not shifted again downstream. Malformed input is returned as a
// wrapped error with a zero time; validation is the caller's job.
func ToCanonical(dateStr, timeStr string, allDay bool, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, dateStr+" "+timeStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q %q: %w", dateStr, timeStr, err)
	}

	if allDay {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
	}
	return t, nil
}

// FormatDate renders an instant as a form date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders an instant as a form time string.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Package notify converts notification lead times between durations and the
// form's (quantity, unit) pairs, and builds the default reminder rows.
package notify

import (
	"strconv"
	"time"

	"github.com/evermail/eventdialog/internal/domain"
)

var unitDuration = map[domain.PeriodType]time.Duration{
	domain.PeriodMinute: time.Minute,
	domain.PeriodHour:   time.Hour,
	domain.PeriodDay:    24 * time.Hour,
	domain.PeriodWeek:   7 * 24 * time.Hour,
}

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * 60
	minutesPerWeek = 7 * 24 * 60
)

// Submission is one notification ready for the event payload.
type Submission struct {
	UserID       string
	NotifyBefore time.Duration
}

// ToDuration converts a quantity string and unit into a lead time. A
// quantity that does not parse as a number yields zero.
func ToDuration(quantity string, unit domain.PeriodType) time.Duration {
	value, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return 0
	}
	return time.Duration(value * float64(unitDuration[unit]))
}

// FromDuration converts a lead time into the largest unit that divides it
// into a whole quantity, tried Week > Day > Hour; anything else falls back
// to (rounded) minutes.
func FromDuration(d time.Duration) (int64, domain.PeriodType) {
	minutes := int64(d.Round(time.Minute) / time.Minute)
	if minutes <= 0 {
		return 0, domain.PeriodMinute
	}

	switch {
	case minutes%minutesPerWeek == 0:
		return minutes / minutesPerWeek, domain.PeriodWeek
	case minutes%minutesPerDay == 0:
		return minutes / minutesPerDay, domain.PeriodDay
	case minutes%minutesPerHour == 0:
		return minutes / minutesPerHour, domain.PeriodHour
	default:
		return minutes, domain.PeriodMinute
	}
}

// BuildDefaults constructs the initial reminder rows for the dialog.
//
// Editing a persisted event with stored notifications reproduces them
// one-to-one in stored order. A new event starts from the tag-derived
// settings when any exist: one row per (setting, recipient) pair. With no
// settings every recipient gets the 10-minute default.
func BuildDefaults(event *domain.Event, settings []domain.NotificationSetting, recipients []domain.User) []domain.NotificationItem {
	items := []domain.NotificationItem{}

	if event != nil {
		for _, n := range event.Notifications {
			value, unit := FromDuration(n.NotifyBefore)
			items = append(items, domain.NotificationItem{
				UserID:     n.UserID,
				Period:     strconv.FormatInt(value, 10),
				PeriodType: unit,
			})
		}
		return items
	}

	if len(settings) > 0 {
		for _, setting := range settings {
			value, unit := FromDuration(setting.NotifyBefore)
			for _, recipient := range recipients {
				items = append(items, domain.NotificationItem{
					UserID:     recipient.ID,
					Period:     strconv.FormatInt(value, 10),
					PeriodType: unit,
				})
			}
		}
		return items
	}

	for _, recipient := range recipients {
		items = append(items, domain.NotificationItem{
			UserID:     recipient.ID,
			Period:     "10",
			PeriodType: domain.PeriodMinute,
		})
	}
	return items
}

// ToSubmission filters the reminder rows down to the submittable ones:
// a real recipient and a positive quantity. Placeholder rows ("none"
// recipient, empty or non-positive period) are dropped, order preserved.
func ToSubmission(items []domain.NotificationItem) []Submission {
	var out []Submission
	for _, item := range items {
		if item.UserID == domain.RecipientNone || item.Period == "" {
			continue
		}
		value, err := strconv.ParseFloat(item.Period, 64)
		if err != nil || value <= 0 {
			continue
		}
		out = append(out, Submission{
			UserID:       item.UserID,
			NotifyBefore: ToDuration(item.Period, item.PeriodType),
		})
	}
	return out
}

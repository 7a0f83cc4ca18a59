// Package derive builds the reset payload for the event dialog from every
// asynchronous input at once. Recomputing the whole context on any input
// change replaces the original's overlapping per-input effects, so a reset
// can never observe a partially merged state.
package derive

import (
	"fmt"
	"time"

	"github.com/evermail/eventdialog/internal/domain"
	"github.com/evermail/eventdialog/internal/notify"
	"github.com/evermail/eventdialog/internal/sharing"
	"github.com/evermail/eventdialog/internal/temporal"
)

// Inputs is the settled external-identity tuple of one editing session.
// Event is nil when creating, Message is nil when editing a standalone
// event.
type Inputs struct {
	Event                *domain.Event
	Message              *domain.Message
	SharedAccess         *domain.SharedAccess
	NotificationSettings []domain.NotificationSetting
	CurrentUser          domain.User
	Now                  time.Time
	Location             *time.Location
}

// Context is everything the dialog derives from its inputs: the form to
// reset to, the selectable recipients, and the calendar labels shown next
// to the form.
type Context struct {
	Form           domain.EventForm
	Recipients     []domain.User
	CalendarLabels []string
}

// Build derives the full context. Pure: same inputs, same output.
//
// Scalar field precedence is event over message event-info over message
// event-preview; an existing event wins as-is, even when empty, because the
// persisted value is the truth when editing. The time fields fall back per
// field:
//
//	startDate, startTime:  event start, event-info start, now
//	endTime:               event end, event-info end, now + 1h
//	endDate:               event end, event-info start, the default-range
//	                       end date (next day when the local hour is 23)
//
// The end-date fallback to the event-info *start* matches the shipped
// dialog behavior.
func Build(in Inputs) Context {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	now := in.Now.In(loc)
	defStart, defEnd := temporal.DefaultRange(now)

	var info *domain.EventInfo
	var preview *domain.EventPreview
	if in.Message != nil {
		info = in.Message.EventInfo
		preview = in.Message.EventPreview
	}

	var form domain.EventForm
	switch {
	case in.Event != nil:
		form.Title = in.Event.Title
		form.Location = in.Event.Location
		form.Description = in.Event.Description
		form.AllDay = in.Event.AllDay
	case info != nil:
		form.Title = info.Title
		form.Location = info.Location
		form.Description = info.Description
		if preview != nil {
			if form.Title == "" {
				form.Title = preview.Title
			}
			if form.Location == "" {
				form.Location = preview.Location
			}
			if form.Description == "" {
				form.Description = preview.Description
			}
		}
	case preview != nil:
		form.Title = preview.Title
		form.Location = preview.Location
		form.Description = preview.Description
	}

	start := defStart
	endClock := defEnd
	endDate := defEnd
	switch {
	case in.Event != nil && !in.Event.StartTime.IsZero():
		start = in.Event.StartTime.In(loc)
	case info != nil && info.StartTime != nil:
		start = info.StartTime.In(loc)
	}
	switch {
	case in.Event != nil && !in.Event.EndTime.IsZero():
		endClock = in.Event.EndTime.In(loc)
		endDate = endClock
	default:
		if info != nil && info.EndTime != nil {
			endClock = info.EndTime.In(loc)
		}
		if info != nil && info.StartTime != nil {
			endDate = info.StartTime.In(loc)
		}
	}

	form.StartDate = temporal.FormatDate(start)
	form.StartTime = temporal.FormatTime(start)
	form.EndTime = temporal.FormatTime(endClock)
	form.EndDate = temporal.FormatDate(endDate)

	var shared []domain.User
	if in.SharedAccess != nil {
		shared = in.SharedAccess.TargetUsers
	}
	recipients := sharing.Resolve(shared, in.CurrentUser)

	form.Notifications = notify.BuildDefaults(in.Event, in.NotificationSettings, recipients)
	form.Attachments = attachments(in.Event, in.Message)

	return Context{
		Form:           form,
		Recipients:     recipients,
		CalendarLabels: calendarLabels(in),
	}
}

// attachments prefers the event's stored attachments, else the source
// message's files.
func attachments(event *domain.Event, message *domain.Message) []domain.File {
	if event != nil && len(event.Attachments) > 0 {
		return append([]domain.File(nil), event.Attachments...)
	}
	if message != nil && len(message.Files) > 0 {
		return append([]domain.File(nil), message.Files...)
	}
	return nil
}

// calendarLabels lists the event's own calendar first, then one label per
// shared-access user, then the current user's calendars.
func calendarLabels(in Inputs) []string {
	var labels []string
	if in.Event != nil && in.Event.CalendarName != "" {
		labels = append(labels, in.Event.CalendarName)
	}
	if in.SharedAccess != nil {
		for _, u := range in.SharedAccess.TargetUsers {
			labels = append(labels, fmt.Sprintf("%s's Calendar", u.Name))
		}
	}
	for _, c := range in.CurrentUser.Calendars {
		labels = append(labels, c.Name)
	}
	return labels
}

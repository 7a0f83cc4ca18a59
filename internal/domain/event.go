package domain

import "time"

// Event is a persisted calendar event as held by the event service.
type Event struct {
	ID            string
	Title         string
	Location      string
	Description   string
	StartTime     time.Time
	EndTime       time.Time
	AllDay        bool
	Conflict      bool
	CalendarName  string
	Notifications []EventNotification
	Attachments   []File
}

// EventNotification is a stored per-recipient reminder on an event.
type EventNotification struct {
	UserID       string
	NotifyBefore time.Duration
}

type File struct {
	ID   string
	Name string
}

// NotificationSetting is a tag-derived default lead time for new events.
type NotificationSetting struct {
	NotifyBefore time.Duration
}

// HasNotifications reports whether the event carries stored reminders.
func (e *Event) HasNotifications() bool {
	return e != nil && len(e.Notifications) > 0
}

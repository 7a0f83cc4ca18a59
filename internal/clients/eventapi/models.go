package eventapi

import (
	"time"

	"github.com/evermail/eventdialog/internal/domain"
)

// NotificationInput is one reminder in an event payload; NotifyBefore is
// milliseconds on the wire.
type NotificationInput struct {
	UserID       string `json:"userId"`
	NotifyBefore int64  `json:"notifyBefore"`
}

// EventInput is the payload consumed by create and update.
type EventInput struct {
	Title         string              `json:"title"`
	StartTime     string              `json:"startTime"`
	EndTime       string              `json:"endTime"`
	Location      string              `json:"location"`
	Description   string              `json:"description"`
	AllDay        bool                `json:"allDay"`
	Notifications []NotificationInput `json:"notifications"`
	AttachmentIDs []string            `json:"attachmentIds"`
}

// CreateEventInput adds the source message the event is created from.
type CreateEventInput struct {
	MessageID string `json:"messageId"`
	EventInput
}

type eventResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Location      string             `json:"location"`
	Description   string             `json:"description"`
	StartTime     time.Time          `json:"startTime"`
	EndTime       time.Time          `json:"endTime"`
	AllDay        bool               `json:"allDay"`
	Conflict      bool               `json:"conflict"`
	CalendarName  string             `json:"calendarName"`
	Notifications []notificationBody `json:"notifications"`
	Attachments   []fileBody         `json:"attachments"`
}

type notificationBody struct {
	UserID       string `json:"userId"`
	NotifyBefore int64  `json:"notifyBefore"`
}

type fileBody struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type userBody struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Calendars []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"eventCalendars"`
}

type sharedAccessResponse struct {
	TargetUsers []userBody `json:"targetUsers"`
}

type notificationSettingsResponse struct {
	Items []struct {
		NotifyBefore int64 `json:"notifyBefore"`
	} `json:"items"`
}

func (r *eventResponse) toDomain() *domain.Event {
	event := &domain.Event{
		ID:           r.ID,
		Title:        r.Title,
		Location:     r.Location,
		Description:  r.Description,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		AllDay:       r.AllDay,
		Conflict:     r.Conflict,
		CalendarName: r.CalendarName,
	}
	for _, n := range r.Notifications {
		event.Notifications = append(event.Notifications, domain.EventNotification{
			UserID:       n.UserID,
			NotifyBefore: time.Duration(n.NotifyBefore) * time.Millisecond,
		})
	}
	for _, f := range r.Attachments {
		event.Attachments = append(event.Attachments, domain.File{ID: f.ID, Name: f.Name})
	}
	return event
}

func (u userBody) toDomain() domain.User {
	user := domain.User{ID: u.ID, Name: u.Name, Email: u.Email}
	for _, c := range u.Calendars {
		user.Calendars = append(user.Calendars, domain.Calendar{ID: c.ID, Name: c.Name})
	}
	return user
}

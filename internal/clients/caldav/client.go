// Package caldav mirrors saved dialog events into a CalDAV calendar, one
// VEVENT per event with a VALARM per submitted reminder.
package caldav

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	"github.com/evermail/eventdialog/internal/domain"
)

// Client is a CalDAV client for the mirror calendar.
type Client struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	client       *caldav.Client
}

// NewClient creates a new CalDAV client.
func NewClient(baseURL, username, password, calendarPath string) *Client {
	return &Client{
		baseURL:      baseURL,
		username:     username,
		password:     password,
		calendarPath: calendarPath,
	}
}

// IsConfigured returns true if the client has credentials.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.username != "" && c.password != ""
}

// connect establishes connection to the CalDAV server.
func (c *Client) connect() (*caldav.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	c.client = client
	return client, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests.
type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// PushEvent writes the event to the mirror calendar. PUT replaces, so
// create and update are the same operation.
func (c *Client) PushEvent(ctx context.Context, event *domain.Event) error {
	client, err := c.connect()
	if err != nil {
		return err
	}

	if c.calendarPath == "" {
		return fmt.Errorf("calendar path not specified")
	}

	cal := EventToICS(event)
	_, err = client.PutCalendarObject(ctx, c.eventPath(event.ID), cal)
	if err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}

// RemoveEvent deletes the mirrored event.
func (c *Client) RemoveEvent(ctx context.Context, eventID string) error {
	client, err := c.connect()
	if err != nil {
		return err
	}

	if err := client.RemoveAll(ctx, c.eventPath(eventID)); err != nil {
		return fmt.Errorf("remove event: %w", err)
	}
	return nil
}

func (c *Client) eventPath(eventID string) string {
	path := c.calendarPath
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path + eventID + ".ics"
}

// EventToICS converts a dialog event to iCalendar form. All-day events are
// encoded as dates; timed events are written in UTC.
func EventToICS(event *domain.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Evermail//EventDialog//EN")

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, event.ID+"@evermail")
	vevent.Props.SetText(ical.PropSummary, event.Title)

	if event.Description != "" {
		vevent.Props.SetText(ical.PropDescription, event.Description)
	}
	if event.Location != "" {
		vevent.Props.SetText(ical.PropLocation, event.Location)
	}

	if event.AllDay {
		vevent.Props.SetDate(ical.PropDateTimeStart, event.StartTime)
		if !event.EndTime.IsZero() {
			vevent.Props.SetDate(ical.PropDateTimeEnd, event.EndTime)
		}
	} else {
		vevent.Props.SetDateTime(ical.PropDateTimeStart, event.StartTime.UTC())
		if !event.EndTime.IsZero() {
			vevent.Props.SetDateTime(ical.PropDateTimeEnd, event.EndTime.UTC())
		}
	}

	vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

	for _, n := range event.Notifications {
		alarm := &ical.Component{Name: ical.CompAlarm, Props: make(ical.Props)}
		alarm.Props.SetText(ical.PropAction, "DISPLAY")
		alarm.Props.SetText(ical.PropDescription, event.Title)
		trigger := ical.NewProp(ical.PropTrigger)
		trigger.Value = triggerValue(n.NotifyBefore)
		alarm.Props.Set(trigger)
		vevent.Children = append(vevent.Children, alarm)
	}

	cal.Children = append(cal.Children, vevent.Component)
	return cal
}

// triggerValue renders a lead time as a negative ISO 8601 duration.
func triggerValue(lead time.Duration) string {
	minutes := int64(lead / time.Minute)
	if minutes <= 0 {
		return "-PT0M"
	}

	var sb strings.Builder
	sb.WriteString("-P")
	if days := minutes / (24 * 60); days > 0 {
		fmt.Fprintf(&sb, "%dD", days)
		minutes -= days * 24 * 60
	}
	if minutes > 0 {
		sb.WriteString("T")
		if hours := minutes / 60; hours > 0 {
			fmt.Fprintf(&sb, "%dH", hours)
			minutes -= hours * 60
		}
		if minutes > 0 {
			fmt.Fprintf(&sb, "%dM", minutes)
		}
	}
	out := sb.String()
	if out == "-P" {
		return "-PT0M"
	}
	return out
}

// SerializeCalendar converts a calendar to string (for debugging).
func SerializeCalendar(cal *ical.Calendar) string {
	var buf bytes.Buffer
	enc := ical.NewEncoder(&buf)
	_ = enc.Encode(cal)
	return buf.String()
}

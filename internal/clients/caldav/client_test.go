package caldav

import (
	"strings"
	"testing"
	"time"

	"github.com/evermail/eventdialog/internal/domain"
)

func TestEventToICSTimedEvent(t *testing.T) {
	event := &domain.Event{
		ID:          "e1",
		Title:       "Planning sync",
		Location:    "Room 4",
		Description: "bring notes",
		StartTime:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC),
		Notifications: []domain.EventNotification{
			{UserID: "u1", NotifyBefore: 10 * time.Minute},
			{UserID: "u2", NotifyBefore: 26 * time.Hour},
		},
	}

	out := SerializeCalendar(EventToICS(event))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:e1@evermail",
		"SUMMARY:Planning sync",
		"LOCATION:Room 4",
		"DTSTART:20240315T100000Z",
		"DTEND:20240315T110000Z",
		"BEGIN:VALARM",
		"TRIGGER:-PT10M",
		"TRIGGER:-P1DT2H",
		"END:VALARM",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS output missing %q:\n%s", want, out)
		}
	}
}

func TestEventToICSAllDayUsesDateValues(t *testing.T) {
	event := &domain.Event{
		ID:        "e2",
		Title:     "Offsite",
		AllDay:    true,
		StartTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	}

	out := SerializeCalendar(EventToICS(event))
	if !strings.Contains(out, "DTSTART;VALUE=DATE:20240201") {
		t.Errorf("all-day start not encoded as date:\n%s", out)
	}
	if !strings.Contains(out, "DTEND;VALUE=DATE:20240202") {
		t.Errorf("all-day end not encoded as date:\n%s", out)
	}
}

func TestTriggerValue(t *testing.T) {
	tests := []struct {
		lead time.Duration
		want string
	}{
		{10 * time.Minute, "-PT10M"},
		{time.Hour, "-PT1H"},
		{90 * time.Minute, "-PT1H30M"},
		{24 * time.Hour, "-P1D"},
		{26*time.Hour + 15*time.Minute, "-P1DT2H15M"},
		{7 * 24 * time.Hour, "-P7D"},
		{0, "-PT0M"},
	}

	for _, tt := range tests {
		if got := triggerValue(tt.lead); got != tt.want {
			t.Errorf("triggerValue(%v) = %q, want %q", tt.lead, got, tt.want)
		}
	}
}

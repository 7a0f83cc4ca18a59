package eventapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateEvent(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody CreateEventInput

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{
			"id": "e1",
			"title": "Planning sync",
			"startTime": "2024-03-15T10:00:00Z",
			"endTime": "2024-03-15T11:00:00Z",
			"conflict": false,
			"notifications": [{"userId": "u1", "notifyBefore": 600000}],
			"attachments": [{"id": "f1", "name": "agenda.pdf"}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	input := CreateEventInput{MessageID: "m1"}
	input.Title = "Planning sync"
	input.Notifications = []NotificationInput{{UserID: "u1", NotifyBefore: 600000}}

	event, err := client.CreateEvent(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if gotPath != "POST /events" {
		t.Errorf("request = %q, want POST /events", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody.MessageID != "m1" {
		t.Errorf("messageId = %q, want m1", gotBody.MessageID)
	}
	if event.ID != "e1" || event.Title != "Planning sync" {
		t.Errorf("event = %+v", event)
	}
	if len(event.Notifications) != 1 || event.Notifications[0].NotifyBefore != 10*time.Minute {
		t.Errorf("notifications = %+v, want 10m for u1", event.Notifications)
	}
	if len(event.Attachments) != 1 || event.Attachments[0].ID != "f1" {
		t.Errorf("attachments = %+v", event.Attachments)
	}
}

func TestUpdateEventConflictError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"errors": [{"code": "has_conflict", "message": "event overlaps"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	_, err := client.UpdateEvent(context.Background(), "e1", EventInput{Title: "x"})
	if err == nil {
		t.Fatal("want error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T", err)
	}
	if apiErr.Code() != "has_conflict" {
		t.Errorf("code = %q, want has_conflict", apiErr.Code())
	}
}

func TestGetSharedAccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shared-access" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"targetUsers": [
			{"id": "u1", "name": "Alice", "email": "alice@example.com",
			 "eventCalendars": [{"id": "c1", "name": "Work"}]},
			{"id": "u2", "name": "Bob", "email": "bob@example.com"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	access, err := client.GetSharedAccess(context.Background())
	if err != nil {
		t.Fatalf("GetSharedAccess: %v", err)
	}

	if len(access.TargetUsers) != 2 {
		t.Fatalf("targetUsers = %+v", access.TargetUsers)
	}
	if access.TargetUsers[0].ID != "u1" || access.TargetUsers[1].ID != "u2" {
		t.Errorf("order not preserved: %+v", access.TargetUsers)
	}
	if len(access.TargetUsers[0].Calendars) != 1 || access.TargetUsers[0].Calendars[0].Name != "Work" {
		t.Errorf("calendars = %+v", access.TargetUsers[0].Calendars)
	}
}

func TestNotificationSettingsByTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tag_id"); got != "t1" {
			t.Errorf("tag_id = %q", got)
		}
		w.Write([]byte(`{"items": [{"notifyBefore": 3600000}, {"notifyBefore": 900000}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	settings, err := client.NotificationSettingsByTag(context.Background(), "t1")
	if err != nil {
		t.Fatalf("NotificationSettingsByTag: %v", err)
	}

	if len(settings) != 2 {
		t.Fatalf("settings = %+v", settings)
	}
	if settings[0].NotifyBefore != time.Hour || settings[1].NotifyBefore != 15*time.Minute {
		t.Errorf("settings = %+v", settings)
	}
}

func TestDeleteEvent(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	if err := client.DeleteEvent(context.Background(), "e1"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if gotPath != "DELETE /events/e1" {
		t.Errorf("request = %q", gotPath)
	}
}

package hooks

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evermail/eventdialog/internal/mirror"
	"github.com/evermail/eventdialog/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Storage) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "hooks.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return NewServer(mirror.NewService(store, nil), "0"), store
}

func TestEventSavedHookSchedulesDeliveries(t *testing.T) {
	srv, store := newTestServer(t)

	body := `{
		"id": "e1",
		"title": "Sync",
		"startTime": "2024-03-15T10:00:00Z",
		"endTime": "2024-03-15T11:00:00Z",
		"notifications": [{"userId": "u1", "notifyBefore": 600000}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/hooks/event-saved", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	due, err := store.ListDueDeliveries(start)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0].UserID != "u1" {
		t.Fatalf("due = %+v", due)
	}
	if !due[0].NotifyAt.Equal(start.Add(-10 * time.Minute)) {
		t.Errorf("notifyAt = %v", due[0].NotifyAt)
	}
}

func TestEventDeletedHook(t *testing.T) {
	srv, store := newTestServer(t)

	saved := httptest.NewRequest(http.MethodPost, "/hooks/event-saved", strings.NewReader(
		`{"id": "e1", "title": "Sync", "startTime": "2024-03-15T10:00:00Z",
		  "notifications": [{"userId": "u1", "notifyBefore": 60000}]}`))
	srv.Handler().ServeHTTP(httptest.NewRecorder(), saved)

	deleted := httptest.NewRequest(http.MethodPost, "/hooks/event-deleted", strings.NewReader(`{"id": "e1"}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, deleted)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}

	due, err := store.ListDueDeliveries(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Errorf("deliveries left = %+v", due)
	}
}

func TestHookRejectsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path, body string
		wantStatus int
	}{
		{"/hooks/event-saved", "not json", http.StatusBadRequest},
		{"/hooks/event-saved", `{"title": "no id"}`, http.StatusBadRequest},
		{"/hooks/event-deleted", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != tt.wantStatus {
			t.Errorf("%s %q: status = %d, want %d", tt.path, tt.body, w.Code, tt.wantStatus)
		}
	}

	get := httptest.NewRequest(http.MethodGet, "/hooks/event-saved", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, get)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

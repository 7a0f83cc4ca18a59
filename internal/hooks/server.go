// Package hooks receives event-saved and event-deleted callbacks from the
// event service and applies them to the delivery store and CalDAV mirror.
package hooks

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/evermail/eventdialog/internal/domain"
	"github.com/evermail/eventdialog/internal/mirror"
)

type eventPayload struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	AllDay        bool      `json:"allDay"`
	Notifications []struct {
		UserID       string `json:"userId"`
		NotifyBefore int64  `json:"notifyBefore"`
	} `json:"notifications"`
}

type deletePayload struct {
	ID string `json:"id"`
}

// Server is the HTTP hook surface of the delivery daemon.
type Server struct {
	mirror *mirror.Service
	server *http.Server
}

func NewServer(svc *mirror.Service, port string) *Server {
	s := &Server{mirror: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/hooks/event-saved", s.handleEventSaved)
	mux.HandleFunc("/hooks/event-deleted", s.handleEventDeleted)

	s.server = &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return s
}

// Handler exposes the mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	log.Printf("Hook server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleEventSaved(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if payload.ID == "" {
		http.Error(w, "missing event id", http.StatusBadRequest)
		return
	}

	event := &domain.Event{
		ID:          payload.ID,
		Title:       payload.Title,
		Location:    payload.Location,
		Description: payload.Description,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
		AllDay:      payload.AllDay,
	}
	for _, n := range payload.Notifications {
		event.Notifications = append(event.Notifications, domain.EventNotification{
			UserID:       n.UserID,
			NotifyBefore: time.Duration(n.NotifyBefore) * time.Millisecond,
		})
	}

	if err := s.mirror.EventSaved(r.Context(), event); err != nil {
		log.Printf("Error applying event-saved hook for %s: %v", event.ID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEventDeleted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload deletePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ID == "" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	if err := s.mirror.EventDeleted(r.Context(), payload.ID); err != nil {
		log.Printf("Error applying event-deleted hook for %s: %v", payload.ID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

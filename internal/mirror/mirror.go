// Package mirror applies the success side of a saved event: scheduled
// reminder deliveries in the local store and a copy in the CalDAV mirror
// calendar. It is wired into the session's success callbacks by the daemon;
// the dialog core never calls it directly.
package mirror

import (
	"context"
	"fmt"
	"log"

	"github.com/evermail/eventdialog/internal/domain"
	"github.com/evermail/eventdialog/internal/storage"
)

// CalendarClient is the CalDAV surface the mirror needs.
type CalendarClient interface {
	IsConfigured() bool
	PushEvent(ctx context.Context, event *domain.Event) error
	RemoveEvent(ctx context.Context, eventID string) error
}

type Service struct {
	storage *storage.Storage
	caldav  CalendarClient
}

func NewService(store *storage.Storage, caldav CalendarClient) *Service {
	return &Service{
		storage: store,
		caldav:  caldav,
	}
}

// EventSaved replaces the event's scheduled deliveries and refreshes the
// CalDAV copy. Each notification becomes one delivery at start minus lead.
func (s *Service) EventSaved(ctx context.Context, event *domain.Event) error {
	deliveries := make([]*domain.Delivery, 0, len(event.Notifications))
	for _, n := range event.Notifications {
		deliveries = append(deliveries, &domain.Delivery{
			EventID:    event.ID,
			UserID:     n.UserID,
			EventTitle: event.Title,
			EventStart: event.StartTime,
			NotifyAt:   event.StartTime.Add(-n.NotifyBefore),
		})
	}

	if err := s.storage.ReplaceEventDeliveries(event.ID, deliveries); err != nil {
		return fmt.Errorf("replace deliveries: %w", err)
	}

	if s.caldav != nil && s.caldav.IsConfigured() {
		if err := s.caldav.PushEvent(ctx, event); err != nil {
			// The store is the source of truth for deliveries; a mirror
			// failure is logged, not fatal.
			log.Printf("CalDAV push for event %s failed: %v", event.ID, err)
		}
	}
	return nil
}

// EventDeleted drops the event's deliveries and the CalDAV copy.
func (s *Service) EventDeleted(ctx context.Context, eventID string) error {
	if err := s.storage.DeleteEventDeliveries(eventID); err != nil {
		return fmt.Errorf("delete deliveries: %w", err)
	}

	if s.caldav != nil && s.caldav.IsConfigured() {
		if err := s.caldav.RemoveEvent(ctx, eventID); err != nil {
			log.Printf("CalDAV remove for event %s failed: %v", eventID, err)
		}
	}
	return nil
}

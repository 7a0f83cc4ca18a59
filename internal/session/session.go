// Package session drives one editing session of the event dialog: it owns
// the form state, refreshes the derived context, and runs the submit and
// delete flows against the event service.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/evermail/eventdialog/internal/clients/eventapi"
	"github.com/evermail/eventdialog/internal/conflict"
	"github.com/evermail/eventdialog/internal/derive"
	"github.com/evermail/eventdialog/internal/domain"
	"github.com/evermail/eventdialog/internal/form"
	"github.com/evermail/eventdialog/internal/notify"
	"github.com/evermail/eventdialog/internal/temporal"
)

var (
	// ErrInFlight means a create or update is already outstanding; at most
	// one may run per session.
	ErrInFlight = errors.New("submission already in flight")
	// ErrConflict is the recoverable submit outcome: the mutation went
	// through at transport level but the range overlaps another event. The
	// dialog stays open and success callbacks are suppressed.
	ErrConflict = errors.New("event has scheduling conflict")
	// ErrNoTarget means there is neither a persisted event to update nor a
	// source message to create from.
	ErrNoTarget = errors.New("nothing to submit to")
)

// API is the event service surface the session needs.
type API interface {
	CreateEvent(ctx context.Context, input eventapi.CreateEventInput) (*domain.Event, error)
	UpdateEvent(ctx context.Context, id string, input eventapi.EventInput) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	GetSharedAccess(ctx context.Context) (*domain.SharedAccess, error)
	NotificationSettingsByTag(ctx context.Context, tagID string) ([]domain.NotificationSetting, error)
}

// Callbacks fire on conflict-free successes only. Any of them may be nil.
type Callbacks struct {
	OnEventCreated               func(id string, event *domain.Event)
	OnCreateEventFromMessageItem func(id string, event *domain.Event)
	OnEventDeleted               func()
	RefetchEvents                func()
	OnClose                      func()
}

// Options configures a session. Event is nil when creating, Message is nil
// when editing a standalone event.
type Options struct {
	Event       *domain.Event
	Message     *domain.Message
	CurrentUser domain.User
	Callbacks   Callbacks
	Location    *time.Location
	Now         func() time.Time
}

// Session is one open event dialog. Methods are safe for use from the
// completion side of an in-flight call after Close: they degrade to no-ops
// instead of failing.
type Session struct {
	mu  sync.Mutex
	api API

	event       *domain.Event
	message     *domain.Message
	currentUser domain.User
	callbacks   Callbacks
	loc         *time.Location
	now         func() time.Time

	form       domain.EventForm
	recipients []domain.User
	labels     []string

	inFlight  bool
	closed    bool
	createErr error
	updateErr error
}

func New(api API, opts Options) *Session {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		api:         api,
		event:       opts.Event,
		message:     opts.Message,
		currentUser: opts.CurrentUser,
		callbacks:   opts.Callbacks,
		loc:         loc,
		now:         now,
	}
}

// Refresh fetches every external derivation input and then, only once all
// of them have settled, resets the form. A failed fetch leaves the current
// form untouched — a reset is never built from partial data.
func (s *Session) Refresh(ctx context.Context) error {
	access, err := s.api.GetSharedAccess(ctx)
	if err != nil {
		return fmt.Errorf("get shared access: %w", err)
	}

	var settings []domain.NotificationSetting
	if s.message != nil && len(s.message.Tags) > 0 {
		settings, err = s.api.NotificationSettingsByTag(ctx, s.message.Tags[0].ID)
		if err != nil {
			return fmt.Errorf("get notification settings: %w", err)
		}
	}

	derived := derive.Build(derive.Inputs{
		Event:                s.event,
		Message:              s.message,
		SharedAccess:         access,
		NotificationSettings: settings,
		CurrentUser:          s.currentUser,
		Now:                  s.now(),
		Location:             s.loc,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.form = form.Apply(s.form, form.Reset{Form: derived.Form})
	s.recipients = derived.Recipients
	s.labels = derived.CalendarLabels
	return nil
}

// Dispatch applies one edit action to the form. No-op after close.
func (s *Session) Dispatch(action form.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.form = form.Apply(s.form, action)
}

// Form returns a copy of the current form state.
func (s *Session) Form() domain.EventForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Clone()
}

// Recipients returns the selectable notification recipients.
func (s *Session) Recipients() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.User(nil), s.recipients...)
}

// CalendarLabels returns the calendar names shown next to the form.
func (s *Session) CalendarLabels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.labels...)
}

// InFlight reports whether a create or update is outstanding.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// HasConflict merges the server-held flag with the last mutation errors.
func (s *Session) HasConflict() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return conflict.HasConflict(s.event, s.createErr, s.updateErr)
}

// Close marks the session done. Completions of still-running calls become
// no-ops. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cb := s.callbacks.OnClose
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// payload builds the submit payload from the current form. Malformed date
// or time strings fail here, before anything reaches the network.
func (s *Session) payload() (eventapi.EventInput, error) {
	f := s.Form()

	start, err := temporal.ToCanonical(f.StartDate, f.StartTime, f.AllDay, s.loc)
	if err != nil {
		return eventapi.EventInput{}, fmt.Errorf("start: %w", err)
	}
	end, err := temporal.ToCanonical(f.EndDate, f.EndTime, f.AllDay, s.loc)
	if err != nil {
		return eventapi.EventInput{}, fmt.Errorf("end: %w", err)
	}

	input := eventapi.EventInput{
		Title:         f.Title,
		StartTime:     start.Format(time.RFC3339),
		EndTime:       end.Format(time.RFC3339),
		Location:      f.Location,
		Description:   f.Description,
		AllDay:        f.AllDay,
		Notifications: []eventapi.NotificationInput{},
		AttachmentIDs: []string{},
	}
	for _, n := range notify.ToSubmission(f.Notifications) {
		input.Notifications = append(input.Notifications, eventapi.NotificationInput{
			UserID:       n.UserID,
			NotifyBefore: n.NotifyBefore.Milliseconds(),
		})
	}
	for _, a := range f.Attachments {
		input.AttachmentIDs = append(input.AttachmentIDs, a.ID)
	}
	return input, nil
}

// Submit normalizes the form and issues the one mutation this session is
// for: update when a persisted event exists, otherwise create from the
// source message. Returns ErrConflict when the result is a scheduling
// conflict; the dialog then stays open.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrInFlight
	}
	if s.event == nil && s.message == nil {
		s.mu.Unlock()
		return ErrNoTarget
	}
	event := s.event
	message := s.message
	s.inFlight = true
	s.mu.Unlock()

	input, err := s.payload()
	if err != nil {
		s.finish(nil, nil, nil)
		return err
	}

	if event != nil {
		updated, err := s.api.UpdateEvent(ctx, event.ID, input)
		return s.finish(updated, nil, err)
	}

	created, err := s.api.CreateEvent(ctx, eventapi.CreateEventInput{
		MessageID:  message.ID,
		EventInput: input,
	})
	return s.finish(created, err, nil)
}

// finish applies a mutation result. When the session was closed while the
// call was pending, the result is dropped and no callback fires.
func (s *Session) finish(result *domain.Event, createErr, updateErr error) error {
	s.mu.Lock()
	s.inFlight = false
	wasCreate := s.event == nil

	if s.closed {
		s.mu.Unlock()
		if createErr != nil {
			return createErr
		}
		return updateErr
	}

	s.createErr = createErr
	s.updateErr = updateErr
	if result != nil {
		s.event = result
	}
	hasConflict := conflict.HasConflict(s.event, createErr, updateErr)
	cb := s.callbacks
	s.mu.Unlock()

	if createErr == nil && updateErr == nil && result == nil {
		// Payload build failed before the call; nothing else to apply.
		return nil
	}

	if hasConflict {
		return ErrConflict
	}
	if createErr != nil {
		return fmt.Errorf("create event: %w", createErr)
	}
	if updateErr != nil {
		return fmt.Errorf("update event: %w", updateErr)
	}

	if wasCreate {
		if cb.OnCreateEventFromMessageItem != nil {
			cb.OnCreateEventFromMessageItem(result.ID, result)
		}
		if cb.OnEventCreated != nil {
			cb.OnEventCreated(result.ID, result)
		}
	}
	if cb.RefetchEvents != nil {
		cb.RefetchEvents()
	}
	s.Close()
	return nil
}

// Delete removes the persisted event. Only the success path closes the
// dialog; a failure is returned to the caller untouched.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	event := s.event
	s.mu.Unlock()
	if event == nil {
		return errors.New("no persisted event to delete")
	}

	if err := s.api.DeleteEvent(ctx, event.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	cb := s.callbacks
	s.mu.Unlock()

	if cb.RefetchEvents != nil {
		cb.RefetchEvents()
	}
	if cb.OnEventDeleted != nil {
		cb.OnEventDeleted()
	}
	s.Close()
	return nil
}

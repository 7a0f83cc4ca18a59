package domain

import "time"

// Delivery is one scheduled reminder send, derived from a saved event's
// notifications: notify_at = event start - lead time.
type Delivery struct {
	ID         int64
	EventID    string
	UserID     string
	EventTitle string
	EventStart time.Time
	NotifyAt   time.Time
	SentAt     *time.Time
	CreatedAt  time.Time
}

// RecipientRoute maps an event-service user id to a deliverable chat.
type RecipientRoute struct {
	UserID         string
	Name           string
	TelegramChatID int64
}

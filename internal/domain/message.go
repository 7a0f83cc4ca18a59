package domain

import "time"

// Message is the source message an event can be created from. Its preview
// and info blocks are partial event shapes extracted by the messaging side;
// both may be absent.
type Message struct {
	ID           string
	Title        string
	Tags         []Tag
	Files        []File
	EventPreview *EventPreview
	EventInfo    *EventInfo
	Done         bool
	Deleted      bool
}

type Tag struct {
	ID   string
	Name string
}

// EventPreview is the coarse event guess rendered in the message list.
type EventPreview struct {
	Title       string
	Location    string
	Description string
}

// EventInfo is the richer extraction, including a time range when one was
// recognized in the message.
type EventInfo struct {
	Title       string
	Location    string
	Description string
	StartTime   *time.Time
	EndTime     *time.Time
}

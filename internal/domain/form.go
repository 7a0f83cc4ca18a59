package domain

// PeriodType is the human unit of a notification lead time.
type PeriodType string

const (
	PeriodMinute PeriodType = "Minute"
	PeriodHour   PeriodType = "Hour"
	PeriodDay    PeriodType = "Day"
	PeriodWeek   PeriodType = "Week"
)

// PeriodTypes lists the selectable units in display order.
var PeriodTypes = []PeriodType{PeriodMinute, PeriodHour, PeriodDay, PeriodWeek}

// NotificationItem is one editable reminder row of the form. Period is kept
// as the raw input string; rows with an empty period or the "none" recipient
// are placeholders that survive editing but are dropped on submission.
type NotificationItem struct {
	UserID     string
	Period     string
	PeriodType PeriodType
}

// EventForm is the editable state of the event dialog. Dates and times are
// the form's display strings (locale short date, 24h clock); canonical
// instants are produced only at submission.
type EventForm struct {
	Title         string
	Location      string
	Description   string
	StartDate     string
	StartTime     string
	EndDate       string
	EndTime       string
	AllDay        bool
	Notifications []NotificationItem
	Attachments   []File
}

// Clone returns a deep copy of the form. Reducer results never alias the
// slices of their input.
func (f EventForm) Clone() EventForm {
	out := f
	if f.Notifications != nil {
		out.Notifications = make([]NotificationItem, len(f.Notifications))
		copy(out.Notifications, f.Notifications)
	}
	if f.Attachments != nil {
		out.Attachments = make([]File, len(f.Attachments))
		copy(out.Attachments, f.Attachments)
	}
	return out
}

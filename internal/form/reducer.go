// Package form holds the pure state machine behind the event dialog. All
// edits flow through Apply; nothing here touches the network or the clock.
package form

import "github.com/evermail/eventdialog/internal/domain"

// Field names addressable by SetField.
type Field string

const (
	FieldTitle       Field = "title"
	FieldLocation    Field = "location"
	FieldDescription Field = "description"
	FieldStartDate   Field = "startDate"
	FieldStartTime   Field = "startTime"
	FieldEndDate     Field = "endDate"
	FieldEndTime     Field = "endTime"
)

// NotificationField names the editable parts of one reminder row.
type NotificationField string

const (
	NotificationUserID     NotificationField = "userId"
	NotificationPeriod     NotificationField = "period"
	NotificationPeriodType NotificationField = "periodType"
)

// Action is one edit applied to the form. The set is closed; anything else
// (including nil) leaves the state untouched.
type Action interface{ isAction() }

// SetField sets a single scalar field, all others unchanged.
type SetField struct {
	Field Field
	Value string
}

// SetAllDay toggles the all-day flag.
type SetAllDay struct {
	Value bool
}

// Reset replaces the whole form with a derived one. Applying the same Reset
// twice yields the same state.
type Reset struct {
	Form domain.EventForm
}

// SetNotificationField updates one field of the reminder row at Index.
// Out-of-range indexes are ignored.
type SetNotificationField struct {
	Index int
	Field NotificationField
	Value string
}

// AddNotification appends an unset reminder row ("none" recipient, empty
// period, minutes).
type AddNotification struct{}

// RemoveNotification deletes the reminder row at Index, later rows shift
// down. Out-of-range indexes are ignored.
type RemoveNotification struct {
	Index int
}

// RemoveAttachment deletes the attachment at Index, later files shift down.
type RemoveAttachment struct {
	Index int
}

func (SetField) isAction()             {}
func (SetAllDay) isAction()            {}
func (Reset) isAction()                {}
func (SetNotificationField) isAction() {}
func (AddNotification) isAction()      {}
func (RemoveNotification) isAction()   {}
func (RemoveAttachment) isAction()     {}

// Apply returns the state after the action. The input state is never
// mutated; result slices never alias the input's.
func Apply(state domain.EventForm, action Action) domain.EventForm {
	switch a := action.(type) {
	case SetField:
		return applySetField(state, a)
	case SetAllDay:
		next := state.Clone()
		next.AllDay = a.Value
		return next
	case Reset:
		return a.Form.Clone()
	case SetNotificationField:
		return applySetNotificationField(state, a)
	case AddNotification:
		next := state.Clone()
		next.Notifications = append(next.Notifications, domain.NotificationItem{
			UserID:     domain.RecipientNone,
			Period:     "",
			PeriodType: domain.PeriodMinute,
		})
		return next
	case RemoveNotification:
		if a.Index < 0 || a.Index >= len(state.Notifications) {
			return state
		}
		next := state.Clone()
		next.Notifications = append(next.Notifications[:a.Index], next.Notifications[a.Index+1:]...)
		return next
	case RemoveAttachment:
		if a.Index < 0 || a.Index >= len(state.Attachments) {
			return state
		}
		next := state.Clone()
		next.Attachments = append(next.Attachments[:a.Index], next.Attachments[a.Index+1:]...)
		return next
	default:
		return state
	}
}

func applySetField(state domain.EventForm, a SetField) domain.EventForm {
	next := state.Clone()
	switch a.Field {
	case FieldTitle:
		next.Title = a.Value
	case FieldLocation:
		next.Location = a.Value
	case FieldDescription:
		next.Description = a.Value
	case FieldStartDate:
		next.StartDate = a.Value
	case FieldStartTime:
		next.StartTime = a.Value
	case FieldEndDate:
		next.EndDate = a.Value
	case FieldEndTime:
		next.EndTime = a.Value
	default:
		return state
	}
	return next
}

func applySetNotificationField(state domain.EventForm, a SetNotificationField) domain.EventForm {
	if a.Index < 0 || a.Index >= len(state.Notifications) {
		return state
	}
	next := state.Clone()
	item := &next.Notifications[a.Index]
	switch a.Field {
	case NotificationUserID:
		item.UserID = a.Value
	case NotificationPeriod:
		item.Period = a.Value
	case NotificationPeriodType:
		item.PeriodType = domain.PeriodType(a.Value)
	default:
		return state
	}
	return next
}

package domain

// RecipientNone is the placeholder recipient id of an unset notification row.
const RecipientNone = "none"

type User struct {
	ID        string
	Name      string
	Email     string
	Calendars []Calendar
}

type Calendar struct {
	ID   string
	Name string
}

// SharedAccess lists the users whose calendars are shared with the current
// user. Target users are the candidate notification recipients.
type SharedAccess struct {
	TargetUsers []User
}

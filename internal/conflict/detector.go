// Package conflict merges the two independent scheduling-conflict signals:
// the flag held on the event itself and the structured error code returned
// by a create or update mutation.
package conflict

import (
	"errors"

	"github.com/evermail/eventdialog/internal/domain"
)

// CodeHasConflict is the structured error code the event service returns
// when a mutation succeeded at transport level but the range overlaps
// another event.
const CodeHasConflict = "has_conflict"

// Coder is implemented by structured API errors that carry a service error
// code.
type Coder interface {
	Code() string
}

// HasConflict reports whether the event is in conflict, either by its own
// server-held flag or because a mutation reported has_conflict. A true
// result must keep the dialog open and suppress success-only callbacks.
func HasConflict(event *domain.Event, createErr, updateErr error) bool {
	if event != nil && event.Conflict {
		return true
	}
	return isConflictError(createErr) || isConflictError(updateErr)
}

func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	var coder Coder
	return errors.As(err, &coder) && coder.Code() == CodeHasConflict
}

// Package sharing resolves the recipient enumeration offered for
// notification selection.
package sharing

import "github.com/evermail/eventdialog/internal/domain"

// Resolve merges the shared-access target users with the current user:
// shared users keep their given order, the current user is appended only
// when not already among them. The result is the selectable domain, not a
// restriction — a persisted event may carry recipients outside this list
// and they stay valid until the user changes them.
func Resolve(sharedTargetUsers []domain.User, currentUser domain.User) []domain.User {
	out := make([]domain.User, 0, len(sharedTargetUsers)+1)
	out = append(out, sharedTargetUsers...)

	for _, u := range out {
		if u.ID == currentUser.ID {
			return out
		}
	}
	return append(out, currentUser)
}

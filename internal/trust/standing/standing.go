// Package standing derives a user's current access state from their
// moderation-action history.
//
// # Purity
//
// Compute is deterministic and side-effect-free: identical (actions, now)
// inputs always yield an identical [UserStanding]. Standing is therefore
// never stored or cached; every read recomputes from the latest committed
// ledger snapshot, which keeps time-based suspension expiry correct without
// extra writes and lets concurrent readers proceed without locking.
package standing

import (
	"time"

	"github.com/flightdeck-aero/flightdeck/internal/trust/action"
	"github.com/flightdeck-aero/flightdeck/pkg/slice"
)

// AccessLevel classifies a user's derived standing.
type AccessLevel string

const (
	AccessActive    AccessLevel = "active"
	AccessWarned    AccessLevel = "warned"
	AccessSuspended AccessLevel = "suspended"
	AccessBanned    AccessLevel = "banned"
)

// UserStanding is the derived access state of a user. It is computed on
// every read and never persisted.
type UserStanding struct {
	UserID         string      `json:"user_id"`
	ActiveWarnings int         `json:"active_warnings"`
	ActiveStrikes  int         `json:"active_strikes"`
	SuspendedUntil *time.Time  `json:"suspended_until,omitempty"`
	IsBanned       bool        `json:"is_banned"`
	AccessLevel    AccessLevel `json:"access_level"`
}

// Compute maps a user's ledger plus "now" to their current standing.
//
// # Restore semantics
//
// A restore is a hard reset: it clears the ban flag, all active warnings
// and strikes, and any suspension issued before it. Only entries issued
// strictly after the latest restore contribute to standing.
//
// # Access level priority
//
// banned > suspended > warned > active; the highest applicable level wins.
func Compute(userID string, actions []action.ModerationAction, now time.Time) UserStanding {
	result := UserStanding{UserID: userID, AccessLevel: AccessActive}

	// The most recent ban-or-restore entry decides the ban flag. Entries
	// arrive newest first from the ledger, but ordering is re-derived here
	// so the function stays correct for any input order.
	latestRestore := latestOfType(actions, action.TypeRestore)
	latestBanOrRestore := latestWhere(actions, func(a action.ModerationAction) bool {
		return a.ActionType == action.TypeBan || a.ActionType == action.TypeRestore
	})
	result.IsBanned = latestBanOrRestore != nil && latestBanOrRestore.ActionType == action.TypeBan

	// Only entries after the latest restore contribute to counters.
	relevant := slice.Filter(actions, func(a action.ModerationAction) bool {
		return latestRestore == nil || issuedAfter(a, *latestRestore)
	})

	for _, a := range relevant {
		if !isLive(a, now) {
			continue
		}

		switch a.ActionType {
		case action.TypeWarning:
			result.ActiveWarnings++
		case action.TypeStrike:
			result.ActiveStrikes++
		case action.TypeSuspend:
			if result.SuspendedUntil == nil || a.SuspensionEndDate.After(*result.SuspendedUntil) {
				result.SuspendedUntil = a.SuspensionEndDate
			}
		}
	}

	switch {
	case result.IsBanned:
		result.AccessLevel = AccessBanned
	case result.SuspendedUntil != nil && now.Before(*result.SuspendedUntil):
		result.AccessLevel = AccessSuspended
	case result.ActiveWarnings > 0 || result.ActiveStrikes > 0:
		result.AccessLevel = AccessWarned
	}

	return result
}

// isLive reports whether an entry still counts at the given instant.
// Suspensions expire purely by time; no superseding write is required.
func isLive(a action.ModerationAction, now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.ActionType == action.TypeSuspend {
		return a.SuspensionEndDate != nil && now.Before(*a.SuspensionEndDate)
	}
	return true
}

// issuedAfter orders entries by (IssuedAt, ID). IDs are UUIDv7, so the
// identifier tie-break preserves true issue order for same-timestamp rows.
func issuedAfter(a, reference action.ModerationAction) bool {
	if a.IssuedAt.Equal(reference.IssuedAt) {
		return a.ID > reference.ID
	}
	return a.IssuedAt.After(reference.IssuedAt)
}

func latestOfType(actions []action.ModerationAction, actionType action.Type) *action.ModerationAction {
	return latestWhere(actions, func(a action.ModerationAction) bool {
		return a.ActionType == actionType
	})
}

func latestWhere(actions []action.ModerationAction, match func(action.ModerationAction) bool) *action.ModerationAction {
	var latest *action.ModerationAction
	for index := range actions {
		candidate := &actions[index]
		if !match(*candidate) {
			continue
		}
		if latest == nil || issuedAfter(*candidate, *latest) {
			latest = candidate
		}
	}
	return latest
}

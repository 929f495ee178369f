package action

import "context"

// Ledger is the storage contract for the append-only action sequence.
//
// No implementation may expose an update or delete path: the audit trail
// that compliance review depends on requires physical immutability.
type Ledger interface {
	// Append validates nothing itself; callers run [ModerationAction.Validate]
	// first. It persists the entry and returns a storage failure untouched.
	Append(ctx context.Context, entry *ModerationAction) error

	// FindByID retrieves a single ledger entry.
	FindByID(ctx context.Context, id string) (*ModerationAction, error)

	// HistoryFor returns every entry for a user, newest first, ties broken
	// by id. Each call runs a fresh query; there is no stateful cursor.
	HistoryFor(ctx context.Context, userID string) ([]ModerationAction, error)
}

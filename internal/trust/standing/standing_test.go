package standing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/trust/action"
	"github.com/flightdeck-aero/flightdeck/internal/trust/standing"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// entry builds a ledger entry n minutes after t0. IDs encode the offset so
// same-instant tie-breaks stay deterministic.
func entry(id string, actionType action.Type, minutesAfterT0 int, end *time.Time) action.ModerationAction {
	return action.ModerationAction{
		ID:                id,
		TargetUserID:      "user-42",
		ActionType:        actionType,
		Reason:            "test conduct",
		Severity:          action.SeverityNormal,
		IssuedByActorID:   "actor-1",
		IssuedByRole:      sec.RoleMaster,
		IssuedAt:          t0.Add(time.Duration(minutesAfterT0) * time.Minute),
		SuspensionEndDate: end,
		IsActive:          true,
	}
}

func TestCompute_EmptyHistory(t *testing.T) {
	got := standing.Compute("user-42", nil, t0)

	assert.Equal(t, standing.AccessActive, got.AccessLevel)
	assert.Zero(t, got.ActiveWarnings)
	assert.Zero(t, got.ActiveStrikes)
	assert.Nil(t, got.SuspendedUntil)
	assert.False(t, got.IsBanned)
}

// Two warnings and a strike with no restore in between escalate standing
// to warned with both counters populated.
func TestCompute_WarningsAndStrikesAccumulate(t *testing.T) {
	history := []action.ModerationAction{
		entry("a1", action.TypeWarning, 0, nil),
		entry("a2", action.TypeWarning, 10, nil),
		entry("a3", action.TypeStrike, 20, nil),
	}

	got := standing.Compute("user-42", history, t0.Add(time.Hour))

	assert.Equal(t, 2, got.ActiveWarnings)
	assert.Equal(t, 1, got.ActiveStrikes)
	assert.Equal(t, standing.AccessWarned, got.AccessLevel)
	assert.False(t, got.IsBanned)
}

// A 7-day suspension reads as suspended at t0+3d and expires at t0+8d
// without any follow-up write.
func TestCompute_SuspensionExpiresByTimeAlone(t *testing.T) {
	end := t0.Add(7 * 24 * time.Hour)
	history := []action.ModerationAction{
		entry("s1", action.TypeSuspend, 0, &end),
	}

	during := standing.Compute("user-42", history, t0.Add(3*24*time.Hour))
	assert.Equal(t, standing.AccessSuspended, during.AccessLevel)
	require.NotNil(t, during.SuspendedUntil)
	assert.True(t, during.SuspendedUntil.Equal(end))

	// Identical inputs at two instants before expiry agree.
	alsoDuring := standing.Compute("user-42", history, t0.Add(5*24*time.Hour))
	assert.Equal(t, standing.AccessSuspended, alsoDuring.AccessLevel)

	after := standing.Compute("user-42", history, t0.Add(8*24*time.Hour))
	assert.Equal(t, standing.AccessActive, after.AccessLevel)
	assert.Nil(t, after.SuspendedUntil)
}

func TestCompute_LongestSuspensionWins(t *testing.T) {
	shortEnd := t0.Add(2 * 24 * time.Hour)
	longEnd := t0.Add(9 * 24 * time.Hour)
	history := []action.ModerationAction{
		entry("s1", action.TypeSuspend, 0, &longEnd),
		entry("s2", action.TypeSuspend, 30, &shortEnd),
	}

	got := standing.Compute("user-42", history, t0.Add(24*time.Hour))
	require.NotNil(t, got.SuspendedUntil)
	assert.True(t, got.SuspendedUntil.Equal(longEnd))
}

// A ban always dominates concurrent warnings, strikes, and suspensions.
func TestCompute_BanDominates(t *testing.T) {
	end := t0.Add(7 * 24 * time.Hour)
	history := []action.ModerationAction{
		entry("a1", action.TypeWarning, 0, nil),
		entry("a2", action.TypeStrike, 5, nil),
		entry("s1", action.TypeSuspend, 10, &end),
		entry("b1", action.TypeBan, 15, nil),
	}

	got := standing.Compute("user-42", history, t0.Add(time.Hour))
	assert.True(t, got.IsBanned)
	assert.Equal(t, standing.AccessBanned, got.AccessLevel)
}

// Restore is a hard reset: it clears the ban, all counters, and any
// suspension issued before it.
func TestCompute_RestoreClearsEverything(t *testing.T) {
	end := t0.Add(7 * 24 * time.Hour)
	history := []action.ModerationAction{
		entry("a1", action.TypeWarning, 0, nil),
		entry("s1", action.TypeSuspend, 5, &end),
		entry("b1", action.TypeBan, 10, nil),
		entry("r1", action.TypeRestore, 20, nil),
	}

	got := standing.Compute("user-42", history, t0.Add(time.Hour))

	assert.False(t, got.IsBanned)
	assert.Zero(t, got.ActiveWarnings)
	assert.Zero(t, got.ActiveStrikes)
	assert.Nil(t, got.SuspendedUntil)
	assert.Equal(t, standing.AccessActive, got.AccessLevel)
}

// A ban issued after the latest restore re-bans the user.
func TestCompute_BanAfterRestore(t *testing.T) {
	history := []action.ModerationAction{
		entry("b1", action.TypeBan, 0, nil),
		entry("r1", action.TypeRestore, 10, nil),
		entry("b2", action.TypeBan, 20, nil),
	}

	got := standing.Compute("user-42", history, t0.Add(time.Hour))
	assert.True(t, got.IsBanned)
	assert.Equal(t, standing.AccessBanned, got.AccessLevel)
}

// Warnings issued after a restore count again.
func TestCompute_CountersRestartAfterRestore(t *testing.T) {
	history := []action.ModerationAction{
		entry("a1", action.TypeWarning, 0, nil),
		entry("a2", action.TypeWarning, 5, nil),
		entry("r1", action.TypeRestore, 10, nil),
		entry("a3", action.TypeWarning, 20, nil),
	}

	got := standing.Compute("user-42", history, t0.Add(time.Hour))
	assert.Equal(t, 1, got.ActiveWarnings)
	assert.Equal(t, standing.AccessWarned, got.AccessLevel)
}

// Deactivated entries never contribute, whatever their type.
func TestCompute_InactiveEntriesIgnored(t *testing.T) {
	inactive := entry("a1", action.TypeWarning, 0, nil)
	inactive.IsActive = false

	got := standing.Compute("user-42", []action.ModerationAction{inactive}, t0.Add(time.Hour))
	assert.Zero(t, got.ActiveWarnings)
	assert.Equal(t, standing.AccessActive, got.AccessLevel)
}

// Compute must not depend on input ordering: the ledger serves newest
// first, but any permutation yields the same standing.
func TestCompute_OrderIndependent(t *testing.T) {
	end := t0.Add(7 * 24 * time.Hour)
	newestFirst := []action.ModerationAction{
		entry("s1", action.TypeSuspend, 30, &end),
		entry("r1", action.TypeRestore, 20, nil),
		entry("b1", action.TypeBan, 10, nil),
		entry("a1", action.TypeWarning, 0, nil),
	}
	oldestFirst := []action.ModerationAction{
		newestFirst[3], newestFirst[2], newestFirst[1], newestFirst[0],
	}

	now := t0.Add(time.Hour)
	assert.Equal(t, standing.Compute("user-42", newestFirst, now), standing.Compute("user-42", oldestFirst, now))
}

// Same-instant ban and restore resolve by identifier order (UUIDv7 encodes
// issue order at millisecond granularity).
func TestCompute_SameInstantTieBreaksOnID(t *testing.T) {
	ban := entry("01-ban", action.TypeBan, 0, nil)
	restore := entry("02-restore", action.TypeRestore, 0, nil)

	got := standing.Compute("user-42", []action.ModerationAction{ban, restore}, t0.Add(time.Minute))
	assert.False(t, got.IsBanned)
}

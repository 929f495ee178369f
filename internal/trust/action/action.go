// Package action defines the moderation action ledger: the append-only,
// immutable record of every moderation decision taken against a user.
//
// The ledger is the single source of truth for a user's standing. Entries
// are never edited or removed; corrections are expressed as new entries
// (a `restore` supersedes earlier state rather than mutating it).
package action

import (
	"time"

	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/platform/validate"
)

// Type enumerates the kinds of moderation actions staff can issue.
type Type string

const (
	TypeWarning Type = "warning"
	TypeStrike  Type = "strike"
	TypeSuspend Type = "suspend"
	TypeBan     Type = "ban"
	TypeRestore Type = "restore"
)

// Types returns the valid action type values, used for enum validation.
func Types() []string {
	return []string{
		string(TypeWarning), string(TypeStrike), string(TypeSuspend),
		string(TypeBan), string(TypeRestore),
	}
}

// Severity grades how serious the underlying conduct was.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityNormal   Severity = "normal"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities returns the valid severity values, used for enum validation.
func Severities() []string {
	return []string{
		string(SeverityLow), string(SeverityNormal),
		string(SeverityHigh), string(SeverityCritical),
	}
}

// ModerationAction is one immutable ledger entry.
//
// # Rules
//   - Reason is non-empty.
//   - SuspensionEndDate is present and strictly after IssuedAt iff
//     ActionType is suspend; it must be absent otherwise.
//   - Entries are never updated in place. Superseding effects (e.g. a
//     restore) are expressed as new entries.
type ModerationAction struct {
	ID                string     `json:"id"`
	TargetUserID      string     `json:"target_user_id"`
	ActionType        Type       `json:"action_type"`
	Reason            string     `json:"reason"`
	Severity          Severity   `json:"severity"`
	IssuedByActorID   string     `json:"issued_by_actor_id"`
	IssuedByRole      sec.Role   `json:"issued_by_role"`
	IssuedAt          time.Time  `json:"issued_at"`
	SuspensionEndDate *time.Time `json:"suspension_end_date,omitempty"`
	IsActive          bool       `json:"is_active"`
}

// Validate checks the ledger invariants before an entry is appended.
// It returns a VALIDATION_ERROR [apperr.AppError] describing every violated
// field, or nil when the entry is well-formed.
func (a *ModerationAction) Validate() error {
	v := &validate.Validator{}

	v.Required("target_user_id", a.TargetUserID).
		Required("reason", a.Reason).
		MaxLen("reason", a.Reason, 500).
		OneOf("action_type", string(a.ActionType), Types()...).
		OneOf("severity", string(a.Severity), Severities()...).
		Required("issued_by_actor_id", a.IssuedByActorID)

	if a.ActionType == TypeSuspend {
		if a.SuspensionEndDate == nil {
			v.Custom("suspension_end_date", true, "Required for suspend actions")
		} else {
			v.Future("suspension_end_date", *a.SuspensionEndDate, a.IssuedAt)
		}
	} else if a.SuspensionEndDate != nil {
		v.Custom("suspension_end_date", true, "Only allowed for suspend actions")
	}

	return v.Err()
}

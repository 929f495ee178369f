package alert

import (
	"encoding/json"
	"time"
)

// Status is a bad-conduct alert's position in the review workflow.
type Status string

const (
	StatusPending       Status = "pending"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
	StatusDismissed     Status = "dismissed"
)

// Statuses returns the valid status values, used for enum validation.
func Statuses() []string {
	return []string{
		string(StatusPending), string(StatusInvestigating),
		string(StatusResolved), string(StatusDismissed),
	}
}

// transitions is the full state machine. A status missing from the map is
// terminal.
var transitions = map[Status][]Status{
	StatusPending:       {StatusInvestigating, StatusResolved, StatusDismissed},
	StatusInvestigating: {StatusResolved, StatusDismissed},
}

// IsValid reports whether the status is a known workflow state.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInvestigating, StatusResolved, StatusDismissed:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outbound transitions.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether the state machine permits moving from
// s to target. Unknown statuses on either side yield false.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Severity grades how urgent the detected conduct is. Note that alerts use
// "medium" where moderation actions use "normal"; the scales come from
// different producers and are not interchangeable.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities returns the valid severity values, used for enum validation.
func Severities() []string {
	return []string{
		string(SeverityLow), string(SeverityMedium),
		string(SeverityHigh), string(SeverityCritical),
	}
}

// Type identifies which detector signal produced the alert.
type Type string

const (
	TypeMultipleFailedLogins Type = "multiple_failed_logins"
	TypeCredentialStuffing   Type = "credential_stuffing"
	TypeSpamMessaging        Type = "spam_messaging"
	TypeListingFlood         Type = "listing_flood"
	TypePaymentFraud         Type = "payment_fraud"
	TypeScrapingDetected     Type = "scraping_detected"
)

// Types returns the valid alert type values, used for enum validation.
func Types() []string {
	return []string{
		string(TypeMultipleFailedLogins), string(TypeCredentialStuffing),
		string(TypeSpamMessaging), string(TypeListingFlood),
		string(TypePaymentFraud), string(TypeScrapingDetected),
	}
}

// BadConductAlert is one detector-generated signal about a member.
//
// Metadata is an opaque payload owned by the detector (request counts,
// IP ranges, timing windows). The engine stores and returns it verbatim
// and never interprets it.
type BadConductAlert struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	AlertType         Type            `json:"alert_type"`
	Severity          Severity        `json:"severity"`
	Description       string          `json:"description"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
	Status            Status          `json:"status"`
	ReviewedByActorID *string         `json:"reviewed_by_actor_id,omitempty"`
	ReviewedAt        *time.Time      `json:"reviewed_at,omitempty"`
	ResolutionNotes   *string         `json:"resolution_notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

package report

import "time"

// Status is a content report's position in the review workflow.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusActioned  Status = "actioned"
	StatusDismissed Status = "dismissed"
)

// Statuses returns the valid status values, used for enum validation.
func Statuses() []string {
	return []string{
		string(StatusPending), string(StatusReviewed),
		string(StatusActioned), string(StatusDismissed),
	}
}

// transitions is the full state machine. A status missing from the map is
// terminal. Nothing ever moves back to pending.
var transitions = map[Status][]Status{
	StatusPending:  {StatusReviewed, StatusActioned, StatusDismissed},
	StatusReviewed: {StatusActioned, StatusDismissed},
}

// IsValid reports whether the status is a known workflow state.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusActioned, StatusDismissed:
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

// ContentType identifies which collaborator-owned surface a report points at.
// The engine never reads the referenced content, only the report record.
type ContentType string

const (
	ContentListing    ContentType = "listing"
	ContentClassified ContentType = "classified"
	ContentForumPost  ContentType = "forum_post"
	ContentProfile    ContentType = "profile"
	ContentMessage    ContentType = "message"
)

// ContentTypes returns the valid content type values, used for enum validation.
func ContentTypes() []string {
	return []string{
		string(ContentListing), string(ContentClassified),
		string(ContentForumPost), string(ContentProfile),
		string(ContentMessage),
	}
}

// ContentReport is one member-filed complaint.
//
// The review fields (ReviewedByActorID, ReviewedAt, AdminNotes) are nil
// until the first transition out of pending and are overwritten on each
// subsequent transition, so they always describe the latest review step.
type ContentReport struct {
	ID                string      `json:"id"`
	ReporterUserID    string      `json:"reporter_user_id"`
	ContentType       ContentType `json:"content_type"`
	ContentID         string      `json:"content_id"`
	Reason            string      `json:"reason"`
	Details           *string     `json:"details,omitempty"`
	Status            Status      `json:"status"`
	ReviewedByActorID *string     `json:"reviewed_by_actor_id,omitempty"`
	ReviewedAt        *time.Time  `json:"reviewed_at,omitempty"`
	AdminNotes        *string     `json:"admin_notes,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

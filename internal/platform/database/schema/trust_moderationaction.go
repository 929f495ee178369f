package schema

// TrustModerationActionTable represents the 'trust.moderationaction' table
type TrustModerationActionTable struct {
	Table             string
	ID                string
	TargetUserID      string
	ActionType        string
	Reason            string
	Severity          string
	IssuedByActorID   string
	IssuedByRole      string
	IssuedAt          string
	SuspensionEndDate string
	IsActive          string
}

// TrustModerationAction is the schema definition for trust.moderationaction
var TrustModerationAction = TrustModerationActionTable{
	Table:             "trust.moderationaction",
	ID:                "id",
	TargetUserID:      "targetuserid",
	ActionType:        "actiontype",
	Reason:            "reason",
	Severity:          "severity",
	IssuedByActorID:   "issuedbyactorid",
	IssuedByRole:      "issuedbyrole",
	IssuedAt:          "issuedat",
	SuspensionEndDate: "suspensionenddate",
	IsActive:          "isactive",
}

// Columns returns all standard column names
func (t TrustModerationActionTable) Columns() []string {
	return []string{
		t.ID, t.TargetUserID, t.ActionType, t.Reason, t.Severity,
		t.IssuedByActorID, t.IssuedByRole, t.IssuedAt, t.SuspensionEndDate,
		t.IsActive,
	}
}

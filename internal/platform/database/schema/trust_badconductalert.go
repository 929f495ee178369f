package schema

// TrustBadConductAlertTable represents the 'trust.badconductalert' table
type TrustBadConductAlertTable struct {
	Table             string
	ID                string
	UserID            string
	AlertType         string
	Severity          string
	Description       string
	Metadata          string
	Status            string
	ReviewedByActorID string
	ReviewedAt        string
	ResolutionNotes   string
	CreatedAt         string
}

// TrustBadConductAlert is the schema definition for trust.badconductalert
var TrustBadConductAlert = TrustBadConductAlertTable{
	Table:             "trust.badconductalert",
	ID:                "id",
	UserID:            "userid",
	AlertType:         "alerttype",
	Severity:          "severity",
	Description:       "description",
	Metadata:          "metadata",
	Status:            "status",
	ReviewedByActorID: "reviewedbyactorid",
	ReviewedAt:        "reviewedat",
	ResolutionNotes:   "resolutionnotes",
	CreatedAt:         "createdat",
}

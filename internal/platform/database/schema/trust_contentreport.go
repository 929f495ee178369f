package schema

// TrustContentReportTable represents the 'trust.contentreport' table
type TrustContentReportTable struct {
	Table             string
	ID                string
	ReporterUserID    string
	ContentType       string
	ContentID         string
	Reason            string
	Details           string
	Status            string
	ReviewedByActorID string
	ReviewedAt        string
	AdminNotes        string
	CreatedAt         string
}

// TrustContentReport is the schema definition for trust.contentreport
var TrustContentReport = TrustContentReportTable{
	Table:             "trust.contentreport",
	ID:                "id",
	ReporterUserID:    "reporteruserid",
	ContentType:       "contenttype",
	ContentID:         "contentid",
	Reason:            "reason",
	Details:           "details",
	Status:            "status",
	ReviewedByActorID: "reviewedbyactorid",
	ReviewedAt:        "reviewedat",
	AdminNotes:        "adminnotes",
	CreatedAt:         "createdat",
}

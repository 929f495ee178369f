package report

import (
	"context"
	"errors"
	"time"
)

// ErrStaleStatus signals a lost compare-and-set: the row exists but its
// status is no longer the one the caller read.
var ErrStaleStatus = errors.New("report_status_stale")

// Filter narrows a report listing. Empty slices mean "no filter".
type Filter struct {
	Statuses []string
}

// Review carries the audit fields written by a workflow transition.
type Review struct {
	ActorID    string
	Notes      *string
	ReviewedAt time.Time
}

// Repository is the storage contract for content reports.
//
// There is intentionally no Delete: reports are part of the audit trail
// and only ever move through their status workflow.
type Repository interface {
	Create(ctx context.Context, r *ContentReport) error

	FindByID(ctx context.Context, id string) (*ContentReport, error)

	// List returns reports newest first, ties broken by id, plus the total
	// count matching the filter.
	List(ctx context.Context, f Filter, limit, offset int) ([]*ContentReport, int, error)

	// TransitionStatus atomically moves a report from expected to target and
	// records the review. It is a compare-and-set: when the row's current
	// status is not expected (a concurrent reviewer won), no write happens
	// and ErrStaleStatus is returned so the caller can re-read and report
	// the real conflict.
	TransitionStatus(ctx context.Context, id string, expected, target Status, review Review) (*ContentReport, error)
}

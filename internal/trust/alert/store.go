package alert

import (
	"context"
	"errors"
	"time"
)

// ErrStaleStatus signals a lost compare-and-set: the row exists but its
// status is no longer the one the caller read.
var ErrStaleStatus = errors.New("alert_status_stale")

// Filter narrows an alert listing. Empty slices mean "no filter".
type Filter struct {
	Severities []string
	Statuses   []string
}

// Review carries the audit fields written by a workflow transition.
type Review struct {
	ActorID    string
	Notes      *string
	ReviewedAt time.Time
}

// Repository is the storage contract for bad-conduct alerts.
//
// There is intentionally no Delete: alerts are part of the audit trail
// and only ever move through their status workflow.
type Repository interface {
	Create(ctx context.Context, a *BadConductAlert) error

	FindByID(ctx context.Context, id string) (*BadConductAlert, error)

	// List returns alerts newest first, ties broken by id, plus the total
	// count matching the filter.
	List(ctx context.Context, f Filter, limit, offset int) ([]*BadConductAlert, int, error)

	// TransitionStatus atomically moves an alert from expected to target and
	// records the review. When the row's current status is not expected,
	// no write happens and ErrStaleStatus is returned.
	TransitionStatus(ctx context.Context, id string, expected, target Status, review Review) (*BadConductAlert, error)
}

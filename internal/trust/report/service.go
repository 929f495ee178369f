package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flightdeck-aero/flightdeck/internal/platform/apperr"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/platform/validate"
	"github.com/flightdeck-aero/flightdeck/pkg/uuidv7"
)

// Service orchestrates the content-report workflow: intake from members
// and status transitions by reviewing staff.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new report [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateInput is the member-supplied payload for filing a report.
type CreateInput struct {
	ReporterUserID string
	ContentType    string
	ContentID      string
	Reason         string
	Details        *string
}

// Create files a new report in status pending. Any authenticated member
// may file; no staff permission is involved.
func (service *Service) Create(ctx context.Context, input CreateInput) (*ContentReport, error) {
	v := &validate.Validator{}
	v.Required("reporter_user_id", input.ReporterUserID).
		OneOf("content_type", input.ContentType, ContentTypes()...).
		Required("content_id", input.ContentID).
		Required("reason", input.Reason).
		MaxLen("reason", input.Reason, 500)

	if input.Details != nil {
		v.MaxLen("details", *input.Details, 2000)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	r := &ContentReport{
		ID:             uuidv7.New(),
		ReporterUserID: input.ReporterUserID,
		ContentType:    ContentType(input.ContentType),
		ContentID:      input.ContentID,
		Reason:         input.Reason,
		Details:        input.Details,
		Status:         StatusPending,
		CreatedAt:      service.now().UTC(),
	}

	if err := service.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("report_service_create_failed: %w", err)
	}

	service.logger.Info("content_report_filed",
		slog.String("report_id", r.ID),
		slog.String("content_type", string(r.ContentType)),
	)

	return r, nil
}

// Get retrieves a single report. Read access requires view_reports.
func (service *Service) Get(ctx context.Context, actor *sec.AuthClaims, id string) (*ContentReport, error) {
	if err := authorizeReview(actor); err != nil {
		return nil, err
	}

	r, err := service.repo.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Report")
		}
		return nil, fmt.Errorf("report_service_get_failed: %w", err)
	}

	return r, nil
}

// List returns reports matching the filter, newest first.
func (service *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*ContentReport, int, error) {
	for _, status := range f.Statuses {
		if !Status(status).IsValid() {
			return nil, 0, validate.RequiredError("status", fmt.Sprintf("Unknown status %q", status))
		}
	}

	reports, total, err := service.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("report_service_list_failed: %w", err)
	}

	return reports, total, nil
}

// Transition moves a report to a new status on behalf of a reviewing actor.
//
// Rules:
//   - The actor must hold manage_content or manage_system, or be master.
//   - The state machine permits pending to any of reviewed/actioned/dismissed,
//     and reviewed to actioned/dismissed. Actioned and dismissed are terminal.
//   - Notes are mandatory when the target is actioned, so the audit trail
//     records what was done.
//
// Two concurrent transitions from the same prior status cannot both succeed;
// the loser observes the winner's status in the resulting error.
func (service *Service) Transition(ctx context.Context, actor *sec.AuthClaims, reportID string, target Status, notes *string) (*ContentReport, error) {
	if err := authorizeReview(actor); err != nil {
		return nil, err
	}

	if !target.IsValid() || target == StatusPending {
		return nil, validate.RequiredError("status", fmt.Sprintf("Unknown target status %q", target))
	}

	if target == StatusActioned && (notes == nil || strings.TrimSpace(*notes) == "") {
		return nil, validate.RequiredError("notes", "Notes are required when actioning a report")
	}

	current, err := service.repo.FindByID(ctx, reportID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Report")
		}
		return nil, fmt.Errorf("report_service_transition_lookup_failed: %w", err)
	}

	if !current.Status.CanTransitionTo(target) {
		return nil, apperr.InvalidTransition(string(current.Status), string(target))
	}

	review := Review{
		ActorID:    actor.ActorID,
		Notes:      notes,
		ReviewedAt: service.now().UTC(),
	}

	updated, err := service.repo.TransitionStatus(ctx, reportID, current.Status, target, review)
	if err != nil {
		// Lost the compare-and-set race: re-read to report the true source
		// state (or the report's disappearance) instead of retrying.
		if errors.Is(err, ErrStaleStatus) {
			fresh, lookupErr := service.repo.FindByID(ctx, reportID)
			if lookupErr != nil {
				return nil, apperr.NotFound("Report")
			}
			return nil, apperr.InvalidTransition(string(fresh.Status), string(target))
		}
		return nil, fmt.Errorf("report_service_transition_failed: %w", err)
	}

	service.logger.Info("content_report_transitioned",
		slog.String("report_id", reportID),
		slog.String("from", string(current.Status)),
		slog.String("to", string(target)),
		slog.String("actor_id", actor.ActorID),
	)

	return updated, nil
}

// authorizeReview gates every staff-side report operation.
func authorizeReview(actor *sec.AuthClaims) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !sec.CanReviewReports(actor.StaffRole()) {
		return apperr.Forbidden("Reviewing reports requires content or system moderation rights")
	}
	return nil
}

package alert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/flightdeck-aero/flightdeck/internal/platform/apperr"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/platform/validate"
	"github.com/flightdeck-aero/flightdeck/pkg/uuidv7"
)

// Service orchestrates the bad-conduct alert workflow: machine intake from
// the anomaly-detection collaborator and status transitions by staff.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new alert [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// IngestInput is the detector-supplied payload for raising an alert.
type IngestInput struct {
	UserID      string
	AlertType   string
	Severity    string
	Description string
	Metadata    json.RawMessage
}

// Ingest records a new alert in status pending. The caller is the external
// anomaly-detection service, authenticated by ingest key at the transport
// layer; no staff session is involved.
func (service *Service) Ingest(ctx context.Context, input IngestInput) (*BadConductAlert, error) {
	v := &validate.Validator{}
	v.Required("user_id", input.UserID).
		OneOf("alert_type", input.AlertType, Types()...).
		OneOf("severity", input.Severity, Severities()...).
		Required("description", input.Description).
		MaxLen("description", input.Description, 1000)

	if len(input.Metadata) > 0 && !json.Valid(input.Metadata) {
		v.Custom("metadata", true, "Must be a valid JSON document")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	a := &BadConductAlert{
		ID:          uuidv7.New(),
		UserID:      input.UserID,
		AlertType:   Type(input.AlertType),
		Severity:    Severity(input.Severity),
		Description: input.Description,
		Metadata:    input.Metadata,
		Status:      StatusPending,
		CreatedAt:   service.now().UTC(),
	}

	if err := service.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("alert_service_ingest_failed: %w", err)
	}

	service.logger.Info("conduct_alert_ingested",
		slog.String("alert_id", a.ID),
		slog.String("alert_type", string(a.AlertType)),
		slog.String("severity", string(a.Severity)),
	)

	return a, nil
}

// Get retrieves a single alert. Read access requires system moderation rights.
func (service *Service) Get(ctx context.Context, actor *sec.AuthClaims, id string) (*BadConductAlert, error) {
	if err := authorizeReview(actor); err != nil {
		return nil, err
	}

	a, err := service.repo.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Alert")
		}
		return nil, fmt.Errorf("alert_service_get_failed: %w", err)
	}

	return a, nil
}

// List returns alerts matching the filter, newest first.
func (service *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*BadConductAlert, int, error) {
	for _, severity := range f.Severities {
		if !slices.Contains(Severities(), severity) {
			return nil, 0, validate.RequiredError("severity", fmt.Sprintf("Unknown severity %q", severity))
		}
	}
	for _, status := range f.Statuses {
		if !Status(status).IsValid() {
			return nil, 0, validate.RequiredError("status", fmt.Sprintf("Unknown status %q", status))
		}
	}

	alerts, total, err := service.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("alert_service_list_failed: %w", err)
	}

	return alerts, total, nil
}

// Transition moves an alert to a new status on behalf of a reviewing actor.
//
// Rules:
//   - The actor must hold manage_system or be master.
//   - Pending may move to investigating, resolved, or dismissed;
//     investigating may move to resolved or dismissed. Resolved and
//     dismissed are terminal.
//   - Notes are mandatory when the target is resolved, so the audit trail
//     records how the conduct was handled.
func (service *Service) Transition(ctx context.Context, actor *sec.AuthClaims, alertID string, target Status, notes *string) (*BadConductAlert, error) {
	if err := authorizeReview(actor); err != nil {
		return nil, err
	}

	if !target.IsValid() || target == StatusPending {
		return nil, validate.RequiredError("status", fmt.Sprintf("Unknown target status %q", target))
	}

	if target == StatusResolved && (notes == nil || strings.TrimSpace(*notes) == "") {
		return nil, validate.RequiredError("notes", "Notes are required when resolving an alert")
	}

	current, err := service.repo.FindByID(ctx, alertID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Alert")
		}
		return nil, fmt.Errorf("alert_service_transition_lookup_failed: %w", err)
	}

	if !current.Status.CanTransitionTo(target) {
		return nil, apperr.InvalidTransition(string(current.Status), string(target))
	}

	review := Review{
		ActorID:    actor.ActorID,
		Notes:      notes,
		ReviewedAt: service.now().UTC(),
	}

	updated, err := service.repo.TransitionStatus(ctx, alertID, current.Status, target, review)
	if err != nil {
		if errors.Is(err, ErrStaleStatus) {
			fresh, lookupErr := service.repo.FindByID(ctx, alertID)
			if lookupErr != nil {
				return nil, apperr.NotFound("Alert")
			}
			return nil, apperr.InvalidTransition(string(fresh.Status), string(target))
		}
		return nil, fmt.Errorf("alert_service_transition_failed: %w", err)
	}

	service.logger.Info("conduct_alert_transitioned",
		slog.String("alert_id", alertID),
		slog.String("from", string(current.Status)),
		slog.String("to", string(target)),
		slog.String("actor_id", actor.ActorID),
	)

	return updated, nil
}

// authorizeReview gates every staff-side alert operation. Alerts can carry
// raw detector telemetry, so review stays with system moderation.
func authorizeReview(actor *sec.AuthClaims) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !sec.CanReviewAlerts(actor.StaffRole()) {
		return apperr.Forbidden("Reviewing conduct alerts requires system moderation rights")
	}
	return nil
}

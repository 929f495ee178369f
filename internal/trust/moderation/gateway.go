package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flightdeck-aero/flightdeck/internal/platform/apperr"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/platform/validate"
	"github.com/flightdeck-aero/flightdeck/internal/trust/action"
	"github.com/flightdeck-aero/flightdeck/internal/trust/alert"
	"github.com/flightdeck-aero/flightdeck/internal/trust/report"
	"github.com/flightdeck-aero/flightdeck/internal/trust/standing"
	"github.com/flightdeck-aero/flightdeck/internal/users/directory"
	"github.com/flightdeck-aero/flightdeck/pkg/uuidv7"
)

// ReportCloser closes out the content report that motivated an action.
// Satisfied by [report.Service].
type ReportCloser interface {
	Transition(ctx context.Context, actor *sec.AuthClaims, reportID string, target report.Status, notes *string) (*report.ContentReport, error)
}

// AlertCloser closes out the conduct alert that motivated an action.
// Satisfied by [alert.Service].
type AlertCloser interface {
	Transition(ctx context.Context, actor *sec.AuthClaims, alertID string, target alert.Status, notes *string) (*alert.BadConductAlert, error)
}

// Service is the orchestrating façade of the trust engine. It authorizes
// the acting staff member, validates the request, appends to the action
// ledger, and optionally closes out the report or alert that motivated
// the action. Standing is always derived fresh from the ledger at read
// time; nothing is cached at write time, so suspension expiry needs no
// follow-up write.
type Service struct {
	ledger      action.Ledger
	users       directory.Repository
	idempotency IdempotencyStore
	reports     ReportCloser
	alerts      AlertCloser
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs the moderation [Service].
func NewService(
	ledger action.Ledger,
	users directory.Repository,
	idempotency IdempotencyStore,
	reports ReportCloser,
	alerts AlertCloser,
	logger *slog.Logger,
) *Service {
	return &Service{
		ledger:      ledger,
		users:       users,
		idempotency: idempotency,
		reports:     reports,
		alerts:      alerts,
		logger:      logger,
		now:         time.Now,
	}
}

// ApplyActionInput is the staff-supplied payload for issuing an action.
type ApplyActionInput struct {
	TargetUserID   string
	ActionType     string
	Reason         string
	Severity       string
	SuspensionDays int

	// IdempotencyKey deduplicates transport-level retries. Empty means the
	// caller accepts that a retry may append twice.
	IdempotencyKey string

	// ReportID / AlertID name the workflow item that motivated the action;
	// it is closed out (actioned / resolved) after the ledger append.
	ReportID *string
	AlertID  *string
}

// ApplyAction issues a moderation action against a member.
//
// Rules:
//   - The actor must hold manage_system or be master. Moderation is
//     system-wide, independent of the content/business/finance verticals.
//   - Reason is mandatory. For suspend, SuspensionDays must be at least 1
//     and the end date becomes now + days. No other action type carries a
//     suspension length.
//   - The target member must exist in the directory.
//
// A repeated IdempotencyKey returns the previously issued action without
// touching the ledger. Storage failures surface to the caller untouched;
// the engine never retries a write whose ledger side effects are not
// idempotent.
func (service *Service) ApplyAction(ctx context.Context, actor *sec.AuthClaims, input ApplyActionInput) (*action.ModerationAction, error) {
	if err := authorizeModerate(actor); err != nil {
		return nil, err
	}

	// Replay check before any validation side effects.
	if input.IdempotencyKey != "" {
		existingID, err := service.idempotency.Lookup(ctx, input.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("moderation_service_idempotency_lookup_failed: %w", err)
		}
		if existingID != "" {
			replayed, err := service.ledger.FindByID(ctx, existingID)
			if err != nil {
				return nil, fmt.Errorf("moderation_service_replay_lookup_failed: %w", err)
			}
			service.logger.Info("moderation_action_replayed",
				slog.String("action_id", existingID),
				slog.String("actor_id", actor.ActorID),
			)
			return replayed, nil
		}
	}

	v := &validate.Validator{}
	v.Required("target_user_id", input.TargetUserID).
		OneOf("action_type", input.ActionType, action.Types()...).
		Required("reason", input.Reason).
		OneOf("severity", input.Severity, action.Severities()...)

	if action.Type(input.ActionType) == action.TypeSuspend {
		v.Min("suspension_days", input.SuspensionDays, 1)
	} else {
		v.Custom("suspension_days", input.SuspensionDays != 0, "Only allowed for suspend actions")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := service.users.FindByID(ctx, input.TargetUserID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("moderation_service_target_lookup_failed: %w", err)
	}

	issuedAt := service.now().UTC()
	entry := &action.ModerationAction{
		ID:              uuidv7.New(),
		TargetUserID:    input.TargetUserID,
		ActionType:      action.Type(input.ActionType),
		Reason:          input.Reason,
		Severity:        action.Severity(input.Severity),
		IssuedByActorID: actor.ActorID,
		IssuedByRole:    actor.StaffRole(),
		IssuedAt:        issuedAt,
		IsActive:        true,
	}

	if entry.ActionType == action.TypeSuspend {
		end := issuedAt.Add(time.Duration(input.SuspensionDays) * 24 * time.Hour)
		entry.SuspensionEndDate = &end
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := service.ledger.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("moderation_service_append_failed: %w", err)
	}

	if input.IdempotencyKey != "" {
		if err := service.idempotency.Remember(ctx, input.IdempotencyKey, entry.ID); err != nil {
			// The action is already on the ledger. Losing the key only
			// narrows the retry window, so log and keep going.
			service.logger.Warn("moderation_idempotency_remember_failed",
				slog.String("action_id", entry.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	service.logger.Info("moderation_action_issued",
		slog.String("action_id", entry.ID),
		slog.String("target_user_id", entry.TargetUserID),
		slog.String("action_type", string(entry.ActionType)),
		slog.String("severity", string(entry.Severity)),
		slog.String("actor_id", actor.ActorID),
	)

	// Close out the motivating workflow item. The ledger entry stands either
	// way; a closeout failure surfaces so the reviewer can finish it by hand.
	if input.ReportID != nil {
		notes := fmt.Sprintf("Moderation action %s issued: %s", entry.ActionType, entry.Reason)
		if _, err := service.reports.Transition(ctx, actor, *input.ReportID, report.StatusActioned, &notes); err != nil {
			return nil, fmt.Errorf("moderation_service_report_closeout_failed: %w", err)
		}
	}
	if input.AlertID != nil {
		notes := fmt.Sprintf("Moderation action %s issued: %s", entry.ActionType, entry.Reason)
		if _, err := service.alerts.Transition(ctx, actor, *input.AlertID, alert.StatusResolved, &notes); err != nil {
			return nil, fmt.Errorf("moderation_service_alert_closeout_failed: %w", err)
		}
	}

	return entry, nil
}

// Standing derives a member's current standing from their full ledger
// history and the clock. The result is never cached: suspension expiry is
// purely time-based, so the next read after the end date simply computes
// a different answer with no extra write.
func (service *Service) Standing(ctx context.Context, userID string) (*standing.UserStanding, error) {
	if _, err := service.users.FindByID(ctx, userID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("moderation_service_standing_lookup_failed: %w", err)
	}

	history, err := service.ledger.HistoryFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("moderation_service_standing_history_failed: %w", err)
	}

	current := standing.Compute(userID, history, service.now())
	return &current, nil
}

// History returns a member's full moderation record, newest first.
func (service *Service) History(ctx context.Context, userID string) ([]action.ModerationAction, error) {
	if _, err := service.users.FindByID(ctx, userID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("moderation_service_history_lookup_failed: %w", err)
	}

	history, err := service.ledger.HistoryFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("moderation_service_history_failed: %w", err)
	}

	return history, nil
}

// authorizeModerate gates every action issue.
func authorizeModerate(actor *sec.AuthClaims) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !sec.CanModerate(actor.StaffRole()) {
		return apperr.Forbidden("Issuing moderation actions requires system moderation rights")
	}
	return nil
}

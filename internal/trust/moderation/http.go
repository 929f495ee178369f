/*
Package moderation is the orchestrating façade of the trust engine: staff
issue moderation actions here, and standing and history are read back out.

The gateway authorizes the actor against the role hierarchy, validates the
request, appends an immutable entry to the action ledger, and optionally
closes out the report or alert that motivated the action. Standing is
derived fresh from the ledger on every read.

# Security

Issuing actions requires the manage_system permission or the master role.
Standing and history reads require view_reports.
*/
package moderation

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flightdeck-aero/flightdeck/internal/notify"
	"github.com/flightdeck-aero/flightdeck/internal/platform/constants"
	"github.com/flightdeck-aero/flightdeck/internal/platform/ctxutil"
	"github.com/flightdeck-aero/flightdeck/internal/platform/middleware"
	requestutil "github.com/flightdeck-aero/flightdeck/internal/platform/request"
	"github.com/flightdeck-aero/flightdeck/internal/platform/respond"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
)

// Handler implements the HTTP layer for the moderation gateway.
type Handler struct {
	moderationService *Service
	notifier          notify.Notifier
}

// NewHandler constructs a new moderation [Handler]. The notifier delivers
// the member-facing notice after a successful action; the gateway itself
// never sends anything.
func NewHandler(service *Service, notifier notify.Notifier) *Handler {
	return &Handler{moderationService: service, notifier: notifier}
}

// Routes returns a [chi.Router] configured with the gateway's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequirePermission(sec.PermManageSystem)).
		Post("/actions", handler.applyAction)

	router.Group(func(staff chi.Router) {
		staff.Use(middleware.RequirePermission(sec.PermViewReports))
		staff.Get("/users/{userID}/standing", handler.getStanding)
		staff.Get("/users/{userID}/history", handler.getHistory)
	})

	return router
}

// applyActionRequest defines the expected JSON payload for issuing an action.
type applyActionRequest struct {
	TargetUserID   string  `json:"target_user_id"`
	ActionType     string  `json:"action_type"`
	Reason         string  `json:"reason"`
	Severity       string  `json:"severity"`
	SuspensionDays int     `json:"suspension_days"`
	ReportID       *string `json:"report_id"`
	AlertID        *string `json:"alert_id"`
}

/*
POST /api/v1/moderation/actions.

Description: Issues a moderation action (warning, strike, suspend, ban,
restore) against a member and notifies them through the messaging outbox.

Request:
  - header: Idempotency-Key (optional; makes retries safe)
  - body: applyActionRequest

Response:
  - 201: ModerationAction: The persisted ledger entry
  - 400: Validation: Empty reason, bad enum, or bad suspension length
  - 403: ErrForbidden: Actor lacks system moderation rights
  - 404: ErrNotFound: Unknown target member
*/
func (handler *Handler) applyAction(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input applyActionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.moderationService.ApplyAction(request.Context(), actor, ApplyActionInput{
		TargetUserID:   input.TargetUserID,
		ActionType:     input.ActionType,
		Reason:         input.Reason,
		Severity:       input.Severity,
		SuspensionDays: input.SuspensionDays,
		IdempotencyKey: request.Header.Get(constants.HeaderIdempotencyKey),
		ReportID:       input.ReportID,
		AlertID:        input.AlertID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Member notification goes through the outbox here, at the caller, so
	// the gateway's side effects stay limited to the ledger. Delivery
	// failure must not fail an already-recorded action.
	handler.notifyTarget(request, issued.TargetUserID, string(issued.ActionType), issued.Reason)

	respond.Created(writer, issued)
}

/*
GET /api/v1/moderation/users/{userID}/standing.

Description: Derives the member's current standing from their ledger history.

Request:
  - userID: string (UUID)

Response:
  - 200: UserStanding: Derived counters, suspension window, and access level
  - 403: ErrForbidden: Missing view_reports permission
  - 404: ErrNotFound: Unknown member
*/
func (handler *Handler) getStanding(writer http.ResponseWriter, request *http.Request) {
	current, err := handler.moderationService.Standing(request.Context(), requestutil.ID(request, "userID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, current)
}

/*
GET /api/v1/moderation/users/{userID}/history.

Description: Returns the member's full moderation record, newest first.

Request:
  - userID: string (UUID)

Response:
  - 200: []ModerationAction
  - 403: ErrForbidden: Missing view_reports permission
  - 404: ErrNotFound: Unknown member
*/
func (handler *Handler) getHistory(writer http.ResponseWriter, request *http.Request) {
	history, err := handler.moderationService.History(request.Context(), requestutil.ID(request, "userID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, history)
}

// notifyTarget publishes the member-facing notice, logging instead of
// failing when the outbox is unavailable.
func (handler *Handler) notifyTarget(request *http.Request, targetUserID, actionType, reason string) {
	subject := fmt.Sprintf("A moderation decision was applied to your account: %s", actionType)
	body := fmt.Sprintf("Reason: %s. If you believe this is a mistake, contact support.", reason)

	if err := handler.notifier.Send(request.Context(), targetUserID, subject, body, notify.PriorityHigh); err != nil {
		ctxutil.GetLogger(request.Context()).Warn("moderation_notice_publish_failed",
			slog.String("target_user_id", targetUserID),
			slog.String("error", err.Error()),
		)
	}
}

/*
Package alert implements the bad-conduct alert workflow: signals raised by
the external anomaly-detection service about a member, reviewed by staff
through a small fixed state machine. Alerts are never deleted; terminal
statuses close the record but the row stays behind for audit review.

# Security

Ingestion is machine-to-machine, authenticated by the shared ingest key.
Review endpoints require the manage_system permission or the master role.
*/
package alert

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flightdeck-aero/flightdeck/internal/platform/middleware"
	requestutil "github.com/flightdeck-aero/flightdeck/internal/platform/request"
	"github.com/flightdeck-aero/flightdeck/internal/platform/respond"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/pkg/pagination"
	"github.com/flightdeck-aero/flightdeck/pkg/query"
)

// Handler implements the HTTP layer for bad-conduct alerts.
type Handler struct {
	alertService  *Service
	ingestKeyHash string
}

// NewHandler constructs a new alert [Handler]. ingestKeyHash is the bcrypt
// hash the detector's X-Ingest-Key header is compared against.
func NewHandler(service *Service, ingestKeyHash string) *Handler {
	return &Handler{alertService: service, ingestKeyHash: ingestKeyHash}
}

// Routes returns a [chi.Router] configured with the alert workflow's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Machine intake
	router.With(middleware.RequireIngestKey(handler.ingestKeyHash)).Post("/ingest", handler.ingest)

	// Staff review
	router.Group(func(staff chi.Router) {
		staff.Use(middleware.RequirePermission(sec.PermManageSystem))
		staff.Get("/", handler.list)
		staff.Get("/{id}", handler.get)
		staff.Post("/{id}/transition", handler.transition)
	})

	return router
}

// ingestAlertRequest defines the expected JSON payload from the detector.
type ingestAlertRequest struct {
	UserID      string          `json:"user_id"`
	AlertType   string          `json:"alert_type"`
	Severity    string          `json:"severity"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata"`
}

/*
POST /api/v1/alerts/ingest.

Description: Records a new bad-conduct alert from the anomaly-detection service.

Request:
  - header: X-Ingest-Key (shared secret)
  - body: ingestAlertRequest

Response:
  - 201: BadConductAlert: The recorded alert in status pending
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Missing or wrong ingest key
*/
func (handler *Handler) ingest(writer http.ResponseWriter, request *http.Request) {
	var input ingestAlertRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.alertService.Ingest(request.Context(), IngestInput{
		UserID:      input.UserID,
		AlertType:   input.AlertType,
		Severity:    input.Severity,
		Description: input.Description,
		Metadata:    input.Metadata,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
GET /api/v1/alerts?severity=high,critical&status=pending&page=1&limit=20.

Description: Lists conduct alerts, newest first, filtered by severity and status.

Response:
  - 200: []BadConductAlert with pagination metadata
  - 400: Validation: Unknown filter value
  - 403: ErrForbidden: Missing manage_system permission
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		Severities: query.StringSlice(request.URL.Query().Get("severity")),
		Statuses:   query.StringSlice(request.URL.Query().Get("status")),
	}

	alerts, total, err := handler.alertService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, alerts, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/alerts/{id}.

Description: Retrieves a single conduct alert including its detector metadata.

Response:
  - 200: BadConductAlert
  - 403: ErrForbidden: Missing manage_system permission
  - 404: ErrNotFound: Unknown alert id
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	a, err := handler.alertService.Get(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, a)
}

// transitionAlertRequest defines the expected JSON payload for a review step.
type transitionAlertRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

/*
POST /api/v1/alerts/{id}/transition.

Description: Moves an alert to investigating, resolved, or dismissed.

Request:
  - id: string (UUID)
  - body: transitionAlertRequest

Response:
  - 200: BadConductAlert: The alert after the transition
  - 400: Validation: Unknown status or missing notes on resolved
  - 403: ErrForbidden: Actor lacks system moderation rights
  - 404: ErrNotFound: Unknown alert id
  - 409: InvalidTransition: Source state does not permit the target
*/
func (handler *Handler) transition(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input transitionAlertRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.alertService.Transition(
		request.Context(), actor, requestutil.ID(request, "id"), Status(input.Status), input.Notes,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Package report implements the content-report workflow: member-filed
complaints about listings, classifieds, and forum posts, reviewed by staff
through a small fixed state machine. Reports are never deleted; terminal
statuses close the record but the row stays behind for audit review.

# Security

Filing a report requires any authenticated member session. Reading and
transitioning reports additionally requires the view_reports permission,
enforced by middleware, with the finer content/system rule applied in the
service layer.
*/
package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flightdeck-aero/flightdeck/internal/platform/middleware"
	requestutil "github.com/flightdeck-aero/flightdeck/internal/platform/request"
	"github.com/flightdeck-aero/flightdeck/internal/platform/respond"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/pkg/pagination"
	"github.com/flightdeck-aero/flightdeck/pkg/query"
)

// Handler implements the HTTP layer for content reports.
type Handler struct {
	reportService *Service
}

// NewHandler constructs a new report [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reportService: service}
}

// Routes returns a [chi.Router] configured with the report workflow's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Member intake
	router.With(middleware.RequireAuth).Post("/", handler.create)

	// Staff review
	router.Group(func(staff chi.Router) {
		staff.Use(middleware.RequirePermission(sec.PermViewReports))
		staff.Get("/", handler.list)
		staff.Get("/{id}", handler.get)
		staff.Post("/{id}/transition", handler.transition)
	})

	return router
}

// createReportRequest defines the expected JSON payload for filing a report.
type createReportRequest struct {
	ContentType string  `json:"content_type"`
	ContentID   string  `json:"content_id"`
	Reason      string  `json:"reason"`
	Details     *string `json:"details"`
}

/*
POST /api/v1/reports.

Description: Files a new content report on behalf of the authenticated member.

Request:
  - body: createReportRequest

Response:
  - 201: ContentReport: The filed report in status pending
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	reporterID, err := requestutil.RequiredActorID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReportRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.reportService.Create(request.Context(), CreateInput{
		ReporterUserID: reporterID,
		ContentType:    input.ContentType,
		ContentID:      input.ContentID,
		Reason:         input.Reason,
		Details:        input.Details,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
GET /api/v1/reports?status=pending,reviewed&page=1&limit=20.

Description: Lists content reports, newest first, optionally filtered by status.

Response:
  - 200: []ContentReport with pagination metadata
  - 400: Validation: Unknown status filter value
  - 403: ErrForbidden: Missing view_reports permission
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		Statuses: query.StringSlice(request.URL.Query().Get("status")),
	}

	reports, total, err := handler.reportService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reports, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/reports/{id}.

Description: Retrieves a single content report.

Response:
  - 200: ContentReport
  - 403: ErrForbidden: Missing review permission
  - 404: ErrNotFound: Unknown report id
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	r, err := handler.reportService.Get(request.Context(), requestutil.Actor(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, r)
}

// transitionReportRequest defines the expected JSON payload for a review step.
type transitionReportRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

/*
POST /api/v1/reports/{id}/transition.

Description: Moves a report to reviewed, actioned, or dismissed.

Request:
  - id: string (UUID)
  - body: transitionReportRequest

Response:
  - 200: ContentReport: The report after the transition
  - 400: Validation: Unknown status or missing notes on actioned
  - 403: ErrForbidden: Actor lacks content/system moderation rights
  - 404: ErrNotFound: Unknown report id
  - 409: InvalidTransition: Source state does not permit the target
*/
func (handler *Handler) transition(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input transitionReportRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.reportService.Transition(
		request.Context(), actor, requestutil.ID(request, "id"), Status(input.Status), input.Notes,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Package roles exposes the read-only surface of the staff role hierarchy:
the roles an actor may assign and the permission set owned by any role.

The hierarchy itself is fixed at deploy time in the sec package; there is
no write path here or anywhere else.
*/
package roles

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flightdeck-aero/flightdeck/internal/platform/middleware"
	requestutil "github.com/flightdeck-aero/flightdeck/internal/platform/request"
	"github.com/flightdeck-aero/flightdeck/internal/platform/respond"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/platform/validate"
)

// Handler implements the HTTP layer for role hierarchy reads.
type Handler struct{}

// NewHandler constructs a new roles [Handler].
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns a [chi.Router] configured with the hierarchy's read endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/assignable", handler.assignable)
	router.Get("/{role}/permissions", handler.permissions)

	return router
}

// assignableResponse lists the roles strictly below the actor's own.
type assignableResponse struct {
	ActorRole       sec.Role   `json:"actor_role"`
	AssignableRoles []sec.Role `json:"assignable_roles"`
}

/*
GET /api/v1/roles/assignable.

Description: Returns every role strictly below the authenticated actor's own
position in the hierarchy. The lowest role receives an empty list, as does
any token carrying a role unknown to this deployment.

Response:
  - 200: assignableResponse
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) assignable(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	role := actor.StaffRole()
	respond.OK(writer, assignableResponse{
		ActorRole:       role,
		AssignableRoles: sec.AssignableRoles(role),
	})
}

// permissionsResponse lists the permission set owned by a role.
type permissionsResponse struct {
	Role        sec.Role         `json:"role"`
	Permissions []sec.Permission `json:"permissions"`
}

/*
GET /api/v1/roles/{role}/permissions.

Description: Returns the static permission set owned by a role.

Request:
  - role: string (e.g. "content_manager")

Response:
  - 200: permissionsResponse
  - 400: Validation: Unknown role name
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) permissions(writer http.ResponseWriter, request *http.Request) {
	role := sec.Role(requestutil.Param(request, "role"))
	if !role.IsValid() {
		respond.Error(writer, request, validate.RequiredError("role", "Unknown role"))
		return
	}

	respond.OK(writer, permissionsResponse{
		Role:        role,
		Permissions: sec.Permissions(role),
	})
}

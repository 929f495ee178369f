package report_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeck-aero/flightdeck/internal/platform/apperr"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/trust/report"
	"github.com/flightdeck-aero/flightdeck/pkg/pointer"
)

// fakeRepository is an in-memory Repository with real compare-and-set
// semantics, so the race-losing path can be exercised without Postgres.
type fakeRepository struct {
	reports map[string]*report.ContentReport
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{reports: map[string]*report.ContentReport{}}
}

func (f *fakeRepository) Create(_ context.Context, r *report.ContentReport) error {
	clone := *r
	f.reports[r.ID] = &clone
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*report.ContentReport, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, apperr.NotFound("Resource")
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRepository) List(_ context.Context, filter report.Filter, limit, offset int) ([]*report.ContentReport, int, error) {
	matches := []*report.ContentReport{}
	for _, r := range f.reports {
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, string(r.Status)) {
			continue
		}
		clone := *r
		matches = append(matches, &clone)
	}
	return matches, len(matches), nil
}

func (f *fakeRepository) TransitionStatus(_ context.Context, id string, expected, target report.Status, review report.Review) (*report.ContentReport, error) {
	r, ok := f.reports[id]
	if !ok || r.Status != expected {
		return nil, report.ErrStaleStatus
	}
	r.Status = target
	r.ReviewedByActorID = &review.ActorID
	r.ReviewedAt = &review.ReviewedAt
	r.AdminNotes = review.Notes
	clone := *r
	return &clone, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func testService(t *testing.T) (*report.Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	return report.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func staffActor(role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{ActorID: "actor-1", Username: "reviewer", Role: string(role)}
}

func validCreateInput() report.CreateInput {
	return report.CreateInput{
		ReporterUserID: "member-7",
		ContentType:    string(report.ContentListing),
		ContentID:      "listing-99",
		Reason:         "Fraudulent aircraft listing",
		Details:        pointer.To("Serial number does not match the registry."),
	}
}

func TestCreate_FilesPendingReport(t *testing.T) {
	service, repo := testService(t)

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, report.StatusPending, created.Status)
	assert.Nil(t, created.ReviewedByActorID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Len(t, repo.reports, 1)
}

func TestCreate_RejectsBadInput(t *testing.T) {
	service, _ := testService(t)

	tests := []struct {
		name   string
		mutate func(*report.CreateInput)
	}{
		{"empty reason", func(in *report.CreateInput) { in.Reason = "" }},
		{"unknown content type", func(in *report.CreateInput) { in.ContentType = "billboard" }},
		{"empty content id", func(in *report.CreateInput) { in.ContentID = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)

			_, err := service.Create(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestTransition_PendingToDismissed(t *testing.T) {
	service, _ := testService(t)
	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	updated, err := service.Transition(
		context.Background(), staffActor(sec.RoleContentManager),
		created.ID, report.StatusDismissed, pointer.To("Duplicate of an earlier report."),
	)
	require.NoError(t, err)

	assert.Equal(t, report.StatusDismissed, updated.Status)
	require.NotNil(t, updated.ReviewedByActorID)
	assert.Equal(t, "actor-1", *updated.ReviewedByActorID)
	assert.NotNil(t, updated.ReviewedAt)
}

func TestTransition_ReviewedToActioned(t *testing.T) {
	service, _ := testService(t)
	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	actor := staffActor(sec.RoleMaster)

	_, err = service.Transition(context.Background(), actor, created.ID, report.StatusReviewed, nil)
	require.NoError(t, err)

	updated, err := service.Transition(
		context.Background(), actor, created.ID, report.StatusActioned,
		pointer.To("Listing removed and seller warned."),
	)
	require.NoError(t, err)
	assert.Equal(t, report.StatusActioned, updated.Status)
}

// A second reviewer acting on a stale read of pending must observe the
// conflict, never double count the resolution.
func TestTransition_ConcurrentFromStalePendingFails(t *testing.T) {
	service, repo := testService(t)
	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	actor := staffActor(sec.RoleContentManager)

	// First reviewer wins the race at the storage layer.
	_, err = repo.TransitionStatus(context.Background(), created.ID,
		report.StatusPending, report.StatusDismissed,
		report.Review{ActorID: "actor-2", ReviewedAt: time.Now()},
	)
	require.NoError(t, err)

	// Second reviewer read pending earlier; the service re-reads and still
	// finds the transition illegal from the winner's terminal state.
	_, err = service.Transition(context.Background(), actor, created.ID, report.StatusDismissed, nil)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)
}

func TestTransition_TerminalStatesAreTerminal(t *testing.T) {
	for _, terminal := range []report.Status{report.StatusActioned, report.StatusDismissed} {
		t.Run(string(terminal), func(t *testing.T) {
			service, _ := testService(t)
			created, err := service.Create(context.Background(), validCreateInput())
			require.NoError(t, err)

			actor := staffActor(sec.RoleMaster)
			_, err = service.Transition(context.Background(), actor, created.ID, terminal,
				pointer.To("Closing out."))
			require.NoError(t, err)

			for _, target := range []report.Status{report.StatusReviewed, report.StatusActioned, report.StatusDismissed} {
				if target == terminal {
					continue
				}
				_, err = service.Transition(context.Background(), actor, created.ID, target,
					pointer.To("Attempting to reopen."))
				require.Error(t, err)
				assert.Equal(t, "INVALID_TRANSITION", apperr.As(err).Code)
			}
		})
	}
}

func TestTransition_ActionedRequiresNotes(t *testing.T) {
	service, _ := testService(t)
	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = service.Transition(
		context.Background(), staffActor(sec.RoleMaster), created.ID, report.StatusActioned, nil,
	)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.Transition(
		context.Background(), staffActor(sec.RoleMaster), created.ID, report.StatusActioned,
		pointer.To("   "),
	)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestTransition_RequiresContentOrSystemRights(t *testing.T) {
	service, _ := testService(t)
	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	for _, role := range []sec.Role{sec.RoleMarketing, sec.RoleFinanceManager, sec.RoleCompliance} {
		_, err = service.Transition(
			context.Background(), staffActor(role), created.ID, report.StatusDismissed, nil,
		)
		require.Error(t, err, "role %s must not review reports", role)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	}
}

func TestTransition_UnknownReport(t *testing.T) {
	service, _ := testService(t)

	_, err := service.Transition(
		context.Background(), staffActor(sec.RoleMaster),
		"019525f1-0000-7000-8000-000000000000", report.StatusDismissed, nil,
	)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestTransition_RejectsPendingAsTarget(t *testing.T) {
	service, _ := testService(t)
	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = service.Transition(
		context.Background(), staffActor(sec.RoleMaster), created.ID, report.StatusPending, nil,
	)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestList_FiltersByStatusAndRejectsUnknown(t *testing.T) {
	service, _ := testService(t)

	first, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	_, err = service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = service.Transition(
		context.Background(), staffActor(sec.RoleMaster), first.ID, report.StatusDismissed, nil,
	)
	require.NoError(t, err)

	pending, total, err := service.List(context.Background(), report.Filter{
		Statuses: []string{string(report.StatusPending)},
	}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, report.StatusPending, pending[0].Status)

	_, _, err = service.List(context.Background(), report.Filter{Statuses: []string{"archived"}}, 20, 0)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

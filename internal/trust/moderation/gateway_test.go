package moderation_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeck-aero/flightdeck/internal/platform/apperr"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/trust/action"
	"github.com/flightdeck-aero/flightdeck/internal/trust/alert"
	"github.com/flightdeck-aero/flightdeck/internal/trust/moderation"
	"github.com/flightdeck-aero/flightdeck/internal/trust/report"
	"github.com/flightdeck-aero/flightdeck/internal/trust/standing"
	"github.com/flightdeck-aero/flightdeck/internal/users/directory"
	"github.com/flightdeck-aero/flightdeck/pkg/pointer"
)

// fakeLedger is an in-memory append-only ledger.
type fakeLedger struct {
	entries []action.ModerationAction
}

func (f *fakeLedger) Append(_ context.Context, entry *action.ModerationAction) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLedger) FindByID(_ context.Context, id string) (*action.ModerationAction, error) {
	for _, entry := range f.entries {
		if entry.ID == id {
			clone := entry
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Resource")
}

func (f *fakeLedger) HistoryFor(_ context.Context, userID string) ([]action.ModerationAction, error) {
	history := []action.ModerationAction{}
	for _, entry := range f.entries {
		if entry.TargetUserID == userID {
			history = append(history, entry)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		if !history[i].IssuedAt.Equal(history[j].IssuedAt) {
			return history[i].IssuedAt.After(history[j].IssuedAt)
		}
		return history[i].ID > history[j].ID
	})
	return history, nil
}

// fakeDirectory knows a fixed set of member ids.
type fakeDirectory struct {
	known map[string]bool
}

func (f *fakeDirectory) FindByID(_ context.Context, id string) (*directory.User, error) {
	if !f.known[id] {
		return nil, apperr.NotFound("User")
	}
	return &directory.User{ID: id, Username: "member", DisplayName: "Member"}, nil
}

// fakeIdempotency is an in-memory key store.
type fakeIdempotency struct {
	keys map[string]string
}

func (f *fakeIdempotency) Lookup(_ context.Context, key string) (string, error) {
	return f.keys[key], nil
}

func (f *fakeIdempotency) Remember(_ context.Context, key, actionID string) error {
	f.keys[key] = actionID
	return nil
}

// fakeReportCloser records closeout calls.
type fakeReportCloser struct {
	closed []string
	err    error
}

func (f *fakeReportCloser) Transition(_ context.Context, _ *sec.AuthClaims, reportID string, target report.Status, _ *string) (*report.ContentReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.closed = append(f.closed, reportID)
	return &report.ContentReport{ID: reportID, Status: target}, nil
}

// fakeAlertCloser records closeout calls.
type fakeAlertCloser struct {
	closed []string
}

func (f *fakeAlertCloser) Transition(_ context.Context, _ *sec.AuthClaims, alertID string, target alert.Status, _ *string) (*alert.BadConductAlert, error) {
	f.closed = append(f.closed, alertID)
	return &alert.BadConductAlert{ID: alertID, Status: target}, nil
}

type fixture struct {
	service     *moderation.Service
	ledger      *fakeLedger
	idempotency *fakeIdempotency
	reports     *fakeReportCloser
	alerts      *fakeAlertCloser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger:      &fakeLedger{},
		idempotency: &fakeIdempotency{keys: map[string]string{}},
		reports:     &fakeReportCloser{},
		alerts:      &fakeAlertCloser{},
	}
	users := &fakeDirectory{known: map[string]bool{"member-7": true}}
	f.service = moderation.NewService(
		f.ledger, users, f.idempotency, f.reports, f.alerts,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func masterActor() *sec.AuthClaims {
	return &sec.AuthClaims{ActorID: "actor-m", Username: "root", Role: string(sec.RoleMaster)}
}

func validInput() moderation.ApplyActionInput {
	return moderation.ApplyActionInput{
		TargetUserID: "member-7",
		ActionType:   string(action.TypeWarning),
		Reason:       "Abusive language in forum thread",
		Severity:     string(action.SeverityNormal),
	}
}

func TestApplyAction_AppendsToLedger(t *testing.T) {
	f := newFixture(t)

	issued, err := f.service.ApplyAction(context.Background(), masterActor(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, action.TypeWarning, issued.ActionType)
	assert.Equal(t, sec.RoleMaster, issued.IssuedByRole)
	assert.True(t, issued.IsActive)
	assert.Nil(t, issued.SuspensionEndDate)
	assert.Len(t, f.ledger.entries, 1)
}

// A support lead holds neither manage_system nor the master role, so even
// a ban request is refused outright.
func TestApplyAction_SupportLeadCannotBan(t *testing.T) {
	f := newFixture(t)

	actor := &sec.AuthClaims{ActorID: "actor-s", Role: string(sec.RoleSupportLead)}
	input := validInput()
	input.ActionType = string(action.TypeBan)

	_, err := f.service.ApplyAction(context.Background(), actor, input)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Empty(t, f.ledger.entries)
}

func TestApplyAction_OperationsLeadCanModerate(t *testing.T) {
	f := newFixture(t)

	actor := &sec.AuthClaims{ActorID: "actor-o", Role: string(sec.RoleOperationsLead)}
	_, err := f.service.ApplyAction(context.Background(), actor, validInput())
	require.NoError(t, err)
}

func TestApplyAction_SuspendComputesEndDate(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.ActionType = string(action.TypeSuspend)
	input.SuspensionDays = 7

	before := time.Now().UTC()
	issued, err := f.service.ApplyAction(context.Background(), masterActor(), input)
	require.NoError(t, err)

	require.NotNil(t, issued.SuspensionEndDate)
	expected := issued.IssuedAt.Add(7 * 24 * time.Hour)
	assert.True(t, issued.SuspensionEndDate.Equal(expected))
	assert.False(t, issued.IssuedAt.Before(before))
}

func TestApplyAction_SuspendRejectsBadDays(t *testing.T) {
	for _, days := range []int{0, -3} {
		f := newFixture(t)

		input := validInput()
		input.ActionType = string(action.TypeSuspend)
		input.SuspensionDays = days

		_, err := f.service.ApplyAction(context.Background(), masterActor(), input)
		require.Error(t, err, "suspension_days=%d must fail", days)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		assert.Empty(t, f.ledger.entries)
	}
}

func TestApplyAction_RejectsDaysOnNonSuspend(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.SuspensionDays = 3

	_, err := f.service.ApplyAction(context.Background(), masterActor(), input)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestApplyAction_RejectsEmptyReasonAndBadEnums(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*moderation.ApplyActionInput)
	}{
		{"empty reason", func(in *moderation.ApplyActionInput) { in.Reason = "" }},
		{"unknown action type", func(in *moderation.ApplyActionInput) { in.ActionType = "timeout" }},
		{"unknown severity", func(in *moderation.ApplyActionInput) { in.Severity = "medium" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			_, err := f.service.ApplyAction(context.Background(), masterActor(), input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestApplyAction_UnknownTarget(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.TargetUserID = "member-unknown"

	_, err := f.service.ApplyAction(context.Background(), masterActor(), input)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// A retried submission with the same Idempotency-Key must return the first
// action unchanged instead of appending a second ledger entry.
func TestApplyAction_IdempotencyReplay(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.IdempotencyKey = "retry-abc123"

	first, err := f.service.ApplyAction(context.Background(), masterActor(), input)
	require.NoError(t, err)

	second, err := f.service.ApplyAction(context.Background(), masterActor(), input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.ledger.entries, 1)
}

func TestApplyAction_ClosesOutMotivatingReportAndAlert(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.ReportID = pointer.To("report-1")
	input.AlertID = pointer.To("alert-1")

	_, err := f.service.ApplyAction(context.Background(), masterActor(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"report-1"}, f.reports.closed)
	assert.Equal(t, []string{"alert-1"}, f.alerts.closed)
}

func TestApplyAction_CloseoutFailureSurfacesAfterAppend(t *testing.T) {
	f := newFixture(t)
	f.reports.err = apperr.InvalidTransition("dismissed", "actioned")

	input := validInput()
	input.ReportID = pointer.To("report-1")

	_, err := f.service.ApplyAction(context.Background(), masterActor(), input)
	require.Error(t, err)

	// The ledger entry stands; only the closeout needs finishing by hand.
	assert.Len(t, f.ledger.entries, 1)
}

func TestStanding_DerivesFromLedger(t *testing.T) {
	f := newFixture(t)
	actor := masterActor()

	for range 2 {
		_, err := f.service.ApplyAction(context.Background(), actor, validInput())
		require.NoError(t, err)
	}

	strike := validInput()
	strike.ActionType = string(action.TypeStrike)
	_, err := f.service.ApplyAction(context.Background(), actor, strike)
	require.NoError(t, err)

	current, err := f.service.Standing(context.Background(), "member-7")
	require.NoError(t, err)

	assert.Equal(t, 2, current.ActiveWarnings)
	assert.Equal(t, 1, current.ActiveStrikes)
	assert.Equal(t, standing.AccessWarned, current.AccessLevel)
}

func TestStanding_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Standing(context.Background(), "member-unknown")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestHistory_NewestFirst(t *testing.T) {
	f := newFixture(t)
	actor := masterActor()

	_, err := f.service.ApplyAction(context.Background(), actor, validInput())
	require.NoError(t, err)

	strike := validInput()
	strike.ActionType = string(action.TypeStrike)
	_, err = f.service.ApplyAction(context.Background(), actor, strike)
	require.NoError(t, err)

	history, err := f.service.History(context.Background(), "member-7")
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, action.TypeStrike, history[0].ActionType)
	assert.Equal(t, action.TypeWarning, history[1].ActionType)
}

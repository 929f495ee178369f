package action_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeck-aero/flightdeck/internal/platform/apperr"
	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
	"github.com/flightdeck-aero/flightdeck/internal/trust/action"
	"github.com/flightdeck-aero/flightdeck/pkg/pointer"
)

func validEntry() *action.ModerationAction {
	issuedAt := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	return &action.ModerationAction{
		ID:              "0196554e-0000-7000-8000-000000000001",
		TargetUserID:    "user-42",
		ActionType:      action.TypeWarning,
		Reason:          "off-topic listing in hangar marketplace",
		Severity:        action.SeverityNormal,
		IssuedByActorID: "actor-1",
		IssuedByRole:    sec.RoleOperationsLead,
		IssuedAt:        issuedAt,
		IsActive:        true,
	}
}

func TestValidate_WellFormed(t *testing.T) {
	assert.NoError(t, validEntry().Validate())
}

func TestValidate_EmptyReason(t *testing.T) {
	entry := validEntry()
	entry.Reason = "   "

	err := entry.Validate()
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "reason", ae.Details[0].Field)
}

func TestValidate_UnknownEnums(t *testing.T) {
	entry := validEntry()
	entry.ActionType = action.Type("shadowban")
	entry.Severity = action.Severity("extreme")

	err := entry.Validate()
	require.Error(t, err)
	assert.Len(t, apperr.As(err).Details, 2)
}

func TestValidate_SuspensionEndDate(t *testing.T) {
	tests := []struct {
		name       string
		actionType action.Type
		endDate    *time.Time
		wantValid  bool
	}{
		{
			name:       "suspend_requires_end_date",
			actionType: action.TypeSuspend,
			endDate:    nil,
			wantValid:  false,
		},
		{
			name:       "suspend_rejects_past_end_date",
			actionType: action.TypeSuspend,
			endDate:    pointer.To(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
			wantValid:  false,
		},
		{
			name:       "suspend_rejects_end_date_equal_to_issue_time",
			actionType: action.TypeSuspend,
			endDate:    pointer.To(time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)),
			wantValid:  false,
		},
		{
			name:       "suspend_accepts_future_end_date",
			actionType: action.TypeSuspend,
			endDate:    pointer.To(time.Date(2026, 4, 17, 9, 0, 0, 0, time.UTC)),
			wantValid:  true,
		},
		{
			name:       "warning_rejects_end_date",
			actionType: action.TypeWarning,
			endDate:    pointer.To(time.Date(2026, 4, 17, 9, 0, 0, 0, time.UTC)),
			wantValid:  false,
		},
		{
			name:       "ban_without_end_date_is_valid",
			actionType: action.TypeBan,
			endDate:    nil,
			wantValid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			entry.ActionType = tt.actionType
			entry.SuspensionEndDate = tt.endDate

			err := entry.Validate()
			if tt.wantValid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

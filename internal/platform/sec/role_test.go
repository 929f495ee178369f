// Copyright (c) 2026 Flightdeck. All rights reserved.
// Author: platform@flightdeck.aero

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeck-aero/flightdeck/internal/platform/sec"
)

/*
TestAssignableRoles_NeverContainsSelfOrAbove verifies the core hierarchy
property: for every role R, AssignableRoles(R) contains neither R nor any
role positioned at or above R.
*/
func TestAssignableRoles_NeverContainsSelfOrAbove(t *testing.T) {
	all := sec.AllRoles()

	for position, role := range all {
		assignable := sec.AssignableRoles(role)

		// Everything strictly below, nothing else.
		require.Len(t, assignable, len(all)-position-1, "role %s", role)

		for _, candidate := range assignable {
			assert.NotEqual(t, role, candidate)
			for _, senior := range all[:position+1] {
				assert.NotEqual(t, senior, candidate,
					"role %s must not be able to assign %s", role, candidate)
			}
		}
	}
}

func TestAssignableRoles_Bounds(t *testing.T) {
	// Master receives all seven subordinate roles.
	assert.Len(t, sec.AssignableRoles(sec.RoleMaster), 7)

	// The lowest role receives none.
	assert.Empty(t, sec.AssignableRoles(sec.RoleCompliance))

	// Unknown roles fail closed.
	assert.Empty(t, sec.AssignableRoles(sec.Role("intern")))
	assert.Empty(t, sec.AssignableRoles(sec.Role("")))
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       sec.Role
		permission sec.Permission
		want       bool
	}{
		{"master_owns_everything", sec.RoleMaster, sec.PermManageFinance, true},
		{"master_full_access", sec.RoleMaster, sec.PermFullAccess, true},
		{"ops_lead_manage_system", sec.RoleOperationsLead, sec.PermManageSystem, true},
		{"support_lead_no_system", sec.RoleSupportLead, sec.PermManageSystem, false},
		{"content_manager_content", sec.RoleContentManager, sec.PermManageContent, true},
		{"marketing_no_reports", sec.RoleMarketing, sec.PermViewReports, false},
		{"compliance_view_reports", sec.RoleCompliance, sec.PermViewReports, true},
		{"unknown_role_fails_closed", sec.Role("intern"), sec.PermViewReports, false},
		{"unknown_permission_fails_closed", sec.RoleMaster, sec.Permission("fly_planes"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.HasPermission(tt.role, tt.permission))
		})
	}
}

func TestCanModerate(t *testing.T) {
	assert.True(t, sec.CanModerate(sec.RoleMaster))
	assert.True(t, sec.CanModerate(sec.RoleOperationsLead))

	// Support lead lacks manage_system and is not master.
	assert.False(t, sec.CanModerate(sec.RoleSupportLead))
	assert.False(t, sec.CanModerate(sec.RoleMarketing))
	assert.False(t, sec.CanModerate(sec.Role("")))
}

func TestPermissions_Copies(t *testing.T) {
	first := sec.Permissions(sec.RoleCompliance)
	require.NotEmpty(t, first)

	// Mutating the returned slice must not leak into the static table.
	first[0] = sec.Permission("tampered")
	second := sec.Permissions(sec.RoleCompliance)
	assert.NotEqual(t, first[0], second[0])
}

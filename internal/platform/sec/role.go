// Copyright (c) 2026 Flightdeck. All rights reserved.
// Author: platform@flightdeck.aero

package sec

// # Staff Roles

// Role represents a staff authorization tier within the Flightdeck back office.
type Role string

const (
	// Unrestricted system access
	RoleMaster Role = "master"

	// Runs day-to-day platform operations
	RoleOperationsLead Role = "operations_lead"

	// Leads the member support team
	RoleSupportLead Role = "support_lead"

	// Curates listings, classifieds, and forum content
	RoleContentManager Role = "content_manager"

	// Manages commercial partner accounts
	RoleBusinessManager Role = "business_manager"

	// Oversees billing and payouts
	RoleFinanceManager Role = "finance_manager"

	// Runs campaigns and newsletters
	RoleMarketing Role = "marketing"

	// Performs regulatory and audit review
	RoleCompliance Role = "compliance"
)

// hierarchy is the single source of truth for seniority, ordered from most
// to least privileged. Assignability is computed from list position, never
// from a second table, so the two can't drift apart.
var hierarchy = []Role{
	RoleMaster,
	RoleOperationsLead,
	RoleSupportLead,
	RoleContentManager,
	RoleBusinessManager,
	RoleFinanceManager,
	RoleMarketing,
	RoleCompliance,
}

// # Permissions

// Permission is a named capability held by one or more roles.
type Permission string

const (
	PermFullAccess       Permission = "full_access"
	PermManageSystem     Permission = "manage_system"
	PermManageSupport    Permission = "manage_support"
	PermManageContent    Permission = "manage_content"
	PermManageBusiness   Permission = "manage_business"
	PermManageFinance    Permission = "manage_finance"
	PermManageMarketing  Permission = "manage_marketing"
	PermManageCompliance Permission = "manage_compliance"
	PermViewReports      Permission = "view_reports"
	PermEscalateIssues   Permission = "escalate_issues"
)

// rolePermissions is the static, deploy-time permission table.
// There is intentionally no runtime mutation path.
var rolePermissions = map[Role][]Permission{
	RoleMaster: {
		PermFullAccess, PermManageSystem, PermManageSupport, PermManageContent,
		PermManageBusiness, PermManageFinance, PermManageMarketing,
		PermManageCompliance, PermViewReports, PermEscalateIssues,
	},
	RoleOperationsLead: {
		PermManageSystem, PermManageSupport, PermManageContent,
		PermViewReports, PermEscalateIssues,
	},
	RoleSupportLead: {
		PermManageSupport, PermViewReports, PermEscalateIssues,
	},
	RoleContentManager: {
		PermManageContent, PermViewReports,
	},
	RoleBusinessManager: {
		PermManageBusiness, PermViewReports,
	},
	RoleFinanceManager: {
		PermManageFinance, PermViewReports,
	},
	RoleMarketing: {
		PermManageMarketing,
	},
	RoleCompliance: {
		PermManageCompliance, PermViewReports,
	},
}

// # Role Hierarchy

// rank returns the position of a role in the hierarchy, or -1 when the role
// is unknown. Unknown roles therefore fail every seniority comparison.
func (r Role) rank() int {
	for index, candidate := range hierarchy {
		if candidate == r {
			return index
		}
	}
	return -1
}

// IsValid reports whether the role exists in the deploy-time hierarchy.
func (r Role) IsValid() bool {
	return r.rank() >= 0
}

// AssignableRoles returns every role strictly below actorRole, in hierarchy
// order. An unknown actorRole yields an empty slice (fail-closed), and no
// role can ever assign itself or anything at or above its own position.
func AssignableRoles(actorRole Role) []Role {
	position := actorRole.rank()
	if position < 0 {
		return []Role{}
	}

	assignable := make([]Role, 0, len(hierarchy)-position-1)
	assignable = append(assignable, hierarchy[position+1:]...)
	return assignable
}

// HasPermission reports whether the role owns the permission in the static
// table. Unknown roles or permissions yield false (fail-closed default).
func HasPermission(role Role, permission Permission) bool {
	for _, owned := range rolePermissions[role] {
		if owned == permission {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the permission set owned by the role.
// Unknown roles yield an empty slice.
func Permissions(role Role) []Permission {
	owned := rolePermissions[role]
	result := make([]Permission, len(owned))
	copy(result, owned)
	return result
}

// AllRoles returns the full hierarchy in order, most privileged first.
func AllRoles() []Role {
	result := make([]Role, len(hierarchy))
	copy(result, hierarchy)
	return result
}

// CanModerate reports whether the role may issue moderation actions.
// Moderation is system-wide, independent of the content/business/finance
// verticals, so it requires manage_system or the master role.
func CanModerate(role Role) bool {
	return role == RoleMaster || HasPermission(role, PermManageSystem)
}

// CanReviewReports reports whether the role may move content reports
// through their workflow.
func CanReviewReports(role Role) bool {
	return role == RoleMaster ||
		HasPermission(role, PermManageContent) ||
		HasPermission(role, PermManageSystem)
}

// CanReviewAlerts reports whether the role may move bad-conduct alerts
// through their workflow.
func CanReviewAlerts(role Role) bool {
	return role == RoleMaster || HasPermission(role, PermManageSystem)
}

package service

import (
	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

// permittedActions maps each role to the actions it may dispatch. Static data;
// the dispatcher consults it before routing anything.
var permittedActions = map[domain.UserRole][]ports.ActionKind{
	domain.RoleNone: {},
	domain.RoleLoggedOut: {
		ports.ActionLogIn,
	},
	domain.RoleEmployee: {
		ports.ActionSubmitRequest,
		ports.ActionViewOwnPending,
		ports.ActionViewOwnResolved,
		ports.ActionViewSelf,
		ports.ActionUpdateSelf,
		ports.ActionLogOut,
	},
	domain.RoleManager: {
		ports.ActionApproveRequest,
		ports.ActionDenyRequest,
		ports.ActionViewAllPending,
		ports.ActionViewAllResolved,
		ports.ActionViewAllEmployees,
		ports.ActionViewByEmployee,
		ports.ActionLogOut,
	},
}

// AllowedActions returns the actions the given role may dispatch. The slice
// is a fresh copy on every call; callers may modify it freely.
func AllowedActions(role domain.UserRole) []ports.ActionKind {
	permitted := permittedActions[role]
	out := make([]ports.ActionKind, len(permitted))
	copy(out, permitted)
	return out
}

// roleCan reports whether the role is permitted to dispatch the action.
func roleCan(role domain.UserRole, kind ports.ActionKind) bool {
	for _, k := range permittedActions[role] {
		if k == kind {
			return true
		}
	}
	return false
}

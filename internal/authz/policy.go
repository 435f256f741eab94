package authz

import (
	"github.com/spec-kit/provisioning-service/internal/domain"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// Action is a coarse-grained mutating capability.
type Action string

const (
	ActionApproveRequest     Action = "request:approve"
	ActionRejectRequest      Action = "request:reject"
	ActionTerminateContract  Action = "contract:terminate"
	ActionModifyTicketStatus Action = "ticket:modify_status"
	ActionAssignTechnician   Action = "ticket:assign"
	ActionManageCatalog      Action = "catalog:manage"
)

// policy maps each action to the roles allowed to perform it. This table is
// the enforcement boundary; any visibility hiding in the UI is cosmetic.
var policy = map[Action][]domain.Role{
	ActionApproveRequest:     {domain.RoleManager, domain.RoleAdmin},
	ActionRejectRequest:      {domain.RoleManager, domain.RoleAdmin},
	ActionTerminateContract:  {domain.RoleManager, domain.RoleAdmin},
	ActionModifyTicketStatus: {domain.RoleSupport, domain.RoleManager, domain.RoleAdmin},
	ActionAssignTechnician:   {domain.RoleManager, domain.RoleAdmin},
	ActionManageCatalog:      {domain.RoleAdmin},
}

// IsAllowed reports whether the role may perform the action.
func IsAllowed(role domain.Role, action Action) bool {
	for _, allowed := range policy[action] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Require returns a FORBIDDEN error when the role may not perform the action.
func Require(role domain.Role, action Action) error {
	if !IsAllowed(role, action) {
		return apperrors.NewForbidden("role " + string(role) + " may not perform " + string(action))
	}
	return nil
}

package ports

import (
	"github.com/nimbushr/expense-system/internal/core/domain"
)

// ActionKind identifies the business operation an ActionRequest asks for.
// The set is closed; the dispatcher owns the kind-to-handler routing table.
type ActionKind string

const (
	ActionLogIn            ActionKind = "log_in"
	ActionLogOut           ActionKind = "log_out"
	ActionSubmitRequest    ActionKind = "submit_request"
	ActionViewOwnPending   ActionKind = "view_own_pending"
	ActionViewOwnResolved  ActionKind = "view_own_resolved"
	ActionViewSelf         ActionKind = "view_self"
	ActionUpdateSelf       ActionKind = "update_self"
	ActionApproveRequest   ActionKind = "approve_request"
	ActionDenyRequest      ActionKind = "deny_request"
	ActionViewAllPending   ActionKind = "view_all_pending"
	ActionViewAllResolved  ActionKind = "view_all_resolved"
	ActionViewAllEmployees ActionKind = "view_all_employees"
	ActionViewByEmployee   ActionKind = "view_by_employee"
)

// Canonical parameter keys used in ActionRequest parameter maps.
const (
	ParamUsername    = "username"
	ParamPassword    = "password"
	ParamFirstName   = "first_name"
	ParamLastName    = "last_name"
	ParamEmail       = "email"
	ParamEmployeeID  = "employee_id"
	ParamRequestID   = "request_id"
	ParamExpenseType = "expense_type"
	ParamAmount      = "amount"
	ParamDescription = "description"
)

// ActionRequest is the inbound half of the core protocol. UserID and Role are
// captured from the authenticated session by the transport; the core trusts
// them and does not re-validate against the store.
type ActionRequest struct {
	Kind   ActionKind
	UserID int64
	Role   domain.UserRole
	Params map[string]string
}

// NewActionRequest builds a request with an empty parameter map.
func NewActionRequest(kind ActionKind, userID int64, role domain.UserRole) ActionRequest {
	return ActionRequest{
		Kind:   kind,
		UserID: userID,
		Role:   role,
		Params: make(map[string]string),
	}
}

// SetParam stores a parameter, replacing any previous value under the key.
func (r ActionRequest) SetParam(key, value string) {
	r.Params[key] = value
}

// Param returns the named parameter and whether it was present.
func (r ActionRequest) Param(key string) (string, bool) {
	v, ok := r.Params[key]
	return v, ok
}

// ResultKind classifies the outcome of a dispatched action.
type ResultKind string

const (
	ResultSuccess          ResultKind = "success"
	ResultForbidden        ResultKind = "forbidden"
	ResultInvalidParameter ResultKind = "invalid_parameter"
	ResultMalformedRequest ResultKind = "malformed_request"
	ResultDatabaseError    ResultKind = "database_error"
)

// ActionResponse is the outbound half of the core protocol. The slices are
// owned by the response; handlers never return views into shared state.
type ActionResponse struct {
	Result   ResultKind
	Message  string
	Profiles []domain.UserProfile
	Requests []domain.ReimbursementRequest
}

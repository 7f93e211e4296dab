package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

// ViewHandlers owns the read-only actions. Every method wraps store calls and
// translates store failures into database-error responses.
type ViewHandlers struct {
	users  ports.UserProfileStore
	reimbs ports.ReimbursementStore
	logger zerolog.Logger
}

func NewViewHandlers(users ports.UserProfileStore, reimbs ports.ReimbursementStore, logger zerolog.Logger) *ViewHandlers {
	return &ViewHandlers{users: users, reimbs: reimbs, logger: logger}
}

// OwnPending lists the caller's pending claims. An empty result is success.
func (h *ViewHandlers) OwnPending(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	return h.ownRequests(ctx, req.UserID, ports.FilterPending)
}

// OwnResolved lists the caller's approved and denied claims.
func (h *ViewHandlers) OwnResolved(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	return h.ownRequests(ctx, req.UserID, ports.FilterResolved)
}

func (h *ViewHandlers) ownRequests(ctx context.Context, userID int64, status ports.StatusFilter) ports.ActionResponse {
	exists, err := h.users.ExistsID(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user lookup failed")
		return storeErrorResponse()
	}
	if !exists {
		return userNotFoundResponse(userID)
	}

	requests, err := h.reimbs.Query(ctx, ports.QueryFilter{AuthorID: userID, Status: status})
	if err != nil {
		h.logger.Error().Err(err).Msg("reimbursement query failed")
		return storeErrorResponse()
	}

	resp := successResponse()
	resp.Requests = requests
	return resp
}

// Self returns the caller's own profile.
func (h *ViewHandlers) Self(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	exists, err := h.users.ExistsID(ctx, req.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user lookup failed")
		return storeErrorResponse()
	}
	if !exists {
		return userNotFoundResponse(req.UserID)
	}

	profile, err := h.users.ByID(ctx, req.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("profile lookup failed")
		return storeErrorResponse()
	}

	resp := successResponse()
	resp.Profiles = []domain.UserProfile{profile}
	return resp
}

// AllPending lists every pending claim in the system, any author.
func (h *ViewHandlers) AllPending(ctx context.Context, _ ports.ActionRequest) ports.ActionResponse {
	return h.allRequests(ctx, ports.FilterPending)
}

// AllResolved lists every approved or denied claim in the system.
func (h *ViewHandlers) AllResolved(ctx context.Context, _ ports.ActionRequest) ports.ActionResponse {
	return h.allRequests(ctx, ports.FilterResolved)
}

func (h *ViewHandlers) allRequests(ctx context.Context, status ports.StatusFilter) ports.ActionResponse {
	requests, err := h.reimbs.Query(ctx, ports.QueryFilter{AuthorID: ports.AnyAuthor, Status: status})
	if err != nil {
		h.logger.Error().Err(err).Msg("reimbursement query failed")
		return storeErrorResponse()
	}

	resp := successResponse()
	resp.Requests = requests
	return resp
}

// AllEmployees lists every profile with the employee role.
func (h *ViewHandlers) AllEmployees(ctx context.Context, _ ports.ActionRequest) ports.ActionResponse {
	profiles, err := h.users.ListByRole(ctx, domain.RoleEmployee)
	if err != nil {
		h.logger.Error().Err(err).Msg("employee listing failed")
		return storeErrorResponse()
	}

	resp := successResponse()
	resp.Profiles = profiles
	return resp
}

// ByEmployee lists every claim authored by the targeted employee, regardless
// of status. The target is named by parameter; the acting manager's own id
// plays no part in the filter.
func (h *ViewHandlers) ByEmployee(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	raw, ok := req.Param(ports.ParamEmployeeID)
	if !ok {
		return malformedResponse()
	}

	employeeID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return invalidParameterResponse("invalid employee id format")
	}

	exists, err := h.users.ExistsID(ctx, employeeID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user lookup failed")
		return storeErrorResponse()
	}
	if !exists {
		return userNotFoundResponse(employeeID)
	}

	requests, err := h.reimbs.Query(ctx, ports.QueryFilter{AuthorID: employeeID, Status: ports.FilterAll})
	if err != nil {
		h.logger.Error().Err(err).Msg("reimbursement query failed")
		return storeErrorResponse()
	}

	resp := successResponse()
	resp.Requests = requests
	return resp
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

// MutationHandlers owns every action that changes durable state: claim
// submission, the approve/deny state machine, and profile self-updates.
type MutationHandlers struct {
	users  ports.UserProfileStore
	reimbs ports.ReimbursementStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewMutationHandlers(users ports.UserProfileStore, reimbs ports.ReimbursementStore, logger zerolog.Logger) *MutationHandlers {
	return &MutationHandlers{
		users:  users,
		reimbs: reimbs,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// SubmitRequest creates a new claim in the pending state. The amount is an
// integer number of minor currency units; the expense type must parse against
// the closed enum. Description is optional.
func (h *MutationHandlers) SubmitRequest(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	rawType, hasType := req.Param(ports.ParamExpenseType)
	rawAmount, hasAmount := req.Param(ports.ParamAmount)
	if !hasType || !hasAmount {
		return malformedResponse()
	}

	exists, err := h.users.ExistsID(ctx, req.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user lookup failed")
		return storeErrorResponse()
	}
	if !exists {
		return userNotFoundResponse(req.UserID)
	}

	amountCents, err := strconv.ParseInt(rawAmount, 10, 64)
	if err != nil {
		return invalidParameterResponse("invalid money amount format")
	}
	if amountCents < 0 {
		return invalidParameterResponse("money amount cannot be negative")
	}

	expenseType := domain.TypeFromString(rawType)
	if expenseType == domain.TypeNone {
		return invalidParameterResponse(fmt.Sprintf("unknown expense type %q", rawType))
	}

	description, _ := req.Param(ports.ParamDescription)

	claim := domain.NewReimbursementRequest(req.UserID, amountCents, expenseType, description, h.now())
	id, err := h.reimbs.Save(ctx, claim)
	if err != nil {
		h.logger.Error().Err(err).Msg("claim save failed")
		return storeErrorResponse()
	}

	h.logger.Info().
		Int64("request_id", id).
		Int64("author_id", req.UserID).
		Int64("amount_cents", amountCents).
		Str("type", string(expenseType)).
		Msg("reimbursement request submitted")

	resp := successResponse()
	resp.Message = fmt.Sprintf("submitted reimbursement request %d", id)
	return resp
}

// ApproveRequest resolves a pending claim as approved.
func (h *MutationHandlers) ApproveRequest(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	return h.resolveRequest(ctx, req, domain.StatusApproved)
}

// DenyRequest resolves a pending claim as denied.
func (h *MutationHandlers) DenyRequest(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	return h.resolveRequest(ctx, req, domain.StatusDenied)
}

// resolveRequest applies the terminal transition. The store's Resolve call is
// conditioned on the claim still being pending, so of two racing resolutions
// exactly one wins and the other reports "not pending approval".
func (h *MutationHandlers) resolveRequest(ctx context.Context, req ports.ActionRequest, status domain.ReimbursementStatus) ports.ActionResponse {
	raw, ok := req.Param(ports.ParamRequestID)
	if !ok {
		return malformedResponse()
	}

	exists, err := h.users.ExistsID(ctx, req.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("user lookup failed")
		return storeErrorResponse()
	}
	if !exists {
		return userNotFoundResponse(req.UserID)
	}

	requestID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return invalidParameterResponse("invalid request id format")
	}

	found, err := h.reimbs.Exists(ctx, requestID)
	if err != nil {
		h.logger.Error().Err(err).Msg("claim lookup failed")
		return storeErrorResponse()
	}
	if !found {
		return requestNotFoundResponse(requestID)
	}

	err = h.reimbs.Resolve(ctx, requestID, status, req.UserID, h.now())
	switch {
	case errors.Is(err, domain.ErrRequestNotPending):
		return invalidParameterResponse(fmt.Sprintf("reimbursement request %d is not pending approval", requestID))
	case errors.Is(err, domain.ErrRequestNotFound):
		return requestNotFoundResponse(requestID)
	case err != nil:
		h.logger.Error().Err(err).Msg("claim resolution failed")
		return storeErrorResponse()
	}

	h.logger.Info().
		Int64("request_id", requestID).
		Int64("resolver_id", req.UserID).
		Str("status", string(status)).
		Msg("reimbursement request resolved")

	return successResponse()
}

// UpdateSelf rewrites the caller's username, first name, last name and email.
// All four parameters are required; unchanged fields are resubmitted with
// their current values. Username and email uniqueness are only re-checked
// when the value actually changes, so a no-op resubmission always succeeds.
// Role and id are never touched by this path.
func (h *MutationHandlers) UpdateSelf(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	username, hasUsername := req.Param(ports.ParamUsername)
	firstName, hasFirst := req.Param(ports.ParamFirstName)
	lastName, hasLast := req.Param(ports.ParamLastName)
	email, hasEmail := req.Param(ports.ParamEmail)
	if !hasUsername || !hasFirst || !hasLast || !hasEmail {
		return malformedResponse()
	}

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

	if profile.Username != username {
		taken, err := h.users.ExistsUsername(ctx, username)
		if err != nil {
			h.logger.Error().Err(err).Msg("username lookup failed")
			return storeErrorResponse()
		}
		if taken {
			return invalidParameterResponse(fmt.Sprintf("username %q is already in use", username))
		}
		profile.Username = username
	}

	if profile.Email != email {
		taken, err := h.users.ExistsEmail(ctx, email)
		if err != nil {
			h.logger.Error().Err(err).Msg("email lookup failed")
			return storeErrorResponse()
		}
		if taken {
			return invalidParameterResponse(fmt.Sprintf("email address %q is already in use", email))
		}
		profile.Email = email
	}

	// Real names may repeat freely.
	profile.FirstName = firstName
	profile.LastName = lastName

	if _, err := h.users.Save(ctx, profile); err != nil {
		h.logger.Error().Err(err).Msg("profile save failed")
		return storeErrorResponse()
	}

	return successResponse()
}

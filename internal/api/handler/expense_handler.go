package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nimbushr/expense-system/internal/api/metrics"
	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

// ExpenseHandler exposes claim submission, the approval workflow, and the
// claim views for both roles.
type ExpenseHandler struct {
	dispatcher ActionDispatcher
	recorder   AuditRecorder
}

func NewExpenseHandler(dispatcher ActionDispatcher, recorder AuditRecorder) *ExpenseHandler {
	return &ExpenseHandler{dispatcher: dispatcher, recorder: recorder}
}

// Submit creates a new reimbursement claim for the caller.
//
// @Summary      Submit a reimbursement request
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitExpenseRequest  true  "Claim details"
// @Success      200   {object}  actionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  actionResponse
// @Failure      422   {object}  actionResponse
// @Router       /v1/expenses [post]
func (h *ExpenseHandler) Submit(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	action := ports.NewActionRequest(ports.ActionSubmitRequest, caller.UserID, caller.Role)
	action.SetParam(ports.ParamExpenseType, req.Type)
	action.SetParam(ports.ParamAmount, strconv.FormatInt(*req.AmountCents, 10))
	if req.Description != "" {
		action.SetParam(ports.ParamDescription, req.Description)
	}

	resp := h.dispatcher.Dispatch(c.Request().Context(), action)
	if resp.Result == ports.ResultSuccess {
		h.recorder.Record(ports.AuditEvent{
			ActorID:  caller.UserID,
			Action:   ports.ActionSubmitRequest,
			TargetID: domain.NullID,
			Result:   resp.Result,
			At:       time.Now().UTC(),
		})
	}
	return respond(c, ports.ActionSubmitRequest, resp)
}

// OwnPending lists the caller's pending claims.
//
// @Summary      List own pending requests
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Router       /v1/expenses/pending [get]
func (h *ExpenseHandler) OwnPending(c echo.Context) error {
	return h.dispatchView(c, ports.ActionViewOwnPending)
}

// OwnResolved lists the caller's approved and denied claims.
//
// @Summary      List own resolved requests
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Router       /v1/expenses/resolved [get]
func (h *ExpenseHandler) OwnResolved(c echo.Context) error {
	return h.dispatchView(c, ports.ActionViewOwnResolved)
}

// AllPending lists every pending claim. Manager only.
//
// @Summary      List all pending requests
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Router       /v1/admin/expenses/pending [get]
func (h *ExpenseHandler) AllPending(c echo.Context) error {
	return h.dispatchView(c, ports.ActionViewAllPending)
}

// AllResolved lists every resolved claim. Manager only.
//
// @Summary      List all resolved requests
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Router       /v1/admin/expenses/resolved [get]
func (h *ExpenseHandler) AllResolved(c echo.Context) error {
	return h.dispatchView(c, ports.ActionViewAllResolved)
}

// ByEmployee lists every claim authored by one employee. Manager only.
//
// @Summary      List requests by employee
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Employee id"
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Failure      422  {object}  actionResponse
// @Router       /v1/admin/employees/{id}/expenses [get]
func (h *ExpenseHandler) ByEmployee(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	action := ports.NewActionRequest(ports.ActionViewByEmployee, caller.UserID, caller.Role)
	action.SetParam(ports.ParamEmployeeID, c.Param("id"))
	return respond(c, ports.ActionViewByEmployee, h.dispatcher.Dispatch(c.Request().Context(), action))
}

// Approve resolves a pending claim as approved. Manager only.
//
// @Summary      Approve a reimbursement request
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request id"
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Failure      422  {object}  actionResponse
// @Router       /v1/expenses/{id}/approve [post]
func (h *ExpenseHandler) Approve(c echo.Context) error {
	return h.resolve(c, ports.ActionApproveRequest, domain.StatusApproved)
}

// Deny resolves a pending claim as denied. Manager only.
//
// @Summary      Deny a reimbursement request
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request id"
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Failure      422  {object}  actionResponse
// @Router       /v1/expenses/{id}/deny [post]
func (h *ExpenseHandler) Deny(c echo.Context) error {
	return h.resolve(c, ports.ActionDenyRequest, domain.StatusDenied)
}

func (h *ExpenseHandler) resolve(c echo.Context, kind ports.ActionKind, status domain.ReimbursementStatus) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	action := ports.NewActionRequest(kind, caller.UserID, caller.Role)
	action.SetParam(ports.ParamRequestID, c.Param("id"))

	resp := h.dispatcher.Dispatch(c.Request().Context(), action)
	if resp.Result == ports.ResultSuccess {
		metrics.ResolutionsTotal.WithLabelValues(string(status)).Inc()
		targetID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		h.recorder.Record(ports.AuditEvent{
			ActorID:  caller.UserID,
			Action:   kind,
			TargetID: targetID,
			Result:   resp.Result,
			At:       time.Now().UTC(),
		})
	}
	return respond(c, kind, resp)
}

func (h *ExpenseHandler) dispatchView(c echo.Context, kind ports.ActionKind) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	action := ports.NewActionRequest(kind, caller.UserID, caller.Role)
	return respond(c, kind, h.dispatcher.Dispatch(c.Request().Context(), action))
}

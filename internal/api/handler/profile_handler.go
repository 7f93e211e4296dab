package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimbushr/expense-system/internal/core/ports"
	"github.com/nimbushr/expense-system/internal/core/service"
)

// ProfileHandler exposes profile views, self-service updates, and the
// allowed-actions listing used for menu gating.
type ProfileHandler struct {
	dispatcher ActionDispatcher
}

func NewProfileHandler(dispatcher ActionDispatcher) *ProfileHandler {
	return &ProfileHandler{dispatcher: dispatcher}
}

// Self returns the caller's own profile.
//
// @Summary      View own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Router       /v1/profile [get]
func (h *ProfileHandler) Self(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	action := ports.NewActionRequest(ports.ActionViewSelf, caller.UserID, caller.Role)
	return respond(c, ports.ActionViewSelf, h.dispatcher.Dispatch(c.Request().Context(), action))
}

// UpdateSelf rewrites the caller's profile fields. All four fields must be
// sent; unchanged ones carry their current values.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New profile values"
// @Success      200   {object}  actionResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  actionResponse
// @Router       /v1/profile [put]
func (h *ProfileHandler) UpdateSelf(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	action := ports.NewActionRequest(ports.ActionUpdateSelf, caller.UserID, caller.Role)
	action.SetParam(ports.ParamUsername, req.Username)
	action.SetParam(ports.ParamFirstName, req.FirstName)
	action.SetParam(ports.ParamLastName, req.LastName)
	action.SetParam(ports.ParamEmail, req.Email)

	return respond(c, ports.ActionUpdateSelf, h.dispatcher.Dispatch(c.Request().Context(), action))
}

// AllEmployees lists every employee profile. Manager only.
//
// @Summary      List all employees
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  actionResponse
// @Failure      403  {object}  actionResponse
// @Router       /v1/admin/employees [get]
func (h *ProfileHandler) AllEmployees(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	action := ports.NewActionRequest(ports.ActionViewAllEmployees, caller.UserID, caller.Role)
	return respond(c, ports.ActionViewAllEmployees, h.dispatcher.Dispatch(c.Request().Context(), action))
}

type allowedActionsResponse struct {
	Role    string   `json:"role"`
	Actions []string `json:"actions"`
}

// AllowedActions returns the actions the caller's role may take, for UI
// menu gating. Works for logged-out callers too.
//
// @Summary      List permitted actions
// @Tags         profile
// @Produce      json
// @Success      200  {object}  allowedActionsResponse
// @Router       /v1/actions [get]
func (h *ProfileHandler) AllowedActions(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	kinds := service.AllowedActions(caller.Role)
	actions := make([]string, 0, len(kinds))
	for _, k := range kinds {
		actions = append(actions, string(k))
	}
	return c.JSON(http.StatusOK, allowedActionsResponse{
		Role:    string(caller.Role),
		Actions: actions,
	})
}

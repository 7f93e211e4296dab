package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

// AuthHandler exposes session establishment and teardown. The core decides
// whether a login is valid; this handler turns the returned profile into a
// signed token and revokes it again at logout.
type AuthHandler struct {
	dispatcher ActionDispatcher
	revoker    TokenRevoker
	recorder   AuditRecorder
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthHandler(dispatcher ActionDispatcher, revoker TokenRevoker, recorder AuditRecorder, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &AuthHandler{
		dispatcher: dispatcher,
		revoker:    revoker,
		recorder:   recorder,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string      `json:"token"`
	Profile profileView `json:"profile"`
}

// Login authenticates a user and returns a session token.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  actionResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	action := ports.NewActionRequest(ports.ActionLogIn, domain.NullID, domain.RoleLoggedOut)
	action.SetParam(ports.ParamUsername, req.Username)
	action.SetParam(ports.ParamPassword, req.Password)

	resp := h.dispatcher.Dispatch(c.Request().Context(), action)
	if resp.Result != ports.ResultSuccess || len(resp.Profiles) != 1 {
		return respond(c, ports.ActionLogIn, resp)
	}

	profile := resp.Profiles[0]
	token, err := h.generateToken(profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not establish session")
	}

	h.recorder.Record(ports.AuditEvent{
		ActorID:  profile.ID,
		Action:   ports.ActionLogIn,
		TargetID: domain.NullID,
		Result:   resp.Result,
		At:       time.Now().UTC(),
	})

	views := toProfileViews(resp.Profiles)
	return c.JSON(http.StatusOK, loginResponse{Token: token, Profile: views[0]})
}

// Logout tears the session down by revoking the presented token.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  actionResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  actionResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	action := ports.NewActionRequest(ports.ActionLogOut, caller.UserID, caller.Role)
	resp := h.dispatcher.Dispatch(c.Request().Context(), action)
	if resp.Result != ports.ResultSuccess {
		return respond(c, ports.ActionLogOut, resp)
	}

	if caller.Token != "" {
		ttl := time.Until(caller.Expiry)
		if err := h.revoker.Revoke(c.Request().Context(), caller.Token, ttl); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "could not revoke session")
		}
	}

	h.recorder.Record(ports.AuditEvent{
		ActorID:  caller.UserID,
		Action:   ports.ActionLogOut,
		TargetID: domain.NullID,
		Result:   resp.Result,
		At:       time.Now().UTC(),
	})

	return respond(c, ports.ActionLogOut, resp)
}

func (h *AuthHandler) generateToken(profile domain.UserProfile) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  profile.ID,
		"username": profile.Username,
		"role":     string(profile.Role),
		"exp":      time.Now().Add(h.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.jwtSecret))
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nimbushr/expense-system/internal/api/middleware"
	"github.com/nimbushr/expense-system/internal/core/domain"
)

// callerIdentity is the session identity the auth middleware injected.
type callerIdentity struct {
	UserID   int64
	Username string
	Role     domain.UserRole
	Token    string
	Expiry   time.Time
}

// ctxIdentity extracts the caller identity and performs a fast-fail check
// before any dispatch: a non-empty role proves the middleware ran.
func ctxIdentity(c echo.Context) (callerIdentity, error) {
	role, _ := c.Get(middleware.CtxRole).(domain.UserRole)
	if role == "" {
		return callerIdentity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ := c.Get(middleware.CtxUserID).(int64)
	username, _ := c.Get(middleware.CtxUsername).(string)
	token, _ := c.Get(middleware.CtxToken).(string)
	expiry, _ := c.Get(middleware.CtxExpiry).(time.Time)

	return callerIdentity{
		UserID:   userID,
		Username: username,
		Role:     role,
		Token:    token,
		Expiry:   expiry,
	}, nil
}

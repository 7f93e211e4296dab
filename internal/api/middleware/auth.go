package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/nimbushr/expense-system/internal/core/domain"
)

// Context keys set by the auth middleware.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxToken    = "token"
	CtxExpiry   = "token_expiry"
)

// Denylist checks whether a token has been revoked at logout.
type Denylist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Auth validates the bearer JWT, rejects revoked tokens, and injects the
// caller's identity into the echo context. Requests without a valid token
// get 401.
func Auth(jwtSecret string, denylist Denylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			revoked, err := denylist.IsRevoked(c.Request().Context(), raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session check unavailable")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}

			id, err := parseToken(raw, jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			setIdentity(c, raw, id)
			return next(c)
		}
	}
}

// Optional is the lenient variant used on routes that serve both logged-in
// and logged-out callers. A missing or unusable token yields a logged-out
// identity instead of a 401.
func Optional(jwtSecret string, denylist Denylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			loggedOut := identity{userID: domain.NullID, role: domain.RoleLoggedOut}

			raw, err := bearerToken(c)
			if err != nil {
				setIdentity(c, "", loggedOut)
				return next(c)
			}

			if revoked, err := denylist.IsRevoked(c.Request().Context(), raw); err != nil || revoked {
				setIdentity(c, "", loggedOut)
				return next(c)
			}

			id, err := parseToken(raw, jwtSecret)
			if err != nil {
				setIdentity(c, "", loggedOut)
				return next(c)
			}

			setIdentity(c, raw, id)
			return next(c)
		}
	}
}

type identity struct {
	userID   int64
	username string
	role     domain.UserRole
	expiry   time.Time
}

func setIdentity(c echo.Context, raw string, id identity) {
	c.Set(CtxUserID, id.userID)
	c.Set(CtxUsername, id.username)
	c.Set(CtxRole, id.role)
	c.Set(CtxToken, raw)
	c.Set(CtxExpiry, id.expiry)
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

func parseToken(raw, jwtSecret string) (identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return identity{}, jwt.ErrTokenSignatureInvalid
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return identity{}, jwt.ErrTokenInvalidClaims
	}
	username, _ := claims["username"].(string)
	role, ok := claims["role"].(string)
	if !ok {
		return identity{}, jwt.ErrTokenInvalidClaims
	}

	id := identity{
		userID:   int64(userID),
		username: username,
		role:     domain.UserRole(role),
	}
	if exp, ok := claims["exp"].(float64); ok {
		id.expiry = time.Unix(int64(exp), 0).UTC()
	}
	return id, nil
}

package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

// AuthHandlers owns the log-in and log-out actions. It is the only handler
// group that touches credentials.
type AuthHandlers struct {
	users  ports.UserProfileStore
	logger zerolog.Logger
}

func NewAuthHandlers(users ports.UserProfileStore, logger zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{users: users, logger: logger}
}

// LogIn verifies the supplied credentials and, on success, returns the
// matched profile so the transport can establish session identity and role.
// The caller must currently be logged out.
func (h *AuthHandlers) LogIn(ctx context.Context, req ports.ActionRequest) ports.ActionResponse {
	username, hasUsername := req.Param(ports.ParamUsername)
	password, hasPassword := req.Param(ports.ParamPassword)
	if !hasUsername || !hasPassword {
		return malformedResponse()
	}

	if req.Role != domain.RoleLoggedOut {
		return forbiddenResponse("a user is already logged in")
	}

	exists, err := h.users.ExistsUsername(ctx, username)
	if err != nil {
		h.logger.Error().Err(err).Msg("username lookup failed")
		return storeErrorResponse()
	}
	if !exists {
		return usernameNotFoundResponse(username)
	}

	hash, err := h.users.PasswordHashByUsername(ctx, username)
	if err != nil {
		h.logger.Error().Err(err).Msg("credential lookup failed")
		return storeErrorResponse()
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return invalidParameterResponse("incorrect password")
	}

	profile, err := h.users.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return usernameNotFoundResponse(username)
		}
		h.logger.Error().Err(err).Msg("profile lookup failed")
		return storeErrorResponse()
	}

	resp := successResponse()
	resp.Profiles = []domain.UserProfile{profile}
	return resp
}

// LogOut succeeds for any logged-in caller. Session teardown itself is a
// transport concern; no store interaction happens here.
func (h *AuthHandlers) LogOut(_ context.Context, req ports.ActionRequest) ports.ActionResponse {
	if req.Role == domain.RoleLoggedOut {
		return forbiddenResponse("no user is currently logged in")
	}
	return successResponse()
}

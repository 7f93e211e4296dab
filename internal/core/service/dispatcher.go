package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nimbushr/expense-system/internal/core/ports"
)

// handlerFunc is the signature every action handler implements.
type handlerFunc func(ctx context.Context, req ports.ActionRequest) ports.ActionResponse

// Dispatcher is the single entry point the transport talks to. It checks the
// permission table, routes the request to the owning handler group, and
// guarantees that every code path produces a response value.
type Dispatcher struct {
	routes map[ports.ActionKind]handlerFunc
	logger zerolog.Logger
}

// NewDispatcher wires the three handler groups into a static routing table.
func NewDispatcher(auth *AuthHandlers, views *ViewHandlers, mutations *MutationHandlers, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		routes: map[ports.ActionKind]handlerFunc{
			ports.ActionLogIn:            auth.LogIn,
			ports.ActionLogOut:           auth.LogOut,
			ports.ActionSubmitRequest:    mutations.SubmitRequest,
			ports.ActionViewOwnPending:   views.OwnPending,
			ports.ActionViewOwnResolved:  views.OwnResolved,
			ports.ActionViewSelf:         views.Self,
			ports.ActionUpdateSelf:       mutations.UpdateSelf,
			ports.ActionApproveRequest:   mutations.ApproveRequest,
			ports.ActionDenyRequest:      mutations.DenyRequest,
			ports.ActionViewAllPending:   views.AllPending,
			ports.ActionViewAllResolved:  views.AllResolved,
			ports.ActionViewAllEmployees: views.AllEmployees,
			ports.ActionViewByEmployee:   views.ByEmployee,
		},
		logger: logger,
	}
}

// Dispatch validates permission and routes the request. It never panics; a
// fault inside a handler is logged and reported as a database error so the
// transport always has a response to render.
func (d *Dispatcher) Dispatch(ctx context.Context, req ports.ActionRequest) (resp ports.ActionResponse) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Interface("panic", r).
				Str("action", string(req.Kind)).
				Int64("user_id", req.UserID).
				Msg("handler panicked")
			resp = storeErrorResponse()
		}
	}()

	if !roleCan(req.Role, req.Kind) {
		return forbiddenResponse(msgNotPermitted)
	}

	handle, ok := d.routes[req.Kind]
	if !ok {
		// Unreachable for any kind the permission table knows about.
		return ports.ActionResponse{
			Result:  ports.ResultMalformedRequest,
			Message: fmt.Sprintf("action %q not recognized", req.Kind),
		}
	}

	resp = handle(ctx, req)

	d.logger.Debug().
		Str("action", string(req.Kind)).
		Str("role", string(req.Role)).
		Int64("user_id", req.UserID).
		Str("result", string(resp.Result)).
		Msg("action dispatched")

	return resp
}

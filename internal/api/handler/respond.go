package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nimbushr/expense-system/internal/api/metrics"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

// ActionDispatcher is the core entry point the HTTP handlers talk to.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, req ports.ActionRequest) ports.ActionResponse
}

// AuditRecorder enqueues audit events for asynchronous persistence.
type AuditRecorder interface {
	Record(event ports.AuditEvent)
}

// TokenRevoker invalidates a session token until its natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// statusByResult maps core result kinds to HTTP status codes.
var statusByResult = map[ports.ResultKind]int{
	ports.ResultSuccess:          http.StatusOK,
	ports.ResultForbidden:        http.StatusForbidden,
	ports.ResultInvalidParameter: http.StatusUnprocessableEntity,
	ports.ResultMalformedRequest: http.StatusBadRequest,
	ports.ResultDatabaseError:    http.StatusBadGateway,
}

// actionResponse is the JSON envelope every dispatch-backed endpoint renders.
type actionResponse struct {
	Result   string        `json:"result"`
	Message  string        `json:"message,omitempty"`
	Profiles []profileView `json:"profiles,omitempty"`
	Requests []requestView `json:"requests,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// respond renders an ActionResponse and records the dispatch outcome metric.
func respond(c echo.Context, kind ports.ActionKind, resp ports.ActionResponse) error {
	metrics.ActionsTotal.WithLabelValues(string(kind), string(resp.Result)).Inc()

	status, ok := statusByResult[resp.Result]
	if !ok {
		status = http.StatusInternalServerError
	}

	return c.JSON(status, actionResponse{
		Result:   string(resp.Result),
		Message:  resp.Message,
		Profiles: toProfileViews(resp.Profiles),
		Requests: toRequestViews(resp.Requests),
	})
}

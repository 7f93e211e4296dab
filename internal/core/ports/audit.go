package ports

import (
	"context"
	"time"
)

// AuditEvent records who did what, to which record, with what outcome.
type AuditEvent struct {
	ActorID  int64
	Action   ActionKind
	TargetID int64 // request or profile id the action touched; domain.NullID when n/a
	Result   ResultKind
	At       time.Time
}

// AuditStore persists audit events. Append failures are logged by the
// recorder and never surfaced to the acting user.
type AuditStore interface {
	Append(ctx context.Context, event AuditEvent) error
}

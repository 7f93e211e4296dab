package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nimbushr/expense-system/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditStore on MongoDB. Events are
// append-only; nothing in the system reads them back through this process.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ActorID  int64     `bson:"actor_id"`
	Action   string    `bson:"action"`
	TargetID int64     `bson:"target_id"`
	Result   string    `bson:"result"`
	At       time.Time `bson:"at"`
}

func (r *AuditRepository) Append(ctx context.Context, event ports.AuditEvent) error {
	doc := auditDoc{
		ActorID:  event.ActorID,
		Action:   string(event.Action),
		TargetID: event.TargetID,
		Result:   string(event.Result),
		At:       event.At,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

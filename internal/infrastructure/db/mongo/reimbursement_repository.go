package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

const reimbursementsCollection = "reimbursement_requests"

// ReimbursementRepository implements ports.ReimbursementStore on MongoDB.
type ReimbursementRepository struct {
	coll *mongo.Collection
	seq  *sequences
}

func NewReimbursementRepository(db *mongo.Database) *ReimbursementRepository {
	return &ReimbursementRepository{
		coll: db.Collection(reimbursementsCollection),
		seq:  newSequences(db),
	}
}

type reimbursementDoc struct {
	ID          int64      `bson:"_id"`
	AuthorID    int64      `bson:"author_id"`
	AmountCents int64      `bson:"amount_cents"`
	Type        string     `bson:"type"`
	Status      string     `bson:"status"`
	Description string     `bson:"description,omitempty"`
	SubmittedAt time.Time  `bson:"submitted_at"`
	ResolverID  int64      `bson:"resolver_id"`
	ResolvedAt  *time.Time `bson:"resolved_at,omitempty"`
}

func toDoc(r domain.ReimbursementRequest) reimbursementDoc {
	return reimbursementDoc{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		AmountCents: r.AmountCents,
		Type:        string(r.Type),
		Status:      string(r.Status),
		Description: r.Description,
		SubmittedAt: r.SubmittedAt,
		ResolverID:  r.ResolverID,
		ResolvedAt:  r.ResolvedAt,
	}
}

func (d reimbursementDoc) toRequest() domain.ReimbursementRequest {
	return domain.ReimbursementRequest{
		ID:          d.ID,
		AuthorID:    d.AuthorID,
		AmountCents: d.AmountCents,
		Type:        domain.ReimbursementType(d.Type),
		Status:      domain.ReimbursementStatus(d.Status),
		Description: d.Description,
		SubmittedAt: d.SubmittedAt,
		ResolverID:  d.ResolverID,
		ResolvedAt:  d.ResolvedAt,
	}
}

func (r *ReimbursementRepository) Query(ctx context.Context, filter ports.QueryFilter) ([]domain.ReimbursementRequest, error) {
	query := bson.M{}
	if filter.AuthorID != ports.AnyAuthor {
		query["author_id"] = filter.AuthorID
	}
	switch filter.Status {
	case ports.FilterPending:
		query["status"] = string(domain.StatusPending)
	case ports.FilterResolved:
		query["status"] = bson.M{"$in": bson.A{
			string(domain.StatusApproved),
			string(domain.StatusDenied),
		}}
	}

	// Ascending id keeps insertion order stable.
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query reimbursements: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reimbursementDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reimbursements: %w", err)
	}

	requests := make([]domain.ReimbursementRequest, 0, len(docs))
	for _, d := range docs {
		requests = append(requests, d.toRequest())
	}
	return requests, nil
}

func (r *ReimbursementRepository) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("count reimbursements: %w", err)
	}
	return n > 0, nil
}

func (r *ReimbursementRepository) ByID(ctx context.Context, id int64) (domain.ReimbursementRequest, error) {
	var doc reimbursementDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ReimbursementRequest{}, domain.ErrRequestNotFound
	}
	if err != nil {
		return domain.ReimbursementRequest{}, fmt.Errorf("find reimbursement: %w", err)
	}
	return doc.toRequest(), nil
}

func (r *ReimbursementRepository) Save(ctx context.Context, req domain.ReimbursementRequest) (int64, error) {
	if req.ID == domain.NullID {
		id, err := r.seq.next(ctx, reimbursementsCollection)
		if err != nil {
			return 0, err
		}
		req.ID = id
		if _, err := r.coll.InsertOne(ctx, toDoc(req)); err != nil {
			return 0, fmt.Errorf("insert reimbursement: %w", err)
		}
		return id, nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": req.ID}, toDoc(req))
	if err != nil {
		return 0, fmt.Errorf("replace reimbursement: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, domain.ErrRequestNotFound
	}
	return req.ID, nil
}

// Resolve applies the terminal transition with a single conditional update:
// the filter matches only while the claim is still pending, so concurrent
// resolutions of the same claim cannot both succeed.
func (r *ReimbursementRepository) Resolve(ctx context.Context, id int64, status domain.ReimbursementStatus, resolverID int64, at time.Time) error {
	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(domain.StatusPending)},
		bson.M{"$set": bson.M{
			"status":      string(status),
			"resolver_id": resolverID,
			"resolved_at": at,
		}},
	)

	err := res.Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the claim never existed or it was resolved first; look once
		// more to report the right condition.
		exists, existsErr := r.Exists(ctx, id)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return domain.ErrRequestNotFound
		}
		return domain.ErrRequestNotPending
	}
	if err != nil {
		return fmt.Errorf("resolve reimbursement: %w", err)
	}
	return nil
}

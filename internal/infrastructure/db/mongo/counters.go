package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// sequences hands out monotonically increasing int64 ids, one sequence per
// name, using an atomic $inc on a counters document.
type sequences struct {
	coll *mongo.Collection
}

func newSequences(db *mongo.Database) *sequences {
	return &sequences{coll: db.Collection(countersCollection)}
}

type counterDoc struct {
	Seq int64 `bson:"seq"`
}

// next returns the next id in the named sequence, starting at 1.
func (s *sequences) next(ctx context.Context, name string) (int64, error) {
	res := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	)

	var doc counterDoc
	if err := res.Decode(&doc); err != nil {
		return 0, fmt.Errorf("next id for %s: %w", name, err)
	}
	return doc.Seq, nil
}

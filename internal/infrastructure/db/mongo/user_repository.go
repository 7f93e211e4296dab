package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nimbushr/expense-system/internal/core/domain"
)

const usersCollection = "user_profiles"

// UserProfileRepository implements ports.UserProfileStore on MongoDB. The
// credential hash lives on the same document as the profile but is only ever
// read through PasswordHashByUsername.
type UserProfileRepository struct {
	coll *mongo.Collection
	seq  *sequences
}

func NewUserProfileRepository(db *mongo.Database) *UserProfileRepository {
	return &UserProfileRepository{
		coll: db.Collection(usersCollection),
		seq:  newSequences(db),
	}
}

type userDoc struct {
	ID           int64  `bson:"_id"`
	Role         string `bson:"role"`
	Username     string `bson:"username"`
	FirstName    string `bson:"first_name"`
	LastName     string `bson:"last_name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
}

func (d userDoc) toProfile() domain.UserProfile {
	return domain.UserProfile{
		ID:        d.ID,
		Role:      domain.UserRole(d.Role),
		Username:  d.Username,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
	}
}

func (r *UserProfileRepository) ExistsID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, bson.M{"_id": id})
}

func (r *UserProfileRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *UserProfileRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *UserProfileRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserProfileRepository) PasswordHashByUsername(ctx context.Context, username string) (string, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", domain.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find credential: %w", err)
	}
	return doc.PasswordHash, nil
}

func (r *UserProfileRepository) ByID(ctx context.Context, id int64) (domain.UserProfile, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserProfileRepository) ByUsername(ctx context.Context, username string) (domain.UserProfile, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserProfileRepository) findOne(ctx context.Context, filter bson.M) (domain.UserProfile, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toProfile(), nil
}

func (r *UserProfileRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.UserProfile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"role": string(role)})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	profiles := make([]domain.UserProfile, 0, len(docs))
	for _, d := range docs {
		profiles = append(profiles, d.toProfile())
	}
	return profiles, nil
}

// Save inserts the profile under a fresh id when it carries domain.NullID;
// otherwise it updates the mutable fields in place. Role, id and the password
// hash are never changed by an update.
func (r *UserProfileRepository) Save(ctx context.Context, profile domain.UserProfile) (int64, error) {
	if profile.ID == domain.NullID {
		id, err := r.seq.next(ctx, usersCollection)
		if err != nil {
			return 0, err
		}
		doc := userDoc{
			ID:        id,
			Role:      string(profile.Role),
			Username:  profile.Username,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Email:     profile.Email,
		}
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return 0, domain.ErrUserExists
			}
			return 0, fmt.Errorf("insert user: %w", err)
		}
		return id, nil
	}

	update := bson.M{"$set": bson.M{
		"username":   profile.Username,
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"email":      profile.Email,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": profile.ID}, update)
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, domain.ErrUserNotFound
	}
	return profile.ID, nil
}

// SetPasswordHash writes the credential for an account. Used by the seed
// tool; the core never calls it.
func (r *UserProfileRepository) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password_hash": hash}},
	)
	if err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
